package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"HandwritingBoard/internal/state"
)

func TestCanvasSize(t *testing.T) {
	assert.Equal(t, state.Size{Width: 794, Height: 1123}, canvasSize(0, 0, "a4"))
	assert.Equal(t, state.Size{Width: 640, Height: 480}, canvasSize(640, 480, "custom"))
	assert.Equal(t, state.Size{Width: state.DefaultCanvasWidth, Height: state.DefaultCanvasHeight}, canvasSize(0, 0, "custom"))
}

func TestPresetFor(t *testing.T) {
	assert.Equal(t, "square", presetFor(state.Size{Width: 1000, Height: 1000}))
	assert.Equal(t, "", presetFor(state.Size{Width: 1, Height: 2}))
}

func TestHasImageExtension(t *testing.T) {
	assert.True(t, hasImageExtension(".PNG"))
	assert.True(t, hasImageExtension(".svg"))
	assert.False(t, hasImageExtension(".txt"))
	assert.False(t, hasImageExtension(""))
}
