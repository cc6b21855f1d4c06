package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryInverseLaw(t *testing.T) {
	h := NewHistory()
	var scenes []Scene
	s := Scene{}
	for i := 0; i < 5; i++ {
		s = s.AddStroke(Stroke{Points: []Point{{X: float64(i), Y: 0}, {X: float64(i), Y: 10}}})
		if i%2 == 0 {
			s = s.AddElement(imageAt(float64(i), 0, 10, 10))
		}
		h = h.Commit(s)
		scenes = append(scenes, s.Clone())
	}

	var got Scene
	var ok bool
	for i := len(scenes) - 2; i >= 0; i-- {
		h, got, ok = h.Undo()
		require.True(t, ok)
		assert.Equal(t, scenes[i], got)
	}
	h, got, ok = h.Undo()
	require.True(t, ok)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, -1, h.Cursor())

	_, _, ok = h.Undo()
	assert.False(t, ok)

	for i := range scenes {
		h, got, ok = h.Redo()
		require.True(t, ok)
		assert.Equal(t, scenes[i], got)
	}
	_, _, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistoryTruncatesRedoBranch(t *testing.T) {
	h := NewHistory()
	s := Scene{}
	for i := 0; i < 3; i++ {
		s = s.AddElement(imageAt(float64(i), 0, 10, 10))
		h = h.Commit(s)
	}
	h, _, _ = h.Undo()
	h, cur, _ := h.Undo()

	h = h.Commit(cur.AddStroke(Stroke{Points: []Point{{}, {X: 1}}}))
	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())

	_, _, ok := h.Redo()
	assert.False(t, ok)
}

func TestHistoryEntriesAreIsolated(t *testing.T) {
	s := Scene{}.AddStroke(Stroke{Points: []Point{{X: 1}, {X: 2}}})
	h := NewHistory().Commit(s)
	s.Strokes[0].Points[0].X = 99

	got, ok := h.At(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.Strokes[0].Points[0].X)
}

func TestHistoryBaseScene(t *testing.T) {
	base := Scene{}.AddElement(imageAt(0, 0, 10, 10))
	h := NewHistoryFrom(base).Commit(base.AddElement(imageAt(20, 0, 10, 10)))

	_, got, ok := h.Undo()
	require.True(t, ok)
	assert.Len(t, got.Elements, 1)
}
