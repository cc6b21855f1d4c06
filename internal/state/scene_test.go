package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStrokeDropsDegenerate(t *testing.T) {
	var s Scene
	s = s.AddStroke(Stroke{Points: []Point{{X: 1, Y: 1}}})
	assert.Empty(t, s.Strokes)

	s = s.AddStroke(Stroke{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}})
	assert.Len(t, s.Strokes, 1)
}

func TestSceneOpsDoNotMutateReceiver(t *testing.T) {
	a := Scene{}.AddElement(imageAt(0, 0, 10, 10))
	b := a.UpdateElement(a.Elements[0].ID, ElementPatch{X: Ptr(50.0)})

	assert.Equal(t, 0.0, a.Elements[0].X)
	assert.Equal(t, 50.0, b.Elements[0].X)
}

func TestUpdateUnknownElementIsNoop(t *testing.T) {
	s := Scene{}.AddElement(imageAt(0, 0, 10, 10))
	assert.Equal(t, s, s.UpdateElement("missing", ElementPatch{X: Ptr(5.0)}))
	assert.Equal(t, s, s.RemoveElement("missing"))
}

func TestSetSelectionIsExclusive(t *testing.T) {
	s := Scene{}
	for i := 0; i < 4; i++ {
		s = s.AddElement(imageAt(float64(i*20), 0, 10, 10))
	}
	for _, el := range s.Elements {
		s = s.SetSelection(el.ID)
		assert.Equal(t, 1, selectedCount(s))
		got, ok := s.Selected()
		require.True(t, ok)
		assert.Equal(t, el.ID, got.ID)
	}
	s = s.SetSelection("")
	assert.Equal(t, 0, selectedCount(s))
}

func TestBringToFront(t *testing.T) {
	s := Scene{}.
		AddElement(imageAt(0, 0, 10, 10)).
		AddElement(imageAt(5, 5, 10, 10)).
		AddElement(imageAt(9, 9, 10, 10))
	ids := []string{s.Elements[0].ID, s.Elements[1].ID, s.Elements[2].ID}

	moved := s.BringToFront(ids[0])
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, elementIDs(moved))

	same := s.BringToFront(ids[2])
	assert.Equal(t, ids, elementIDs(same))
}

func TestRemoveSelectedClearsSelection(t *testing.T) {
	s := Scene{}.AddElement(imageAt(0, 0, 10, 10))
	id := s.Elements[0].ID
	s = s.SetSelection(id).RemoveElement(id)

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, s.Elements)
}

func TestPatchIgnoresFieldsOfOtherKind(t *testing.T) {
	s := Scene{}.AddElement(NewText(Point{}, "hi", TextStyle{FontSize: 20}))
	id := s.Elements[0].ID
	s = s.UpdateElement(id, ElementPatch{Width: Ptr(99.0), Text: Ptr("yo")})

	assert.Equal(t, "yo", s.Elements[0].Text.Text)
	assert.Zero(t, s.Elements[0].Image.Width)
}

func elementIDs(s Scene) []string {
	out := make([]string, len(s.Elements))
	for i, el := range s.Elements {
		out[i] = el.ID
	}
	return out
}
