package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextBoundsAreBaselineRelative(t *testing.T) {
	el := NewText(Point{X: 10, Y: 100}, "abcd", TextStyle{FontSize: 20})
	r := TextBounds(measure, el)

	assert.Equal(t, Rect{Left: 10, Right: 50, Top: 80, Bottom: 100}, r)
}

func TestIsPointInElementTolerance(t *testing.T) {
	el := imageAt(50, 50, 100, 50)
	opts := DefaultHitOptions(ToolSelect)

	assert.True(t, IsPointInElement(measure, Point{X: 46, Y: 60}, el, opts))
	assert.False(t, IsPointInElement(measure, Point{X: 44, Y: 60}, el, opts))
}

func TestIsPointInElementHandleZoneOnlyWhenSelected(t *testing.T) {
	el := imageAt(50, 50, 100, 50)
	p := Point{X: 157, Y: 107} // outside tolerance, inside handle zone of bottom-right

	assert.False(t, IsPointInElement(measure, p, el, DefaultHitOptions(ToolSelect)))

	el.Selected = true
	assert.True(t, IsPointInElement(measure, p, el, DefaultHitOptions(ToolSelect)))
	assert.False(t, IsPointInElement(measure, p, el, DefaultHitOptions(ToolPen)))
}

func TestHitTestTopMostWins(t *testing.T) {
	s := Scene{}.AddElement(imageAt(0, 0, 100, 100)).AddElement(imageAt(50, 50, 100, 100))
	id, h := HitTest(s, measure, Point{X: 75, Y: 75}, DefaultHitOptions(ToolSelect))

	assert.Equal(t, s.Elements[1].ID, id)
	assert.Equal(t, HandleNone, h)
}

func TestHitTestPrefersSelectedHandles(t *testing.T) {
	s := Scene{}.AddElement(imageAt(0, 0, 100, 100)).AddElement(imageAt(90, 90, 100, 100))
	s = s.SetSelection(s.Elements[0].ID)

	id, h := HitTest(s, measure, Point{X: 100, Y: 100}, DefaultHitOptions(ToolSelect))
	assert.Equal(t, s.Elements[0].ID, id)
	assert.Equal(t, HandleBottomRight, h)
}

func TestResizeKeepsAspectRatioFromEveryHandle(t *testing.T) {
	start := Geometry{X: 50, Y: 50, Width: 200, Height: 100}
	deltas := []Point{{X: 40, Y: 5}, {X: -30, Y: 70}, {X: 13, Y: -90}, {X: -7, Y: -3}}
	for _, h := range []Handle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight} {
		for _, d := range deltas {
			g := ResolveResize(h, d, start, 2, true)
			assert.InDelta(t, 2.0, g.Width/g.Height, 1e-9, "handle %s delta %v", h, d)
			assert.GreaterOrEqual(t, g.Width, float64(MinElementSize))
			assert.GreaterOrEqual(t, g.Height, float64(MinElementSize))
		}
	}
}

func TestResizeAnchorsOppositeCorner(t *testing.T) {
	start := Geometry{X: 50, Y: 50, Width: 200, Height: 100}

	g := ResolveResize(HandleTopLeft, Point{X: -20, Y: 0}, start, 2, true)
	assert.InDelta(t, start.X+start.Width, g.X+g.Width, 1e-9)
	assert.InDelta(t, start.Y+start.Height, g.Y+g.Height, 1e-9)

	g = ResolveResize(HandleBottomRight, Point{X: 20, Y: 0}, start, 2, true)
	assert.Equal(t, start.X, g.X)
	assert.Equal(t, start.Y, g.Y)
}

func TestResizeClampsToMinimum(t *testing.T) {
	start := Geometry{X: 0, Y: 0, Width: 200, Height: 100}

	g := ResolveResize(HandleBottomRight, Point{X: -500, Y: 0}, start, 2, true)
	assert.InDelta(t, 10.0, g.Height, 1e-9)
	assert.InDelta(t, 20.0, g.Width, 1e-9)

	tall := Geometry{X: 0, Y: 0, Width: 50, Height: 200}
	g = ResolveResize(HandleTopLeft, Point{X: 0, Y: 900}, tall, 0.25, true)
	assert.InDelta(t, 10.0, g.Width, 1e-9)
	assert.InDelta(t, 40.0, g.Height, 1e-9)
	assert.InDelta(t, 50.0, g.X+g.Width, 1e-9)

	free := ResolveResize(HandleBottomRight, Point{X: -500, Y: 30}, start, 2, false)
	assert.Equal(t, float64(MinElementSize), free.Width)
	assert.Equal(t, 130.0, free.Height)
}

func TestResizeText(t *testing.T) {
	assert.Equal(t, 34.0, ResizeText(HandleBottomRight, Point{Y: 10}, 24))
	assert.Equal(t, 34.0, ResizeText(HandleTopLeft, Point{Y: -10}, 24))
	assert.Equal(t, float64(MinElementSize), ResizeText(HandleBottomLeft, Point{Y: -100}, 24))
}

func TestToLogical(t *testing.T) {
	b := Bounds{X: 100, Y: 20, Width: 400, Height: 300}
	p := ToLogical(Point{X: 300, Y: 170}, b, Size{Width: 800, Height: 600})

	assert.Equal(t, Point{X: 400, Y: 300}, p)
}

func TestFitBoundsCentersAndZooms(t *testing.T) {
	b := FitBounds(Size{Width: 1000, Height: 600}, Size{Width: 800, Height: 600}, 1)
	assert.Equal(t, Bounds{X: 100, Y: 0, Width: 800, Height: 600}, b)

	z := FitBounds(Size{Width: 1000, Height: 600}, Size{Width: 800, Height: 600}, 0.5)
	assert.Equal(t, 400.0, z.Width)
	assert.Equal(t, 300.0, z.X)
}

func TestZoomClamp(t *testing.T) {
	z := 1.0
	for i := 0; i < 20; i++ {
		z = ZoomIn(z)
	}
	assert.Equal(t, MaxZoom, z)
	for i := 0; i < 40; i++ {
		z = ZoomOut(z)
	}
	assert.Equal(t, MinZoom, z)
}

func TestZoomSteps(t *testing.T) {
	assert.Equal(t, MaxZoom, ClampZoom(10))
	assert.Equal(t, MinZoom, ClampZoom(0))
	assert.InDelta(t, 1.2, ZoomIn(1), 1e-9)
	assert.Equal(t, MaxZoom, ZoomIn(2.9))
	assert.Equal(t, MinZoom, ZoomOut(0.31))
}

func TestPresetSize(t *testing.T) {
	s, ok := PresetSize("letter")
	assert.True(t, ok)
	assert.Equal(t, Size{Width: 816, Height: 1056}, s)

	s, ok = PresetSize("Default")
	assert.True(t, ok)
	assert.Equal(t, Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}, s)

	_, ok = PresetSize("poster")
	assert.False(t, ok)
}
