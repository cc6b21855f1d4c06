package state

import (
	"math"
	"strings"
)

// Size is a logical canvas size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is where the canvas surface is shown on screen.
type Bounds struct {
	X, Y, Width, Height float64
}

// ToLogical maps a screen position inside bounds to logical canvas
// coordinates. The surface is scaled to fit its container while drawing
// coordinates stay fixed, so the mapping divides by displayed/logical.
func ToLogical(screen Point, bounds Bounds, logical Size) Point {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Point{X: screen.X - bounds.X, Y: screen.Y - bounds.Y}
	}
	sx := bounds.Width / logical.Width
	sy := bounds.Height / logical.Height
	return Point{
		X: (screen.X - bounds.X) / sx,
		Y: (screen.Y - bounds.Y) / sy,
	}
}

// FitBounds centers a surface of the given logical size inside a container,
// scaled uniformly to fit and then multiplied by zoom.
func FitBounds(container Size, logical Size, zoom float64) Bounds {
	if logical.Width <= 0 || logical.Height <= 0 {
		return Bounds{}
	}
	scale := math.Min(container.Width/logical.Width, container.Height/logical.Height) * zoom
	w, h := logical.Width*scale, logical.Height*scale
	return Bounds{
		X:      (container.Width - w) / 2,
		Y:      (container.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

const (
	MinZoom  = 0.3
	MaxZoom  = 3.0
	ZoomStep = 1.2
)

func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func ZoomIn(z float64) float64  { return ClampZoom(z * ZoomStep) }
func ZoomOut(z float64) float64 { return ClampZoom(z / ZoomStep) }

// CanvasPreset is a named logical canvas size.
type CanvasPreset struct {
	Name string
	Size Size
}

var CanvasPresets = []CanvasPreset{
	{Name: "Default", Size: Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}},
	{Name: "A4", Size: Size{Width: 794, Height: 1123}},
	{Name: "Letter", Size: Size{Width: 816, Height: 1056}},
	{Name: "Square", Size: Size{Width: 1000, Height: 1000}},
}

// PresetSize looks up a preset by name, ignoring case.
func PresetSize(name string) (Size, bool) {
	for _, p := range CanvasPresets {
		if strings.EqualFold(p.Name, name) {
			return p.Size, true
		}
	}
	return Size{}, false
}
