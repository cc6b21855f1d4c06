package state

import "math"

// Measurer reports the advance width of a run of text.
type Measurer interface {
	MeasureText(text string, fontSize float64, fontFamily string) float64
}

// Rect is an axis aligned box in logical coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Expand grows the box by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Geometry is the position and size of an element at a point in time.
type Geometry struct {
	X, Y, Width, Height float64
}

// Handle names a corner of an element's bounding box.
type Handle string

const (
	HandleNone        Handle = ""
	HandleTopLeft     Handle = "topLeft"
	HandleTopRight    Handle = "topRight"
	HandleBottomLeft  Handle = "bottomLeft"
	HandleBottomRight Handle = "bottomRight"
)

// Handles holds the four corner positions of a bounding box.
type Handles struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

func (h Handles) each(fn func(Handle, Point) bool) {
	for _, c := range []struct {
		h Handle
		p Point
	}{
		{HandleTopLeft, h.TopLeft},
		{HandleTopRight, h.TopRight},
		{HandleBottomLeft, h.BottomLeft},
		{HandleBottomRight, h.BottomRight},
	} {
		if !fn(c.h, c.p) {
			return
		}
	}
}

// Points returns the corners in a fixed order: TL, TR, BL, BR.
func (h Handles) Points() []Point {
	return []Point{h.TopLeft, h.TopRight, h.BottomLeft, h.BottomRight}
}

// HitOptions carries the hit-test tunables and the tool context.
type HitOptions struct {
	Tolerance  float64
	HandleSize float64
	SelectTool bool
}

func DefaultHitOptions(tool Tool) HitOptions {
	return HitOptions{
		Tolerance:  DefaultTolerance,
		HandleSize: DefaultHandleSize,
		SelectTool: tool == ToolSelect,
	}
}

// TextBounds is the baseline-relative box of a text element: it spans one
// font size above the baseline and the measured advance to the right.
func TextBounds(m Measurer, el Element) Rect {
	w := 0.0
	if m != nil {
		w = m.MeasureText(el.Text.Text, el.Text.FontSize, el.Text.FontFamily)
	}
	return Rect{
		Left:   el.X,
		Right:  el.X + w,
		Top:    el.Y - el.Text.FontSize,
		Bottom: el.Y,
	}
}

func ElementBounds(m Measurer, el Element) Rect {
	switch el.Kind {
	case KindText:
		return TextBounds(m, el)
	case KindImage:
		return Rect{
			Left:   el.X,
			Top:    el.Y,
			Right:  el.X + el.Image.Width,
			Bottom: el.Y + el.Image.Height,
		}
	}
	return Rect{Left: el.X, Top: el.Y, Right: el.X, Bottom: el.Y}
}

func ResizeHandles(r Rect) Handles {
	return Handles{
		TopLeft:     Point{X: r.Left, Y: r.Top},
		TopRight:    Point{X: r.Right, Y: r.Top},
		BottomLeft:  Point{X: r.Left, Y: r.Bottom},
		BottomRight: Point{X: r.Right, Y: r.Bottom},
	}
}

// HandleAt returns the handle whose center lies within size of p.
func HandleAt(h Handles, p Point, size float64) Handle {
	found := HandleNone
	h.each(func(name Handle, c Point) bool {
		if math.Abs(p.X-c.X) <= size && math.Abs(p.Y-c.Y) <= size {
			found = name
			return false
		}
		return true
	})
	return found
}

// IsPointInElement reports whether p hits el: inside its box grown by the
// tolerance, or on one of its handles while it is selected under the select
// tool.
func IsPointInElement(m Measurer, p Point, el Element, opts HitOptions) bool {
	box := ElementBounds(m, el)
	if box.Expand(opts.Tolerance).Contains(p) {
		return true
	}
	if el.Selected && opts.SelectTool {
		return HandleAt(ResizeHandles(box), p, opts.HandleSize) != HandleNone
	}
	return false
}

// HitTest finds the element under p. The selected element's handles are
// checked first; otherwise elements are tried from the top of the paint order
// down, so the topmost one wins.
func HitTest(s Scene, m Measurer, p Point, opts HitOptions) (string, Handle) {
	if sel, ok := s.Selected(); ok && opts.SelectTool {
		box := ElementBounds(m, sel)
		if h := HandleAt(ResizeHandles(box), p, opts.HandleSize); h != HandleNone {
			return sel.ID, h
		}
	}
	for i := len(s.Elements) - 1; i >= 0; i-- {
		if IsPointInElement(m, p, s.Elements[i], opts) {
			return s.Elements[i].ID, HandleNone
		}
	}
	return "", HandleNone
}

// ResolveResize computes the new geometry when handle is dragged by delta
// from start. With lock set the box keeps ratio (width/height): whichever
// axis moved more drives the size and the other follows. The corner opposite
// the handle stays put, and neither side drops below MinElementSize.
func ResolveResize(handle Handle, delta Point, start Geometry, ratio float64, lock bool) Geometry {
	dw, dh := delta.X, delta.Y
	if handle == HandleTopLeft || handle == HandleBottomLeft {
		dw = -dw
	}
	if handle == HandleTopLeft || handle == HandleTopRight {
		dh = -dh
	}

	w, h := start.Width+dw, start.Height+dh
	if lock {
		if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			ratio = 1
		}
		if math.Abs(delta.X) >= math.Abs(delta.Y) {
			h = w / ratio
		} else {
			w = h * ratio
		}
		if w < MinElementSize || h < MinElementSize {
			if ratio >= 1 {
				h = MinElementSize
				w = h * ratio
			} else {
				w = MinElementSize
				h = w / ratio
			}
		}
	} else {
		w = math.Max(w, MinElementSize)
		h = math.Max(h, MinElementSize)
	}

	out := Geometry{X: start.X, Y: start.Y, Width: w, Height: h}
	if handle == HandleTopLeft || handle == HandleBottomLeft {
		out.X = start.X + start.Width - w
	}
	if handle == HandleTopLeft || handle == HandleTopRight {
		out.Y = start.Y + start.Height - h
	}
	return out
}

// ResizeText scales a text element's font size by the vertical drag. Top
// handles grow the text when dragged up.
func ResizeText(handle Handle, delta Point, fontSize float64) float64 {
	d := delta.Y
	if handle == HandleTopLeft || handle == HandleTopRight {
		d = -d
	}
	return math.Max(fontSize+d, MinElementSize)
}

// ImageRatio is the locked aspect ratio of an image element.
func ImageRatio(el Element) float64 {
	if el.Image.OriginalHeight > 0 && el.Image.OriginalWidth > 0 {
		return el.Image.OriginalWidth / el.Image.OriginalHeight
	}
	if el.Image.Height > 0 {
		return el.Image.Width / el.Image.Height
	}
	return 1
}

// FitWithin scales (w, h) down so it fits inside (maxW, maxH), keeping the
// ratio. Sizes that already fit are returned unchanged.
func FitWithin(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	scale := math.Min(maxW/w, maxH/h)
	if scale >= 1 {
		return w, h
	}
	return w * scale, h * scale
}
