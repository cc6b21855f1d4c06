// Package render rasterises a scene with gg.
package render

import (
	"image"
	"log/slog"

	"github.com/fogleman/gg"

	"HandwritingBoard/internal/fonts"
	"HandwritingBoard/internal/state"
)

const (
	Background     = "#ffffff"
	GridSize       = 20.0
	GridColor      = "#e5e7eb"
	GridAlpha      = 0.5
	GridLineWidth  = 0.5
	SelectionColor = "#3b82f6"
)

// Images looks up decoded pixels by element handle.
type Images interface {
	Image(handle string) (image.Image, bool)
}

// Frame is everything one redraw needs.
type Frame struct {
	Size  state.Size
	Scene state.Scene
	// Current is the in-progress stroke, drawn above committed ones.
	Current *state.Stroke
	// ShowGrid draws the background grid.
	ShowGrid bool
	// ShowSelection decorates the selected element with its box and handles.
	ShowSelection bool
	HandleSize    float64
}

// FrameOf builds the on-screen frame for a workspace.
func FrameOf(ws state.Workspace, size state.Size) Frame {
	f := Frame{
		Size:          size,
		Scene:         ws.Scene,
		ShowGrid:      ws.ShowGrid,
		ShowSelection: ws.Tool == state.ToolSelect,
		HandleSize:    ws.Hit.HandleSize,
	}
	if ws.Mode == state.ModeDrawing {
		cur := ws.Current
		f.Current = &cur
	}
	return f
}

type Renderer struct {
	fonts  *fonts.Cache
	images Images
	logger *slog.Logger
}

func New(fc *fonts.Cache, images Images, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{fonts: fc, images: images, logger: logger}
}

// Render draws f into a fresh image.
func (r *Renderer) Render(f Frame) image.Image {
	return r.Context(f).Image()
}

// Context draws f and returns the gg context, for callers that encode it
// directly.
func (r *Renderer) Context(f Frame) *gg.Context {
	w, h := int(f.Size.Width), int(f.Size.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dc := gg.NewContext(w, h)
	dc.SetHexColor(Background)
	dc.Clear()

	if f.ShowGrid {
		drawGrid(dc, float64(w), float64(h))
	}
	for _, st := range f.Scene.Strokes {
		drawStroke(dc, st)
	}
	if f.Current != nil {
		drawStroke(dc, *f.Current)
	}
	for _, el := range f.Scene.Elements {
		r.drawElement(dc, el)
	}
	if f.ShowSelection {
		if sel, ok := f.Scene.Selected(); ok {
			r.drawSelection(dc, sel, f.HandleSize)
		}
	}
	return dc
}

func drawGrid(dc *gg.Context, w, h float64) {
	dc.Push()
	defer dc.Pop()
	setHex(dc, GridColor, GridAlpha)
	dc.SetLineWidth(GridLineWidth)
	for x := 0.0; x <= w; x += GridSize {
		dc.DrawLine(x, 0, x, h)
	}
	for y := 0.0; y <= h; y += GridSize {
		dc.DrawLine(0, y, w, y)
	}
	dc.Stroke()
}

// drawStroke paints a polyline. Eraser strokes are painted in the
// background colour at twice the width.
func drawStroke(dc *gg.Context, st state.Stroke) {
	if len(st.Points) == 0 {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	width := st.Width
	if st.Eraser {
		dc.SetHexColor(Background)
		width *= state.EraserWidthFactor
	} else {
		dc.SetHexColor(st.Color)
	}
	dc.SetLineWidth(width)

	dc.MoveTo(st.Points[0].X, st.Points[0].Y)
	if len(st.Points) == 1 {
		// a single point still shows while drawing
		dc.LineTo(st.Points[0].X, st.Points[0].Y)
	}
	for _, p := range st.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func (r *Renderer) drawElement(dc *gg.Context, el state.Element) {
	switch el.Kind {
	case state.KindText:
		face, err := r.fonts.Face(el.Text.FontFamily, el.Text.FontSize)
		if err != nil {
			r.logger.Warn("text face unavailable", "element", el.ID, "error", err)
			return
		}
		dc.Push()
		dc.SetFontFace(face)
		dc.SetHexColor(el.Text.Color)
		dc.DrawString(el.Text.Text, el.X, el.Y)
		dc.Pop()
	case state.KindImage:
		if r.images == nil {
			return
		}
		img, ok := r.images.Image(el.Image.Handle)
		if !ok {
			return
		}
		drawImage(dc, img, el.X, el.Y, el.Image.Width, el.Image.Height)
	}
}

// drawImage scales img into the box at (x, y) sized w by h.
func drawImage(dc *gg.Context, img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}

func (r *Renderer) drawSelection(dc *gg.Context, el state.Element, handleSize float64) {
	if handleSize <= 0 {
		handleSize = state.DefaultHandleSize
	}
	box := state.ElementBounds(r.fonts, el)

	dc.Push()
	defer dc.Pop()
	dc.SetHexColor(SelectionColor)
	dc.SetLineWidth(1)
	dc.SetDash(4, 2)
	dc.DrawRectangle(box.Left, box.Top, box.Width(), box.Height())
	dc.Stroke()
	dc.SetDash()

	half := handleSize / 2
	for _, p := range state.ResizeHandles(box).Points() {
		dc.DrawRectangle(p.X-half, p.Y-half, handleSize, handleSize)
		dc.SetHexColor(Background)
		dc.FillPreserve()
		dc.SetHexColor(SelectionColor)
		dc.Stroke()
	}
}

func setHex(dc *gg.Context, hex string, alpha float64) {
	c := ParseHex(hex)
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
