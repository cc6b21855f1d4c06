// Package workspace wires the editor together: it owns the state machine's
// Workspace, the image registry, the renderer and the generator client, and
// exposes the operations the UI calls. Every method runs on the UI thread;
// background work is posted back through the scheduler given to New.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"HandwritingBoard/internal/assets"
	"HandwritingBoard/internal/fonts"
	"HandwritingBoard/internal/generator"
	"HandwritingBoard/internal/render"
	"HandwritingBoard/internal/state"
)

// Generator produces an SVG document for a request.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) ([]byte, error)
}

// Status is an inline message for the user.
type Status struct {
	Message string
	IsError bool
}

const (
	msgGenerated    = "Handwriting generated successfully!"
	msgDecodeFailed = "Could not decode image"
	msgNothingSaved = "No handwriting to download"
)

// importOrigin is where imported images land when no drop point is known.
var importOrigin = state.Point{X: 50, Y: 50}

// generatedFill is the share of the canvas a generated document is fitted to.
const generatedFill = 0.8

var ErrNothingGenerated = errors.New(msgNothingSaved)

type Options struct {
	Size      state.Size
	Pen       state.Pen
	Text      state.TextStyle
	Hit       state.HitOptions
	HideGrid  bool
	Generator Generator
	Fonts     *fonts.Cache
	// Post runs fn on the UI thread. Nil runs it inline.
	Post   func(fn func())
	Logger *slog.Logger
}

type Controller struct {
	ws     state.Workspace
	size   state.Size
	zoom   float64
	touch  state.TouchAdapter
	name   string
	fonts  *fonts.Cache
	images *assets.Registry
	render *render.Renderer
	gen    Generator
	post   func(func())
	logger *slog.Logger

	generating bool
	lastSVG    []byte

	// frame is the last rendered canvas, valid while the revision and size
	// it was drawn at are current.
	frame     image.Image
	frameRev  state.Revision
	frameSize state.Size

	OnChange     func()
	OnStatus     func(Status)
	OnEditor     func(open bool, el state.Element)
	OnGenerating func(bool)
}

func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	post := opts.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	fc := opts.Fonts
	if fc == nil {
		fc = fonts.NewCache()
	}
	size := opts.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = state.Size{Width: state.DefaultCanvasWidth, Height: state.DefaultCanvasHeight}
	}

	ws := state.NewWorkspace()
	if opts.Pen.Color != "" {
		ws.Pen.Color = opts.Pen.Color
	}
	if opts.Pen.Width > 0 {
		ws.Pen.Width = clampWidth(opts.Pen.Width)
	}
	if opts.Text.FontSize > 0 {
		ws.Text.FontSize = opts.Text.FontSize
	}
	if opts.Text.FontFamily != "" {
		ws.Text.FontFamily = opts.Text.FontFamily
	}
	if opts.Text.Color != "" {
		ws.Text.Color = opts.Text.Color
	}
	if opts.Hit.Tolerance > 0 {
		ws.Hit.Tolerance = opts.Hit.Tolerance
	}
	if opts.Hit.HandleSize > 0 {
		ws.Hit.HandleSize = opts.Hit.HandleSize
	}
	ws.ShowGrid = !opts.HideGrid

	images := assets.NewRegistry(post, logger)
	c := &Controller{
		ws:     ws,
		size:   size,
		zoom:   1,
		fonts:  fc,
		images: images,
		render: render.New(fc, images, logger),
		gen:    opts.Generator,
		post:   post,
		logger: logger,
	}
	images.OnDecoded(c.decoded)
	return c
}

func (c *Controller) decoded(handle string, err error) {
	if err != nil {
		c.status(Status{Message: msgDecodeFailed, IsError: true})
	}
	c.ws = c.ws.Invalidate()
	c.changed()
}

func (c *Controller) apply(ws state.Workspace, eff state.Effects) {
	c.ws = ws
	if eff.CloseEditor && c.OnEditor != nil {
		c.OnEditor(false, state.Element{})
	}
	if eff.OpenEditor && c.OnEditor != nil {
		if el, ok := c.ws.Editing(); ok {
			c.OnEditor(true, el)
		}
	}
	if eff.Render || eff.Committed {
		c.changed()
	}
}

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *Controller) status(s Status) {
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}

// Workspace returns a snapshot of the editor state.
func (c *Controller) Workspace() state.Workspace { return c.ws }

// Images exposes the registry for export and inspection.
func (c *Controller) Images() *assets.Registry { return c.images }

// Pointer feeds a pointer event in logical coordinates.
func (c *Controller) Pointer(in state.PointerInput) {
	c.apply(state.Step(c.ws, in, c.fonts))
}

// PointerOnScreen maps a position inside a container of the given size to
// logical coordinates and feeds it.
func (c *Controller) PointerOnScreen(kind state.PointerKind, screen state.Point, container state.Size) {
	p := state.ToLogical(screen, c.ScreenBounds(container), c.size)
	c.Pointer(state.PointerInput{Kind: kind, X: p.X, Y: p.Y})
}

// ScreenBounds is where the canvas sits inside a container at the current zoom.
func (c *Controller) ScreenBounds(container state.Size) state.Bounds {
	return state.FitBounds(container, c.size, c.zoom)
}

// Touch feeds a touch event. Two-finger gestures only change the zoom.
func (c *Controller) Touch(ev state.TouchEvent) {
	res := c.touch.Feed(ev, c.zoom)
	if res.Pointer != nil {
		c.Pointer(*res.Pointer)
	}
	if res.Zoomed {
		c.SetZoom(res.Zoom)
	}
}

func (c *Controller) Zoom() float64 { return c.zoom }

func (c *Controller) SetZoom(z float64) {
	z = state.ClampZoom(z)
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.changed()
}

func (c *Controller) ZoomIn()    { c.SetZoom(state.ZoomIn(c.zoom)) }
func (c *Controller) ZoomOut()   { c.SetZoom(state.ZoomOut(c.zoom)) }
func (c *Controller) ResetZoom() { c.SetZoom(1) }

func (c *Controller) CanvasSize() state.Size { return c.size }

// SetCanvasSize changes the logical canvas. Existing content keeps its
// coordinates.
func (c *Controller) SetCanvasSize(size state.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid canvas size %vx%v", size.Width, size.Height)
	}
	c.size = size
	c.ws = c.ws.Invalidate()
	c.changed()
	return nil
}

// SetCanvasPreset applies a named preset such as "A4".
func (c *Controller) SetCanvasPreset(name string) error {
	size, ok := state.PresetSize(name)
	if !ok {
		return fmt.Errorf("unknown canvas preset %q", name)
	}
	return c.SetCanvasSize(size)
}

func (c *Controller) SetTool(t state.Tool) {
	c.apply(state.SetTool(c.ws, t))
}

func (c *Controller) SetPenColor(hex string) {
	c.ws.Pen.Color = hex
	c.ws.Text.Color = hex
	c.changed()
}

// SetPenWidth sets the stroke width, clamped to the slider range.
func (c *Controller) SetPenWidth(w float64) {
	c.ws.Pen.Width = clampWidth(w)
	c.changed()
}

func clampWidth(w float64) float64 {
	switch {
	case w < state.MinPenWidth:
		return state.MinPenWidth
	case w > state.MaxPenWidth:
		return state.MaxPenWidth
	}
	return w
}

func (c *Controller) SetTextStyle(ts state.TextStyle) {
	if ts.FontSize > 0 {
		c.ws.Text.FontSize = ts.FontSize
	}
	if ts.FontFamily != "" {
		c.ws.Text.FontFamily = ts.FontFamily
	}
	if ts.Color != "" {
		c.ws.Text.Color = ts.Color
	}
}

func (c *Controller) ToggleGrid() { c.SetGrid(!c.ws.ShowGrid) }

func (c *Controller) SetGrid(on bool) {
	if c.ws.ShowGrid == on {
		return
	}
	c.ws.ShowGrid = on
	c.ws = c.ws.Invalidate()
	c.changed()
}

func (c *Controller) Undo() { c.apply(state.Undo(c.ws)) }
func (c *Controller) Redo() { c.apply(state.Redo(c.ws)) }

func (c *Controller) CanUndo() bool { return c.ws.History.CanUndo() }
func (c *Controller) CanRedo() bool { return c.ws.History.CanRedo() }

func (c *Controller) DeleteSelected() { c.apply(state.DeleteSelected(c.ws)) }
func (c *Controller) Clear()          { c.apply(state.ClearCanvas(c.ws)) }

func (c *Controller) ConfirmText(text string) { c.apply(state.ConfirmText(c.ws, text)) }
func (c *Controller) CancelText()             { c.apply(state.CancelText(c.ws)) }

// InsertText places pasted text at the canvas centre.
func (c *Controller) InsertText(text string) {
	centre := state.Point{X: c.size.Width / 2, Y: c.size.Height / 2}
	c.apply(state.InsertText(c.ws, text, centre))
}

// ImportImage registers src and places it at the given point, or at a
// default offset when at is nil. Images larger than the canvas are shrunk
// to fit. The element is usable at once; its pixels appear when decoded.
func (c *Controller) ImportImage(src []byte, at *state.Point) error {
	info, err := assets.Inspect(src)
	if err != nil {
		c.logger.Warn("image import rejected", "error", err)
		c.status(Status{Message: msgDecodeFailed, IsError: true})
		return err
	}
	p := importOrigin
	if at != nil {
		p = *at
	}
	w, h := state.FitWithin(info.Width, info.Height, c.size.Width, c.size.Height)
	handle := c.images.Add(src, info)
	el := state.NewImage(p, w, h, handle)
	el.Image.OriginalWidth = info.Width
	el.Image.OriginalHeight = info.Height
	c.apply(state.InsertElement(c.ws, el))
	return nil
}

// Revision changes whenever the rendered canvas may look different.
func (c *Controller) Revision() state.Revision { return c.ws.Revision }

// Frame renders the canvas as it should appear on screen. Zoom and other
// changes that leave the canvas pixels alone reuse the previous frame.
func (c *Controller) Frame() image.Image {
	if c.frame != nil && c.frameRev == c.ws.Revision && c.frameSize == c.size {
		return c.frame
	}
	c.frame = c.render.Render(render.FrameOf(c.ws, c.size))
	c.frameRev = c.ws.Revision
	c.frameSize = c.size
	return c.frame
}
