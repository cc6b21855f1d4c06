package ui

import (
	"image/color"

	"HandwritingBoard/internal/state"
	"HandwritingBoard/internal/workspace"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Board shows the controller's canvas centred in the available space and
// feeds mouse input back to it.
type Board struct {
	widget.BaseWidget
	ctrl    *workspace.Controller
	pressed bool
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.DoubleTappable = (*Board)(nil)
var _ fyne.Focusable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)

func NewBoard(ctrl *workspace.Controller) *Board {
	b := &Board{ctrl: ctrl}
	b.ExtendBaseWidget(b)
	return b
}

func (b *Board) container() state.Size {
	s := b.Size()
	return state.Size{Width: float64(s.Width), Height: float64(s.Height)}
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

// Logical maps a position inside the board to canvas coordinates.
func (b *Board) Logical(p fyne.Position) state.Point {
	return state.ToLogical(toPoint(p), b.ctrl.ScreenBounds(b.container()), b.ctrl.CanvasSize())
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
	b.pressed = true
	b.ctrl.PointerOnScreen(state.PointerDown, toPoint(e.Position), b.container())
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.pressed = false
	b.ctrl.PointerOnScreen(state.PointerUp, toPoint(e.Position), b.container())
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		return
	}
	b.ctrl.PointerOnScreen(state.PointerMove, toPoint(e.Position), b.container())
}

func (b *Board) DragEnd() {}

func (b *Board) MouseIn(*desktop.MouseEvent)    {}
func (b *Board) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends whatever gesture is in progress.
func (b *Board) MouseOut() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.ctrl.Pointer(state.PointerInput{Kind: state.PointerLeave})
}

func (b *Board) DoubleTapped(e *fyne.PointEvent) {
	b.ctrl.PointerOnScreen(state.PointerDoubleTap, toPoint(e.Position), b.container())
}

// Scrolled zooms: wheel up zooms in.
func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY > 0 {
		b.ctrl.ZoomIn()
	} else if e.Scrolled.DY < 0 {
		b.ctrl.ZoomOut()
	}
}

func (b *Board) FocusGained() {}
func (b *Board) FocusLost()   {}
func (b *Board) TypedRune(rune) {}

func (b *Board) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyDelete, fyne.KeyBackSpace:
		b.ctrl.DeleteSelected()
	case fyne.KeyEscape:
		b.ctrl.CancelText()
	}
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{
		board:      b,
		background: canvas.NewRectangle(color.NRGBA{R: 229, G: 231, B: 235, A: 255}),
		paper:      canvas.NewImageFromImage(b.ctrl.Frame()),
		rev:        b.ctrl.Revision(),
	}
	r.paper.FillMode = canvas.ImageFillStretch
	r.paper.ScaleMode = canvas.ImageScaleSmooth
	return r
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
	paper      *canvas.Image
	rev        state.Revision
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.paper}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	bounds := r.board.ctrl.ScreenBounds(state.Size{Width: float64(size.Width), Height: float64(size.Height)})
	r.paper.Move(fyne.NewPos(float32(bounds.X), float32(bounds.Y)))
	r.paper.Resize(fyne.NewSize(float32(bounds.Width), float32(bounds.Height)))
}

// Refresh only uploads a new frame when the canvas revision moved; zooming
// just lays the old one out again.
func (r *boardRenderer) Refresh() {
	ctrl := r.board.ctrl
	if rev := ctrl.Revision(); rev != r.rev {
		r.paper.Image = ctrl.Frame()
		r.rev = rev
		canvas.Refresh(r.paper)
	}
	r.Layout(r.board.Size())
	canvas.Refresh(r.background)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Destroy() {}
