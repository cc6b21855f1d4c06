package ui

import (
	"context"
	"image/color"
	"log/slog"
	"sync"
	"time"

	inknet "HandwritingBoard/internal/net"
	"HandwritingBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	padOutbox    = 256
	padTrailSize = 512
	dialTimeout  = 10 * time.Second
)

// RunPad turns this device into a drawing pad for the host named by link.
// Input on the surface is sent to the host as normalized coordinates.
func RunPad(link string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	fa := app.NewWithID(appID + ".pad")
	w := fa.NewWindow(appTitle + " Pad")
	w.Resize(fyne.NewSize(800, 600))

	status := widget.NewLabel("Connecting to " + link)
	surface := newPadSurface(logger)
	w.SetContent(container.NewBorder(nil, status, nil, nil, surface))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		client, err := inknet.DialPad(ctx, link)
		if err != nil {
			logger.Error("pad connection failed", "link", link, "error", err)
			fyne.Do(func() { status.SetText("Connection failed: " + err.Error()) })
			return
		}
		logger.Info("pad connected", "link", link, "local", client.LocalAddr())
		surface.attach(client)
		fyne.Do(func() { status.SetText("Connected to host as " + client.LocalAddr()) })
	}()

	w.SetOnClosed(surface.detach)
	w.ShowAndRun()
}

// padSurface captures pointer input, draws a fading local trail and queues
// messages for the writer goroutine.
type padSurface struct {
	widget.BaseWidget
	logger *slog.Logger

	mu     sync.Mutex
	client *inknet.PadClient
	outbox chan inknet.PadMessage

	trail   []fyne.Position
	drawing bool
}

var _ fyne.Draggable = (*padSurface)(nil)
var _ desktop.Mouseable = (*padSurface)(nil)

func newPadSurface(logger *slog.Logger) *padSurface {
	s := &padSurface{logger: logger, outbox: make(chan inknet.PadMessage, padOutbox)}
	s.ExtendBaseWidget(s)
	return s
}

// attach starts writing queued messages to client.
func (s *padSurface) attach(client *inknet.PadClient) {
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	go func() {
		for m := range s.outbox {
			if err := client.Send(m); err != nil {
				s.logger.Warn("pad send failed", "error", err)
				return
			}
		}
	}()
}

func (s *padSurface) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
}

func (s *padSurface) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// send queues a pointer message, dropping it when the writer is behind.
func (s *padSurface) send(kind state.PointerKind, p fyne.Position) {
	if !s.connected() {
		return
	}
	size := s.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	m := inknet.PadMessage{
		Type: inknet.MsgPointer,
		Kind: string(kind),
		X:    float64(p.X / size.Width),
		Y:    float64(p.Y / size.Height),
	}
	select {
	case s.outbox <- m:
	default:
		s.logger.Debug("pad outbox full, dropping input", "kind", kind)
	}
}

func (s *padSurface) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.drawing = true
	s.trail = append(s.trail[:0], e.Position)
	s.send(state.PointerDown, e.Position)
	s.Refresh()
}

func (s *padSurface) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !s.drawing {
		return
	}
	s.drawing = false
	s.send(state.PointerUp, e.Position)
}

func (s *padSurface) Dragged(e *fyne.DragEvent) {
	if !s.drawing {
		return
	}
	if len(s.trail) >= padTrailSize {
		s.trail = s.trail[1:]
	}
	s.trail = append(s.trail, e.Position)
	s.send(state.PointerMove, e.Position)
	s.Refresh()
}

func (s *padSurface) DragEnd() {}

func (s *padSurface) CreateRenderer() fyne.WidgetRenderer {
	r := &padRenderer{surface: s}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type padRenderer struct {
	surface    *padSurface
	background *canvas.Rectangle
}

func (r *padRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.background}
	pts := r.surface.trail
	for i := 1; i < len(pts); i++ {
		segment := canvas.NewLine(color.NRGBA{A: 160})
		segment.StrokeWidth = 3
		segment.Position1 = pts[i-1]
		segment.Position2 = pts[i]
		objects = append(objects, segment)
	}
	return objects
}

func (r *padRenderer) Refresh() {
	canvas.Refresh(r.surface)
}

func (r *padRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *padRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *padRenderer) Destroy() {}
