package state

import "strings"

type PointerKind string

const (
	PointerDown      PointerKind = "down"
	PointerMove      PointerKind = "move"
	PointerUp        PointerKind = "up"
	PointerLeave     PointerKind = "leave"
	PointerDoubleTap PointerKind = "doubleTap"
)

// PointerInput is one pointer event in logical coordinates. Mouse, touch and
// remote pad adapters all produce it.
type PointerInput struct {
	Kind PointerKind `json:"kind"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

func (in PointerInput) Point() Point { return Point{X: in.X, Y: in.Y} }

// Effects reports what a transition did so the caller can redraw, open or
// close the text editor, and so on.
type Effects struct {
	Render      bool
	Committed   bool
	OpenEditor  bool
	CloseEditor bool
}

func (e Effects) merge(o Effects) Effects {
	return Effects{
		Render:      e.Render || o.Render,
		Committed:   e.Committed || o.Committed,
		OpenEditor:  e.OpenEditor || o.OpenEditor,
		CloseEditor: e.CloseEditor || o.CloseEditor,
	}
}

// Workspace is the complete editor state. Transitions take a Workspace by
// value and return the next one.
type Workspace struct {
	Scene    Scene
	History  History
	Tool     Tool
	Mode     Mode
	Pen      Pen
	Text     TextStyle
	ShowGrid bool
	Hit      HitOptions
	Revision Revision

	// Current is the stroke being drawn while Mode is ModeDrawing.
	Current Stroke
	// ActiveID is the element being dragged, resized or edited.
	ActiveID     string
	ActiveHandle Handle
	Last         Point
	// Start is the active element's geometry when the drag or resize began.
	Start Geometry
}

func NewWorkspace() Workspace {
	return Workspace{
		History:  NewHistory(),
		Tool:     ToolPen,
		Mode:     ModeIdle,
		Pen:      Pen{Color: DefaultPenColor, Width: DefaultPenWidth},
		Text:     TextStyle{FontSize: DefaultFontSize, FontFamily: DefaultFontFamily, Color: DefaultPenColor},
		ShowGrid: true,
		Hit:      HitOptions{Tolerance: DefaultTolerance, HandleSize: DefaultHandleSize},
	}
}

func (ws Workspace) hitOptions() HitOptions {
	opts := ws.Hit
	opts.SelectTool = ws.Tool == ToolSelect
	return opts
}

func (ws Workspace) commit() Workspace {
	ws.History = ws.History.Commit(ws.Scene)
	return ws
}

// Invalidate bumps the revision for changes made outside a transition, such
// as a grid toggle or an image finishing its decode.
func (ws Workspace) Invalidate() Workspace {
	ws.Revision = nextRevision()
	return ws
}

func (ws Workspace) touched(eff Effects) (Workspace, Effects) {
	if eff.Render || eff.Committed {
		ws.Revision = nextRevision()
	}
	return ws, eff
}

// Step feeds one pointer event through the state machine.
func Step(ws Workspace, in PointerInput, m Measurer) (Workspace, Effects) {
	var eff Effects
	p := in.Point()

	switch in.Kind {
	case PointerDown:
		if ws.Mode == ModeTextEditing {
			ws, eff = CancelText(ws)
		}
		var e Effects
		ws, e = pointerDown(ws, p, m)
		eff = eff.merge(e)
	case PointerMove:
		ws, eff = pointerMove(ws, p)
	case PointerUp, PointerLeave:
		ws, eff = pointerUp(ws)
	case PointerDoubleTap:
		ws, eff = doubleTap(ws, p, m)
	}
	return ws.touched(eff)
}

func pointerDown(ws Workspace, p Point, m Measurer) (Workspace, Effects) {
	switch ws.Tool {
	case ToolPen, ToolEraser:
		ws.Mode = ModeDrawing
		ws.Current = Stroke{
			Points: []Point{p},
			Color:  ws.Pen.Color,
			Width:  ws.Pen.Width,
			Eraser: ws.Tool == ToolEraser,
		}
		return ws, Effects{Render: true}

	case ToolSelect:
		id, handle := HitTest(ws.Scene, m, p, ws.hitOptions())
		if id == "" {
			_, wasSelected := ws.Scene.Selected()
			ws.Scene = ws.Scene.SetSelection("")
			ws.Mode = ModeIdle
			return ws, Effects{Render: wasSelected, CloseEditor: true}
		}
		el, _ := ws.Scene.Find(id)
		switch {
		case handle != HandleNone:
			ws.Mode = ModeResizing
			ws.ActiveID = id
			ws.ActiveHandle = handle
			ws.Last = p
			ws.Start = geometryOf(el)
			return ws, Effects{}
		case el.Selected:
			ws.Mode = ModeDragging
			ws.ActiveID = id
			ws.Last = p
			ws.Start = geometryOf(el)
			return ws, Effects{}
		default:
			ws.Scene = ws.Scene.SetSelection(id).BringToFront(id)
			ws.Mode = ModeIdle
			return ws, Effects{Render: true}
		}

	case ToolText:
		el := NewText(p, PlaceholderText, ws.Text)
		ws.Scene = ws.Scene.AddElement(el).SetSelection(el.ID)
		ws = beginEdit(ws, el.ID)
		ws = ws.commit()
		return ws, Effects{Render: true, Committed: true, OpenEditor: true}
	}
	return ws, Effects{}
}

func pointerMove(ws Workspace, p Point) (Workspace, Effects) {
	switch ws.Mode {
	case ModeDrawing:
		pts := make([]Point, len(ws.Current.Points), len(ws.Current.Points)+1)
		copy(pts, ws.Current.Points)
		ws.Current.Points = append(pts, p)
		return ws, Effects{Render: true}

	case ModeDragging:
		el, i := ws.Scene.Find(ws.ActiveID)
		if i < 0 {
			return ws, Effects{}
		}
		dx, dy := p.X-ws.Last.X, p.Y-ws.Last.Y
		ws.Last = p
		if dx == 0 && dy == 0 {
			return ws, Effects{}
		}
		ws.Scene = ws.Scene.UpdateElement(el.ID, ElementPatch{X: Ptr(el.X + dx), Y: Ptr(el.Y + dy)})
		return ws, Effects{Render: true}

	case ModeResizing:
		el, i := ws.Scene.Find(ws.ActiveID)
		if i < 0 {
			return ws, Effects{}
		}
		delta := Point{X: p.X - ws.Last.X, Y: p.Y - ws.Last.Y}
		ws.Last = p
		if delta.X == 0 && delta.Y == 0 {
			return ws, Effects{}
		}
		ws.Scene = ws.Scene.UpdateElement(el.ID, resizePatch(el, ws.ActiveHandle, delta))
		return ws, Effects{Render: true}
	}
	return ws, Effects{}
}

func resizePatch(el Element, handle Handle, delta Point) ElementPatch {
	switch el.Kind {
	case KindImage:
		g := ResolveResize(handle, delta, Geometry{
			X: el.X, Y: el.Y, Width: el.Image.Width, Height: el.Image.Height,
		}, ImageRatio(el), true)
		return ElementPatch{X: &g.X, Y: &g.Y, Width: &g.Width, Height: &g.Height}
	case KindText:
		return ElementPatch{FontSize: Ptr(ResizeText(handle, delta, el.Text.FontSize))}
	}
	return ElementPatch{}
}

func pointerUp(ws Workspace) (Workspace, Effects) {
	switch ws.Mode {
	case ModeDrawing:
		stroke := ws.Current
		ws.Current = Stroke{}
		ws.Mode = ModeIdle
		if len(stroke.Points) < 2 {
			return ws, Effects{Render: true}
		}
		ws.Scene = ws.Scene.AddStroke(stroke)
		return ws.commit(), Effects{Render: true, Committed: true}

	case ModeDragging, ModeResizing:
		el, i := ws.Scene.Find(ws.ActiveID)
		ws.Mode = ModeIdle
		ws.ActiveID = ""
		ws.ActiveHandle = HandleNone
		// A release that leaves the element where it started adds no
		// history entry.
		if i < 0 || geometryOf(el) == ws.Start {
			return ws, Effects{}
		}
		return ws.commit(), Effects{Render: true, Committed: true}
	}
	return ws, Effects{}
}

func doubleTap(ws Workspace, p Point, m Measurer) (Workspace, Effects) {
	id := topTextAt(ws.Scene, m, p, ws.hitOptions())
	if id == "" {
		return ws, Effects{}
	}
	if ws.Mode == ModeTextEditing && ws.ActiveID == id {
		return ws, Effects{}
	}
	var eff Effects
	if ws.Mode == ModeTextEditing {
		ws, eff = CancelText(ws)
	}
	ws.Mode = ModeIdle
	return beginEdit(ws, id), eff.merge(Effects{Render: true, OpenEditor: true})
}

func topTextAt(s Scene, m Measurer, p Point, opts HitOptions) string {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		el := s.Elements[i]
		if el.Kind == KindText && IsPointInElement(m, p, el, opts) {
			return el.ID
		}
	}
	return ""
}

func beginEdit(ws Workspace, id string) Workspace {
	ws.Scene = ws.Scene.SetSelection(id).BringToFront(id)
	ws.Mode = ModeTextEditing
	ws.ActiveID = id
	return ws
}

// geometryOf is the part of el a drag or resize can change. Text resizes by
// font size, which stands in for its height.
func geometryOf(el Element) Geometry {
	if el.Kind == KindImage {
		return Geometry{X: el.X, Y: el.Y, Width: el.Image.Width, Height: el.Image.Height}
	}
	return Geometry{X: el.X, Y: el.Y, Height: el.Text.FontSize}
}

// Editing returns the element whose text is open in the editor.
func (ws Workspace) Editing() (Element, bool) {
	if ws.Mode != ModeTextEditing {
		return Element{}, false
	}
	el, i := ws.Scene.Find(ws.ActiveID)
	return el, i >= 0
}

// ConfirmText applies the edited text and commits, even when the text is
// unchanged.
func ConfirmText(ws Workspace, text string) (Workspace, Effects) {
	el, ok := ws.Editing()
	ws.Mode = ModeIdle
	ws.ActiveID = ""
	if !ok {
		return ws.touched(Effects{CloseEditor: true})
	}
	ws.Scene = ws.Scene.UpdateElement(el.ID, ElementPatch{Text: &text})
	return ws.commit().touched(Effects{Render: true, Committed: true, CloseEditor: true})
}

// CancelText closes the editor without touching the scene or history.
func CancelText(ws Workspace) (Workspace, Effects) {
	if ws.Mode != ModeTextEditing {
		return ws, Effects{}
	}
	ws.Mode = ModeIdle
	ws.ActiveID = ""
	return ws.touched(Effects{Render: true, CloseEditor: true})
}

// DeleteSelected removes the selected element and commits.
func DeleteSelected(ws Workspace) (Workspace, Effects) {
	sel, ok := ws.Scene.Selected()
	if !ok {
		return ws, Effects{}
	}
	var eff Effects
	if ws.Mode == ModeTextEditing {
		ws, eff = CancelText(ws)
	}
	ws.Scene = ws.Scene.RemoveElement(sel.ID)
	ws.Mode = ModeIdle
	ws.ActiveID = ""
	return ws.commit().touched(eff.merge(Effects{Render: true, Committed: true}))
}

func Undo(ws Workspace) (Workspace, Effects) {
	h, s, ok := ws.History.Undo()
	if !ok {
		return ws, Effects{}
	}
	return restore(ws, h, s)
}

func Redo(ws Workspace) (Workspace, Effects) {
	h, s, ok := ws.History.Redo()
	if !ok {
		return ws, Effects{}
	}
	return restore(ws, h, s)
}

func restore(ws Workspace, h History, s Scene) (Workspace, Effects) {
	closeEditor := ws.Mode == ModeTextEditing
	ws.History = h
	ws.Scene = s
	ws.Mode = ModeIdle
	ws.Current = Stroke{}
	ws.ActiveID = ""
	ws.ActiveHandle = HandleNone
	return ws.touched(Effects{Render: true, CloseEditor: closeEditor})
}

// ClearCanvas empties the scene as one undoable step.
func ClearCanvas(ws Workspace) (Workspace, Effects) {
	if ws.Scene.IsEmpty() {
		return ws, Effects{}
	}
	ws, eff := CancelText(ws)
	ws.Scene = ws.Scene.Clear()
	ws.Mode = ModeIdle
	return ws.commit().touched(eff.merge(Effects{Render: true, Committed: true}))
}

// SetTool switches tools. Leaving a gesture half done would strand it, so
// any drawing, drag or edit in flight is dropped first.
func SetTool(ws Workspace, t Tool) (Workspace, Effects) {
	if ws.Tool == t {
		return ws, Effects{}
	}
	var eff Effects
	switch ws.Mode {
	case ModeTextEditing:
		ws, eff = CancelText(ws)
	case ModeDrawing, ModeDragging, ModeResizing:
		ws, eff = pointerUp(ws)
	}
	ws.Tool = t
	return ws.touched(eff.merge(Effects{Render: true}))
}

// InsertElement adds el selected and on top, as one undoable step.
func InsertElement(ws Workspace, el Element) (Workspace, Effects) {
	ws, eff := CancelText(ws)
	ws.Scene = ws.Scene.AddElement(el).SetSelection(el.ID)
	return ws.commit().touched(eff.merge(Effects{Render: true, Committed: true}))
}

// InsertText places a finished text element at p in a single commit.
func InsertText(ws Workspace, text string, p Point) (Workspace, Effects) {
	if strings.TrimSpace(text) == "" {
		return ws, Effects{}
	}
	return InsertElement(ws, NewText(p, text, ws.Text))
}

// LoadScene replaces the scene and starts a fresh history based on it.
func LoadScene(ws Workspace, s Scene) (Workspace, Effects) {
	ws, eff := CancelText(ws)
	ws.Scene = s.Clone().SetSelection("")
	ws.History = NewHistoryFrom(ws.Scene)
	ws.Mode = ModeIdle
	ws.Current = Stroke{}
	return ws.touched(eff.merge(Effects{Render: true}))
}
