package ui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"HandwritingBoard/internal/auth"
	inknet "HandwritingBoard/internal/net"
	"HandwritingBoard/internal/state"
	"HandwritingBoard/internal/store"
	"HandwritingBoard/internal/workspace"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg"}

// workspaceView is the editor screen for one project.
type workspaceView struct {
	app   *App
	user  *auth.User
	saver *saver

	ctrl      *workspace.Controller
	board     *Board
	editor    *textEditor
	generator *generatorPanel
	status    *widget.Label
	undo      *widget.Button
	redo      *widget.Button
	zoomLabel *widget.Label

	shortcuts []fyne.Shortcut
}

// openWorkspace shows the editor for p, or for a new project when p has no
// data yet.
func (a *App) openWorkspace(u *auth.User, p *store.Project) {
	settings := a.settings(u)

	var gen workspace.Generator
	if a.gen != nil {
		gen = a.gen
	}
	size := canvasSize(a.cfg.Canvas.Width, a.cfg.Canvas.Height, a.cfg.Canvas.Preset)
	if settings.CanvasPreset != "" {
		if s, ok := state.PresetSize(settings.CanvasPreset); ok {
			size = s
		}
	}
	ctrl := workspace.New(workspace.Options{
		Size:      size,
		Pen:       state.Pen{Color: settings.PenColor, Width: settings.PenWidth},
		Text:      state.TextStyle{FontSize: a.cfg.Editor.FontSize, FontFamily: settings.FontFamily, Color: settings.PenColor},
		Hit:       state.HitOptions{Tolerance: a.cfg.Editor.Tolerance, HandleSize: a.cfg.Editor.HandleSize},
		HideGrid:  !settings.ShowGrid,
		Generator: gen,
		Fonts:     a.fonts,
		Post:      fyne.Do,
		Logger:    a.logger.With("component", "workspace"),
	})

	v := &workspaceView{app: a, user: u, ctrl: ctrl}
	v.saver = &saver{store: a.store, uid: u.UID, post: fyne.Do, onDone: v.saved}
	if p != nil {
		v.saver.id = p.ID
		ctrl.SetName(p.Name)
		if len(p.Data) > 0 {
			doc, err := workspace.DecodeDocument(p.Data)
			if err == nil {
				err = ctrl.LoadDocument(doc)
			}
			if err != nil {
				a.logger.Error("project load failed", "project", p.ID, "error", err)
				dialog.ShowError(fmt.Errorf("could not open %q: %w", p.Name, err), a.window)
				return
			}
			ctrl.SetName(p.Name)
		}
	}

	v.build()
	a.ws = v
	a.logger.Info("workspace opened", "project", v.saver.id, "name", ctrl.Name())
}

func canvasSize(w, h float64, preset string) state.Size {
	if s, ok := state.PresetSize(preset); ok {
		return s
	}
	if w > 0 && h > 0 {
		return state.Size{Width: w, Height: h}
	}
	return state.Size{Width: state.DefaultCanvasWidth, Height: state.DefaultCanvasHeight}
}

func (v *workspaceView) build() {
	a := v.app
	v.board = NewBoard(v.ctrl)
	v.editor = newTextEditor(v.ctrl)
	v.generator = v.newGeneratorPanel()
	v.status = widget.NewLabel("Ready")
	v.status.Truncation = fyne.TextTruncateEllipsis

	footer := container.NewVBox(v.editor.box, container.NewBorder(nil, nil, nil, v.shareBox(), v.status))
	content := container.NewBorder(v.toolbar(), footer, nil, v.generator.box, v.board)

	// the toolbar widgets must exist before the first change arrives
	v.ctrl.OnChange = v.changed
	v.ctrl.OnStatus = v.setStatus
	v.ctrl.OnEditor = func(open bool, el state.Element) {
		v.editor.show(open, el, a.window.Canvas())
	}
	v.ctrl.OnGenerating = v.generator.setBusy
	a.window.SetContent(content)
	a.window.SetTitle(fmt.Sprintf("%s - %s", v.ctrl.Name(), appTitle))

	v.bindShortcuts()
	a.window.SetOnDropped(v.dropped)
	v.changed()
	a.window.Canvas().Focus(v.board)
}

func (v *workspaceView) shareBox() fyne.CanvasObject {
	link := v.app.shareLink
	if link == "" {
		return container.NewHBox()
	}
	copyLink := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		v.app.window.Clipboard().SetContent(link)
		v.setStatus(workspace.Status{Message: "Pad link copied"})
	})
	return container.NewHBox(widget.NewLabel("Pad: "+link), copyLink)
}

func (v *workspaceView) changed() {
	v.board.Refresh()
	if v.ctrl.CanUndo() {
		v.undo.Enable()
	} else {
		v.undo.Disable()
	}
	if v.ctrl.CanRedo() {
		v.redo.Enable()
	} else {
		v.redo.Disable()
	}
	v.zoomLabel.SetText(fmt.Sprintf("%d%%", int(math.Round(v.ctrl.Zoom()*100))))
}

func (v *workspaceView) setStatus(s workspace.Status) {
	v.status.SetText(s.Message)
	if s.IsError {
		v.status.Importance = widget.DangerImportance
	} else {
		v.status.Importance = widget.MediumImportance
	}
	v.status.Refresh()
}

func (v *workspaceView) toggleGenerator() {
	if v.generator.box.Visible() {
		v.generator.box.Hide()
	} else {
		v.generator.box.Show()
	}
}

func (v *workspaceView) bindShortcuts() {
	c := v.app.window.Canvas()
	bind := func(s fyne.Shortcut, fn func(fyne.Shortcut)) {
		c.AddShortcut(s, fn)
		v.shortcuts = append(v.shortcuts, s)
	}
	bind(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { v.ctrl.Undo() })
	bind(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { v.ctrl.Redo() })
	bind(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { v.ctrl.Redo() })
	bind(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { v.save() })
	bind(&fyne.ShortcutPaste{}, func(s fyne.Shortcut) {
		paste, ok := s.(*fyne.ShortcutPaste)
		if !ok || paste.Clipboard == nil {
			return
		}
		v.ctrl.InsertText(paste.Clipboard.Content())
	})
}

func (v *workspaceView) unbindShortcuts() {
	c := v.app.window.Canvas()
	for _, s := range v.shortcuts {
		c.RemoveShortcut(s)
	}
	v.shortcuts = nil
}

// importImage asks for a file and places it at the default position.
func (v *workspaceView) importImage() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.app.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		v.importFrom(r, nil)
	}, v.app.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	d.Show()
}

// dropped imports image files dropped onto the window at the drop point.
func (v *workspaceView) dropped(pos fyne.Position, uris []fyne.URI) {
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(v.board)
	at := v.board.Logical(pos.Subtract(abs))
	for _, u := range uris {
		if !hasImageExtension(u.Extension()) {
			continue
		}
		r, err := storage.Reader(u)
		if err != nil {
			v.app.logger.Warn("dropped file unreadable", "uri", u.String(), "error", err)
			continue
		}
		v.importFrom(r, &at)
		r.Close()
	}
}

func hasImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range imageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (v *workspaceView) importFrom(r io.Reader, at *state.Point) {
	data, err := io.ReadAll(r)
	if err != nil {
		v.setStatus(workspace.Status{Message: "Error: " + err.Error(), IsError: true})
		return
	}
	_ = v.ctrl.ImportImage(data, at)
}

// save upserts the current document into the project store.
func (v *workspaceView) save() {
	data, err := workspace.EncodeDocument(v.ctrl.Document())
	if err != nil {
		v.setStatus(workspace.Status{Message: "Error: " + err.Error(), IsError: true})
		return
	}
	name := v.ctrl.Name()
	if name == "" {
		name = "Untitled"
	}
	v.saver.save(name, data)
}

func (v *workspaceView) saved(id, name string, err error) {
	logger := v.app.logger
	if err != nil {
		logger.Error("project save failed", "project", id, "error", err)
		v.setStatus(workspace.Status{Message: "Error: " + err.Error(), IsError: true})
		return
	}
	logger.Info("project saved", "project", id)
	v.setStatus(workspace.Status{Message: "Saved " + name})
}

// close leaves the editor for the dashboard, remembering the pen settings.
func (v *workspaceView) close() {
	a := v.app
	ws := v.ctrl.Workspace()
	settings := store.Settings{
		ShowGrid:     ws.ShowGrid,
		PenColor:     ws.Pen.Color,
		PenWidth:     ws.Pen.Width,
		FontFamily:   ws.Text.FontFamily,
		CanvasPreset: presetFor(v.ctrl.CanvasSize()),
	}
	if err := a.store.SaveSettings(context.Background(), v.user.UID, settings); err != nil {
		a.logger.Warn("settings not saved", "error", err)
	}
	v.unbindShortcuts()
	a.window.SetOnDropped(nil)
	a.ws = nil
	a.showDashboard(v.user)
}

// handlePad feeds one remote pad event into the editor.
func (v *workspaceView) handlePad(m inknet.PadMessage) {
	size := v.ctrl.CanvasSize()
	switch m.Type {
	case inknet.MsgPointer:
		v.ctrl.Pointer(m.Pointer(size))
	case inknet.MsgTouch:
		v.ctrl.Touch(m.Touch(size))
	}
}
