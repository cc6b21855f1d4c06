package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HandwritingBoard/internal/auth"
	"HandwritingBoard/internal/fonts"
	"HandwritingBoard/internal/state"
	"HandwritingBoard/internal/store"
	"HandwritingBoard/internal/workspace"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const storeTimeout = 5 * time.Second

// dashboard lists the signed-in user's projects.
type dashboard struct {
	app      *App
	user     *auth.User
	all      []store.Project
	shown    []store.Project
	query    string
	selected int
	list     *widget.List
	empty    *widget.Label
}

func (a *App) showDashboard(u *auth.User) {
	d := &dashboard{app: a, user: u, selected: -1}
	a.window.SetTitle(appTitle)
	a.window.SetContent(d.build())
	d.reload()
}

func (d *dashboard) build() fyne.CanvasObject {
	a := d.app
	welcome := widget.NewLabelWithStyle(
		fmt.Sprintf("Welcome, %s", auth.DisplayName(d.user.DisplayName, d.user.Email)),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	header := container.NewHBox(
		welcome,
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Profile", theme.AccountIcon(), d.editProfile),
		widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), d.editSettings),
		widget.NewButtonWithIcon("Log out", theme.LogoutIcon(), func() {
			if err := a.auth.LogOut(context.Background()); err != nil {
				dialog.ShowError(errors.New(auth.Message(err)), a.window)
			}
		}),
	)

	search := widget.NewEntry()
	search.SetPlaceHolder("Search projects")
	search.OnChanged = func(q string) {
		d.query = q
		d.filter()
	}

	d.list = widget.NewList(
		func() int { return len(d.shown) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("updated"), widget.NewLabel("name"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			p := d.shown[i]
			row := o.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(p.Name)
			row.Objects[2].(*widget.Label).SetText("Updated " + p.UpdatedAt.Local().Format("2 Jan 2006 15:04"))
		},
	)
	d.list.OnSelected = func(i widget.ListItemID) { d.selected = i }
	d.list.OnUnselected = func(widget.ListItemID) { d.selected = -1 }

	d.empty = widget.NewLabel("No projects yet. Create one to start drawing.")
	d.empty.Hide()

	newProject := widget.NewButtonWithIcon("New Project", theme.ContentAddIcon(), d.create)
	newProject.Importance = widget.HighImportance
	actions := container.NewHBox(
		newProject,
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() {
			if p, ok := d.current(); ok {
				a.openWorkspace(d.user, &p)
			}
		}),
		widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), d.rename),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), d.remove),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), d.reload),
	)

	top := container.NewVBox(header, widget.NewSeparator(), search, actions)
	return container.NewPadded(container.NewBorder(top, d.empty, nil, nil, d.list))
}

func (d *dashboard) current() (store.Project, bool) {
	if d.selected < 0 || d.selected >= len(d.shown) {
		return store.Project{}, false
	}
	return d.shown[d.selected], true
}

// reload fetches the project list off the UI thread.
func (d *dashboard) reload() {
	st, uid, logger := d.app.store, d.user.UID, d.app.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		projects, err := st.GetUserProjects(ctx, uid)
		fyne.Do(func() {
			if err != nil {
				logger.Error("project list failed", "user", uid, "error", err)
				dialog.ShowError(err, d.app.window)
				return
			}
			d.all = projects
			d.filter()
		})
	}()
}

func (d *dashboard) filter() {
	q := strings.ToLower(strings.TrimSpace(d.query))
	d.shown = d.shown[:0]
	for _, p := range d.all {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			d.shown = append(d.shown, p)
		}
	}
	d.selected = -1
	d.list.UnselectAll()
	d.list.Refresh()
	if len(d.all) == 0 {
		d.empty.Show()
	} else {
		d.empty.Hide()
	}
}

// create asks for a name and canvas size, stores an empty project and opens it.
func (d *dashboard) create() {
	a := d.app
	name := widget.NewEntry()
	name.SetPlaceHolder("Untitled")
	presets := make([]string, 0, len(state.CanvasPresets))
	for _, p := range state.CanvasPresets {
		presets = append(presets, p.Name)
	}
	preset := widget.NewSelect(presets, nil)
	preset.SetSelected(presets[0])

	dialog.ShowForm("New project", "Create", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Canvas", preset),
	}, func(ok bool) {
		if !ok {
			return
		}
		title := strings.TrimSpace(name.Text)
		if title == "" {
			title = "Untitled"
		}
		size, _ := state.PresetSize(preset.Selected)
		doc := workspace.Document{Version: workspace.DocumentVersion, Name: title, Canvas: size, Grid: a.cfg.Canvas.Grid}
		data, err := workspace.EncodeDocument(doc)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		id, err := a.store.CreateProject(ctx, d.user.UID, store.ProjectInput{Name: title, Data: data})
		if err != nil {
			a.logger.Error("project create failed", "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("project created", "project", id, "name", title)
		a.openWorkspace(d.user, &store.Project{ID: id, UserID: d.user.UID, Name: title, Data: data})
	}, a.window)
}

func (d *dashboard) rename() {
	p, ok := d.current()
	if !ok {
		return
	}
	a := d.app
	name := widget.NewEntry()
	name.SetText(p.Name)
	dialog.ShowForm("Rename project", "Rename", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", name),
	}, func(ok bool) {
		title := strings.TrimSpace(name.Text)
		if !ok || title == "" || title == p.Name {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := a.store.UpdateProject(ctx, p.ID, store.ProjectPatch{Name: &title}); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		d.reload()
	}, a.window)
}

func (d *dashboard) remove() {
	p, ok := d.current()
	if !ok {
		return
	}
	a := d.app
	dialog.ShowConfirm("Delete project", fmt.Sprintf("Delete %q? This cannot be undone.", p.Name), func(ok bool) {
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := a.store.DeleteProject(ctx, p.ID); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("project deleted", "project", p.ID)
		d.reload()
	}, a.window)
}

func (d *dashboard) editProfile() {
	a := d.app
	name := widget.NewEntry()
	name.SetText(d.user.DisplayName)
	dialog.ShowForm("Profile", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Email", widget.NewLabel(d.user.Email)),
		widget.NewFormItem("Display name", name),
	}, func(ok bool) {
		if !ok {
			return
		}
		if err := a.auth.UpdateProfile(context.Background(), name.Text); err != nil {
			dialog.ShowError(errors.New(auth.Message(err)), a.window)
		}
	}, a.window)
}

// editSettings edits the defaults a new editor session starts with.
func (d *dashboard) editSettings() {
	a := d.app
	current := a.settings(d.user)

	grid := widget.NewCheck("Show grid", nil)
	grid.SetChecked(current.ShowGrid)
	color := widget.NewEntry()
	color.SetText(current.PenColor)
	width := widget.NewSlider(state.MinPenWidth, state.MaxPenWidth)
	width.Step = 1
	width.SetValue(current.PenWidth)
	family := widget.NewSelect(fonts.Families, nil)
	family.SetSelected(fonts.Resolve(current.FontFamily))
	presets := []string{""}
	for _, p := range state.CanvasPresets {
		presets = append(presets, strings.ToLower(p.Name))
	}
	preset := widget.NewSelect(presets, nil)
	preset.SetSelected(current.CanvasPreset)

	dialog.ShowForm("Editor settings", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Grid", grid),
		widget.NewFormItem("Pen colour", color),
		widget.NewFormItem("Pen width", width),
		widget.NewFormItem("Font", family),
		widget.NewFormItem("Canvas", preset),
	}, func(ok bool) {
		if !ok {
			return
		}
		s := store.Settings{
			ShowGrid:     grid.Checked,
			PenColor:     strings.TrimSpace(color.Text),
			PenWidth:     width.Value,
			FontFamily:   family.Selected,
			CanvasPreset: preset.Selected,
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := a.store.SaveSettings(ctx, d.user.UID, s); err != nil {
			a.logger.Error("settings save failed", "error", err)
			dialog.ShowError(err, a.window)
		}
	}, a.window)
}
