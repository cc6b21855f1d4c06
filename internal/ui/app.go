// Package ui is the Fyne front end: sign-in, the project dashboard, the
// editor window and the remote pad surface.
package ui

import (
	"context"
	"log/slog"
	"time"

	"HandwritingBoard/internal/auth"
	"HandwritingBoard/internal/config"
	"HandwritingBoard/internal/fonts"
	"HandwritingBoard/internal/generator"
	inknet "HandwritingBoard/internal/net"
	"HandwritingBoard/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	appID    = "io.inkboard.app"
	appTitle = "InkBoard"
)

// Deps are the services the UI drives.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Auth      *auth.Provider
	Generator *generator.Client
	// ShareLink is shown in the editor when the pad server is running.
	ShareLink string
	Logger    *slog.Logger
}

type App struct {
	fyne      fyne.App
	window    fyne.Window
	cfg       *config.Config
	store     *store.Store
	auth      *auth.Provider
	gen       *generator.Client
	fonts     *fonts.Cache
	shareLink string
	logger    *slog.Logger

	ws          *workspaceView
	user        *auth.User
	unsubscribe func()
}

func NewApp(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fa := app.NewWithID(appID)
	w := fa.NewWindow(appTitle)
	w.Resize(fyne.NewSize(1280, 860))

	return &App{
		fyne:      fa,
		window:    w,
		cfg:       d.Config,
		store:     d.Store,
		auth:      d.Auth,
		gen:       d.Generator,
		fonts:     fonts.NewCache(),
		shareLink: d.ShareLink,
		logger:    logger.With("component", "ui"),
	}
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	first := true
	a.unsubscribe = a.auth.OnAuthStateChanged(func(u *auth.User) {
		if first {
			first = false
			a.authChanged(u)
			return
		}
		fyne.Do(func() { a.authChanged(u) })
	})
	defer a.unsubscribe()

	a.window.SetMaster()
	a.window.ShowAndRun()
}

// authChanged routes between the login screen and the dashboard. Profile
// updates while the editor is open leave it alone.
func (a *App) authChanged(u *auth.User) {
	prev := a.user
	a.user = u
	switch {
	case u == nil:
		if a.ws != nil {
			a.ws.unbindShortcuts()
			a.ws = nil
		}
		a.showLogin()
	case a.ws != nil:
		a.ws.user = u
	case prev == nil || prev.UID != u.UID || prev.DisplayName != u.DisplayName:
		a.showDashboard(u)
	}
}

// HandlePad is the pad server's message hook. It may be called from any
// goroutine.
func (a *App) HandlePad(_ string, m inknet.PadMessage) {
	fyne.Do(func() {
		if a.ws != nil {
			a.ws.handlePad(m)
		}
	})
}

// settings merges the user's saved editor defaults over the config.
func (a *App) settings(u *auth.User) store.Settings {
	s := store.Settings{
		ShowGrid:   a.cfg.Canvas.Grid,
		PenColor:   a.cfg.Editor.PenColor,
		PenWidth:   a.cfg.Editor.PenWidth,
		FontFamily: a.cfg.Editor.FontFamily,
	}
	if u == nil {
		return s
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	saved, err := a.store.GetSettings(ctx, u.UID)
	if err != nil {
		a.logger.Warn("settings unavailable", "user", u.UID, "error", err)
		return s
	}
	if saved == nil {
		return s
	}
	s.ShowGrid = saved.ShowGrid
	if saved.PenColor != "" {
		s.PenColor = saved.PenColor
	}
	if saved.PenWidth > 0 {
		s.PenWidth = saved.PenWidth
	}
	if saved.FontFamily != "" {
		s.FontFamily = saved.FontFamily
	}
	s.CanvasPreset = saved.CanvasPreset
	return s
}
