package ui

import (
	"context"
	"time"

	"HandwritingBoard/internal/auth"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func (a *App) showLogin() {
	a.window.SetTitle(appTitle)
	a.window.SetContent(a.loginScreen())
}

func (a *App) loginScreen() fyne.CanvasObject {
	email := widget.NewEntry()
	email.SetPlaceHolder("you@example.com")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	message := widget.NewLabel("")
	message.Wrapping = fyne.TextWrapWord
	message.Importance = widget.DangerImportance

	var buttons []*widget.Button
	setEnabled := func(on bool) {
		for _, b := range buttons {
			if on {
				b.Enable()
			} else {
				b.Disable()
			}
		}
	}

	// run performs one auth call off the UI thread. Success needs no
	// handling here: the auth observer swaps the screen.
	run := func(op string, fn func(ctx context.Context) (*auth.User, error)) {
		message.SetText("")
		setEnabled(false)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_, err := fn(ctx)
			fyne.Do(func() {
				setEnabled(true)
				if err != nil {
					a.logger.Info("auth failed", "op", op, "error", err)
					message.SetText(auth.Message(err))
				}
			})
		}()
	}

	signIn := widget.NewButton("Sign In", func() {
		run("sign-in", func(ctx context.Context) (*auth.User, error) {
			return a.auth.SignIn(ctx, email.Text, password.Text)
		})
	})
	signIn.Importance = widget.HighImportance
	signUp := widget.NewButton("Create Account", func() {
		run("sign-up", func(ctx context.Context) (*auth.User, error) {
			return a.auth.SignUp(ctx, email.Text, password.Text)
		})
	})
	google := widget.NewButtonWithIcon("Sign in with Google", theme.AccountIcon(), func() {
		run("google", a.auth.SignInWithGoogle)
	})
	buttons = []*widget.Button{signIn, signUp, google}
	password.OnSubmitted = func(string) { signIn.OnTapped() }

	form := widget.NewForm(
		widget.NewFormItem("Email", email),
		widget.NewFormItem("Password", password),
	)
	card := widget.NewCard(appTitle, "Sign in to your handwriting workspace", container.NewVBox(
		form,
		signIn,
		signUp,
		widget.NewSeparator(),
		google,
		message,
	))
	return container.NewCenter(container.NewGridWrap(fyne.NewSize(400, 440), card))
}
