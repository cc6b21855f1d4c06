package ui

import (
	"HandwritingBoard/internal/state"
	"HandwritingBoard/internal/workspace"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// textEditor is the inline panel shown while a text element is being edited.
type textEditor struct {
	ctrl  *workspace.Controller
	entry *widget.Entry
	box   *fyne.Container
}

func newTextEditor(ctrl *workspace.Controller) *textEditor {
	e := &textEditor{ctrl: ctrl, entry: widget.NewEntry()}
	e.entry.SetPlaceHolder(state.PlaceholderText)
	e.entry.OnSubmitted = ctrl.ConfirmText

	apply := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		ctrl.ConfirmText(e.entry.Text)
	})
	apply.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), ctrl.CancelText)

	e.box = container.NewBorder(nil, nil, widget.NewLabel("Text:"), container.NewHBox(apply, cancel), e.entry)
	e.box.Hide()
	return e
}

func (e *textEditor) show(open bool, el state.Element, c fyne.Canvas) {
	if !open {
		e.box.Hide()
		return
	}
	e.entry.SetText(el.Text.Text)
	e.box.Show()
	if c != nil {
		c.Focus(e.entry)
	}
}
