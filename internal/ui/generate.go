package ui

import (
	"fmt"

	"HandwritingBoard/internal/generator"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var alignments = []string{"left", "center", "right"}

// generatorPanel holds the request form for the handwriting service.
type generatorPanel struct {
	box      *fyne.Container
	generate *widget.Button
	busy     *widget.ProgressBarInfinite
}

func labelledSlider(format string, lo, hi, step, value float64) (*widget.Label, *widget.Slider) {
	label := widget.NewLabel(fmt.Sprintf(format, value))
	s := widget.NewSlider(lo, hi)
	s.Step = step
	s.SetValue(value)
	s.OnChanged = func(v float64) { label.SetText(fmt.Sprintf(format, v)) }
	return label, s
}

func (v *workspaceView) newGeneratorPanel() *generatorPanel {
	cfg := v.app.cfg.Generator
	p := &generatorPanel{}

	text := widget.NewMultiLineEntry()
	text.SetPlaceHolder("Type the text to write by hand")
	text.Wrapping = fyne.TextWrapWord
	text.SetMinRowsVisible(5)

	styleLabel, style := labelledSlider("Style (0-12): %.0f", generator.MinStyle, generator.MaxStyle, 1, float64(cfg.Style))
	biasLabel, bias := labelledSlider("Bias (0.1-1.0): %.2f", generator.MinBias, generator.MaxBias, 0.05, cfg.Bias)
	spacingLabel, spacing := labelledSlider("Line spacing: %.1f", generator.MinLineSpacing, generator.MaxLineSpacing, 0.1, 1)
	sizeLabel, size := labelledSlider("Font size: %.1f", generator.MinFontScale, generator.MaxFontScale, 0.1, 1)

	align := widget.NewSelect(alignments, nil)
	align.SetSelected("left")

	p.busy = widget.NewProgressBarInfinite()
	p.busy.Hide()

	p.generate = widget.NewButtonWithIcon("Generate", theme.MailComposeIcon(), func() {
		lineSpacing, fontSize := spacing.Value, size.Value
		v.ctrl.Generate(generator.Request{
			Text:        text.Text,
			Style:       int(style.Value),
			Bias:        bias.Value,
			LineSpacing: &lineSpacing,
			TextAlign:   align.Selected,
			FontSize:    &fontSize,
		})
	})
	p.generate.Importance = widget.HighImportance

	download := widget.NewButtonWithIcon("Save SVG", theme.DownloadIcon(), func() {
		_, _ = v.ctrl.SaveGenerated(v.app.cfg.Export.Dir)
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Handwriting", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		text,
		styleLabel, style,
		biasLabel, bias,
		spacingLabel, spacing,
		sizeLabel, size,
		widget.NewLabel("Alignment"), align,
		p.generate,
		p.busy,
		download,
	)
	p.box = container.NewPadded(container.NewVScroll(form))
	p.box.Hide()
	return p
}

// setBusy disables the trigger while a request is running.
func (p *generatorPanel) setBusy(on bool) {
	if on {
		p.generate.Disable()
		p.busy.Show()
		p.busy.Start()
		return
	}
	p.busy.Stop()
	p.busy.Hide()
	p.generate.Enable()
}
