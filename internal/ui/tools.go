package ui

import (
	"image/color"
	"strings"

	"HandwritingBoard/internal/render"
	"HandwritingBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// palette is the row of quick colours next to the custom picker.
var palette = []string{"#000000", "#ff0000", "#00aa00", "#0000ff", "#ffcc00", "#8b5cf6"}

var toolLabels = []struct {
	label string
	tool  state.Tool
}{
	{"Select", state.ToolSelect},
	{"Pen", state.ToolPen},
	{"Eraser", state.ToolEraser},
	{"Text", state.ToolText},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolbar builds the two rows above the board: drawing tools and styles,
// then edit, view and export actions.
func (v *workspaceView) toolbar() fyne.CanvasObject {
	ctrl := v.ctrl

	tools := make([]string, 0, len(toolLabels))
	for _, t := range toolLabels {
		tools = append(tools, t.label)
	}
	toolGroup := widget.NewRadioGroup(tools, func(label string) {
		for _, t := range toolLabels {
			if t.label == label {
				ctrl.SetTool(t.tool)
			}
		}
	})
	toolGroup.Horizontal = true
	toolGroup.Required = true
	for _, t := range toolLabels {
		if t.tool == ctrl.Workspace().Tool {
			toolGroup.SetSelected(t.label)
		}
	}

	image := widget.NewButtonWithIcon("Image", theme.FileImageIcon(), v.importImage)
	handwriting := widget.NewButtonWithIcon("Handwriting", theme.DocumentCreateIcon(), v.toggleGenerator)

	onColor := func(c color.Color) { ctrl.SetPenColor(render.Hex(c)) }
	swatches := container.NewHBox()
	for _, hex := range palette {
		swatches.Add(newColorSwatch(render.ParseHex(hex), onColor))
	}
	picker := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		d := dialog.NewColorPicker("Pen colour", "Choose a colour", onColor, v.app.window)
		d.Advanced = true
		d.Show()
	})

	width := widget.NewSlider(state.MinPenWidth, state.MaxPenWidth)
	width.Step = 1
	width.SetValue(ctrl.Workspace().Pen.Width)
	width.OnChanged = ctrl.SetPenWidth
	widthBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), width)

	presets := make([]string, 0, len(state.CanvasPresets))
	for _, p := range state.CanvasPresets {
		presets = append(presets, p.Name)
	}
	preset := widget.NewSelect(presets, func(name string) {
		if err := ctrl.SetCanvasPreset(name); err != nil {
			v.app.logger.Warn("canvas preset rejected", "preset", name, "error", err)
		}
	})
	for _, p := range state.CanvasPresets {
		if p.Size == ctrl.CanvasSize() {
			preset.SetSelected(p.Name)
		}
	}

	drawRow := container.NewHBox(
		toolGroup,
		image,
		handwriting,
		widget.NewSeparator(),
		swatches,
		picker,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		widthBox,
		layout.NewSpacer(),
		widget.NewLabel("Canvas:"),
		preset,
	)

	v.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), ctrl.Undo)
	v.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), ctrl.Redo)
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), ctrl.DeleteSelected)
	clearAll := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		dialog.ShowConfirm("Clear canvas", "Remove everything from the canvas?", func(ok bool) {
			if ok {
				ctrl.Clear()
			}
		}, v.app.window)
	})
	v.zoomLabel = widget.NewLabel("100%")
	grid := widget.NewButtonWithIcon("Grid", theme.GridIcon(), ctrl.ToggleGrid)

	export := func(name string, fn func(string) (string, error)) *widget.Button {
		return widget.NewButtonWithIcon(name, theme.DownloadIcon(), func() {
			_, _ = fn(v.app.cfg.Export.Dir)
		})
	}

	actionRow := container.NewHBox(
		widget.NewButtonWithIcon("Projects", theme.NavigateBackIcon(), v.close),
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), v.save),
		widget.NewSeparator(),
		v.undo,
		v.redo,
		remove,
		clearAll,
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), ctrl.ZoomOut),
		v.zoomLabel,
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), ctrl.ZoomIn),
		widget.NewButtonWithIcon("", theme.ZoomFitIcon(), ctrl.ResetZoom),
		grid,
		layout.NewSpacer(),
		export("PNG", ctrl.ExportPNG),
		export("SVG", ctrl.ExportSVG),
		export("PDF", ctrl.ExportPDF),
	)

	return container.NewVBox(drawRow, actionRow)
}

// presetFor returns the preset name for size, or "" for a custom size.
func presetFor(size state.Size) string {
	for _, p := range state.CanvasPresets {
		if p.Size == size {
			return strings.ToLower(p.Name)
		}
	}
	return ""
}
