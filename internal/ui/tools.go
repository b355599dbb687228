package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SlideBoard/internal/input"
	"SlideBoard/internal/session"
	"SlideBoard/internal/state"
)

var palette = []string{"#000000", "#e53935", "#43a047", "#1e88e5", "#fdd835", "#8e24aa"}

var toolNames = map[string]input.Tool{
	"Pen":    input.ToolPen,
	"Eraser": input.ToolEraser,
	"Move":   input.ToolMove,
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(parseHex(s.Hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

func parseHex(hex string) color.NRGBA {
	c := color.NRGBA{A: 255}
	fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	return c
}

func toHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// toolbar is the tablet's control strip. apply keeps it in step with the
// session.
type toolbar struct {
	object     fyne.CanvasObject
	tools      *widget.RadioGroup
	swatches   []*colorSwatch
	zoom       *widget.Slider
	zoomLabel  *widget.Label
	boardLabel *widget.Label
}

func newToolbar(w fyne.Window, post func(any), onExport func()) *toolbar {
	t := &toolbar{}

	t.tools = widget.NewRadioGroup([]string{"Pen", "Eraser", "Move"}, func(name string) {
		if tool, ok := toolNames[name]; ok {
			post(session.SetTool{Tool: tool})
		}
	})
	t.tools.Horizontal = true
	t.tools.Required = true
	t.tools.SetSelected("Pen")

	// --- Color Palette ---
	onColor := func(hex string) {
		post(session.SetColor{Color: hex})
		if t.tools.Selected == "Eraser" {
			t.tools.SetSelected("Pen")
		}
	}
	colorBox := container.NewHBox()
	for _, hex := range palette {
		sw := newColorSwatch(hex, onColor)
		t.swatches = append(t.swatches, sw)
		colorBox.Add(sw)
	}
	more := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Pen colour", "", func(c color.Color) { onColor(toHex(c)) }, w)
		picker.Advanced = true
		picker.Show()
	})
	colorBox.Add(more)

	// --- Stroke Width Slider ---
	size := widget.NewSlider(1, 50)
	size.SetValue(state.DefaultSize)
	size.OnChanged = func(v float64) { post(session.SetSize{Size: v}) }
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), size)

	// --- Camera ---
	t.zoomLabel = widget.NewLabel("100%")
	t.zoom = widget.NewSlider(state.MinZoom*100, state.MaxZoom*100)
	t.zoom.Step = 10
	t.zoom.SetValue(100)
	t.zoom.OnChanged = func(v float64) {
		t.zoomLabel.SetText(fmt.Sprintf("%.0f%%", v))
		post(session.SetZoom{Zoom: v / 100})
	}
	zoomBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), t.zoom)
	reset := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() { post(session.ResetCamera{}) })

	// --- Boards ---
	t.boardLabel = widget.NewLabel(boardText(0))
	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { post(session.StepBoard{Delta: -1}) })
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { post(session.StepBoard{Delta: 1}) })
	exportBtn := widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), onExport)

	t.object = container.NewHBox(
		t.tools,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizeBox,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomBox,
		t.zoomLabel,
		reset,
		layout.NewSpacer(),
		prev,
		t.boardLabel,
		next,
		exportBtn,
	)
	return t
}

// apply mirrors session state that can change without the toolbar, such as
// wheel zoom or a reset. UI goroutine only.
func (t *toolbar) apply(st session.Status) {
	t.boardLabel.SetText(boardText(st.Board))
	pct := st.Zoom * 100
	if t.zoom.Value != pct {
		t.zoom.Value = pct
		t.zoom.Refresh()
		t.zoomLabel.SetText(fmt.Sprintf("%.0f%%", pct))
	}
}

func boardText(board int) string {
	return fmt.Sprintf("%d / %d", board+1, state.NumBoards)
}
