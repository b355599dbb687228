package ui

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"SlideBoard/internal/input"
	"SlideBoard/internal/session"
	"SlideBoard/internal/view"
)

// Pointer ids. Fyne does not number pointers, so the mouse and the touch
// surface each get a fixed id.
const (
	mouseID = 1
	touchID = 2
)

const wheelZoomStep = 1.1

// BoardWidget shows the frames a session renders and, on tablets, turns
// pointer events into session commands. Coordinates are sent in physical
// pixels, the unit frames are rendered in.
type BoardWidget struct {
	widget.BaseWidget

	post        func(any)
	interactive bool
	raster      *canvas.Image

	// UI goroutine only.
	scale    float32
	activeID int
	zoom     float64
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

func NewBoardWidget(post func(any), interactive bool) *BoardWidget {
	raster := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	raster.FillMode = canvas.ImageFillStretch
	raster.ScaleMode = canvas.ImageScaleFastest

	b := &BoardWidget{
		post:        post,
		interactive: interactive,
		raster:      raster,
		scale:       1,
		activeID:    mouseID,
		zoom:        1,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetFrame shows img. Safe to call from any goroutine.
func (b *BoardWidget) SetFrame(img *image.RGBA) {
	fyne.Do(func() {
		b.raster.Image = img
		b.raster.Refresh()
	})
}

// SetZoom records the session's zoom so wheel steps start from it.
func (b *BoardWidget) SetZoom(z float64) {
	if z > 0 {
		b.zoom = z
	}
}

func (b *BoardWidget) resized(size fyne.Size) {
	b.scale = 1
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil && c.Scale() > 0 {
		b.scale = c.Scale()
	}
	b.post(session.Resize{Viewport: view.Viewport{
		W: math.Round(float64(size.Width * b.scale)),
		H: math.Round(float64(size.Height * b.scale)),
	}})
}

func (b *BoardWidget) pointer(kind input.EventKind, id int, pos fyne.Position) {
	if !b.interactive {
		return
	}
	b.post(session.Pointer{Event: input.PointerEvent{
		Kind: kind,
		ID:   id,
		X:    float64(pos.X * b.scale),
		Y:    float64(pos.Y * b.scale),
	}})
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.activeID = mouseID
	b.pointer(input.PointerDown, mouseID, e.Position)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.pointer(input.PointerUp, mouseID, e.Position)
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.pointer(input.PointerMove, mouseID, e.Position)
}

func (b *BoardWidget) MouseOut() {
	b.pointer(input.PointerLeave, mouseID, fyne.Position{})
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.pointer(input.PointerMove, b.activeID, e.Position)
}

// DragEnd carries no position; the last move already placed the pointer.
func (b *BoardWidget) DragEnd() {
	b.pointer(input.PointerUp, b.activeID, fyne.Position{})
}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.activeID = touchID
	b.pointer(input.PointerDown, touchID, e.Position)
}

func (b *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	b.pointer(input.PointerUp, touchID, e.Position)
}

func (b *BoardWidget) TouchCancel(e *mobile.TouchEvent) {
	b.pointer(input.PointerCancel, touchID, e.Position)
}

// Scrolled zooms in or out one step per wheel notch.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if !b.interactive || e.Scrolled.DY == 0 {
		return
	}
	if e.Scrolled.DY > 0 {
		b.zoom *= wheelZoomStep
	} else {
		b.zoom /= wheelZoomStep
	}
	b.post(session.SetZoom{Zoom: b.zoom})
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b, objects: []fyne.CanvasObject{b.raster}}
}

type boardWidgetRenderer struct {
	board   *BoardWidget
	objects []fyne.CanvasObject
	size    fyne.Size
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.board.raster.Move(fyne.NewPos(0, 0))
	r.board.raster.Resize(size)
	if size != r.size {
		r.size = size
		r.board.resized(size)
	}
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 180)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardWidgetRenderer) Destroy()                     {}
