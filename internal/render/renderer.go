// Package render rasterises one board into a frame with gg.
//
// Strokes are drawn onto a transparent stroke layer that sits above the board
// background. Pen strokes paint the layer; eraser strokes remove whatever the
// layer holds beneath them, so erasing never reveals anything but the board.
package render

import (
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

const (
	backdropColor = "#d6d6d6"
	boardColor    = "#ffffff"
	gridColor     = "#0000001a"
	eraserMarker  = "#ffffff"
)

// Profile selects the per-client extras drawn around the strokes.
type Profile struct {
	Grid   bool // logical grid under the strokes
	Dots   bool // single-point strokes drawn as dots
	Border string
}

var (
	DisplayProfile = Profile{Border: "#e0e0e0"}
	TabletProfile  = Profile{Grid: true, Dots: true, Border: "#999999"}
)

// Marker is the pointer preview, in screen pixels.
type Marker struct {
	Visible bool
	X, Y    float64
	Radius  float64
	Color   string
	Eraser  bool
}

// Scene is everything one frame depends on.
type Scene struct {
	Board     *state.Board
	Transform view.Linear
	Viewport  view.Viewport
	Zoom      float64 // picks the grid step
	Marker    Marker
}

// GridStep is the grid spacing in logical units at a camera zoom.
func GridStep(zoom float64) float64 {
	switch {
	case zoom < 0.5:
		return 200
	case zoom < 1:
		return 100
	default:
		return 50
	}
}

// Renderer owns the raster buffers for one client. Not safe for concurrent use.
type Renderer struct {
	profile Profile
	log     *slog.Logger

	width, height int
	frame         *gg.Context
	layer         *gg.Context
	mask          *gg.Context
	framePx       *gg.Pixmap
	layerPx       *gg.Pixmap
	maskPx        *gg.Pixmap
}

func New(p Profile, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{profile: p, log: logger.With("component", "render")}
}

// Render draws the scene and returns a copy of the frame.
func (r *Renderer) Render(sc Scene) *image.RGBA {
	r.draw(sc)
	return r.framePx.ToImage()
}

// EncodePNG draws the scene and writes the frame as PNG.
func (r *Renderer) EncodePNG(w io.Writer, sc Scene) error {
	r.draw(sc)
	return r.frame.EncodePNG(w)
}

func (r *Renderer) draw(sc Scene) {
	r.resize(pixels(sc.Viewport.W), pixels(sc.Viewport.H))
	t := sc.Transform
	content := contentBox(t, r.width, r.height)

	r.drawBackground(t, content)
	if r.profile.Grid {
		r.drawGrid(t, sc.Zoom)
	}

	r.layerPx.Clear(gg.Transparent)
	if sc.Board != nil {
		visible := r.visible(t)
		for _, s := range sc.Board.Strokes() {
			r.drawStroke(s, t, visible)
		}
		if cur := sc.Board.Current(); cur != nil {
			r.drawStroke(cur, t, visible)
		}
	}
	compositeOver(r.framePx.Data(), r.layerPx.Data(), r.width, content)

	r.drawBorder(t)
	if sc.Marker.Visible {
		r.drawMarker(sc.Marker)
	}
}

func pixels(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	return int(math.Ceil(v))
}

func (r *Renderer) resize(w, h int) {
	if r.frame != nil && w == r.width && h == r.height {
		return
	}
	for _, dc := range []*gg.Context{r.frame, r.layer, r.mask} {
		if dc != nil {
			dc.Close()
		}
	}
	r.width, r.height = w, h
	r.framePx, r.layerPx, r.maskPx = gg.NewPixmap(w, h), gg.NewPixmap(w, h), gg.NewPixmap(w, h)
	r.frame = gg.NewContext(w, h, gg.WithPixmap(r.framePx))
	r.layer = gg.NewContext(w, h, gg.WithPixmap(r.layerPx))
	r.mask = gg.NewContext(w, h, gg.WithPixmap(r.maskPx))
	r.log.Debug("frame buffers resized", "width", w, "height", h)
}

// visible is the logical rectangle covered by the whole frame.
func (r *Renderer) visible(t view.Linear) state.Rect {
	x0, y0 := t.ScreenToLogical(0, 0)
	x1, y1 := t.ScreenToLogical(float64(r.width), float64(r.height))
	return state.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r *Renderer) drawBackground(t view.Linear, content box) {
	r.frame.ClearWithColor(gg.Hex(backdropColor))
	if content.empty() {
		return
	}
	left, top, w, h := t.Content()
	r.frame.SetHexColor(boardColor)
	r.frame.DrawRectangle(left, top, w, h)
	r.fill(r.frame)
}

func (r *Renderer) drawGrid(t view.Linear, zoom float64) {
	step := GridStep(zoom)
	v := r.visible(t)
	top, bottom := math.Max(0, v.Y), math.Min(state.SurfaceH, v.Y+v.H)
	left, right := math.Max(0, v.X), math.Min(state.SurfaceW, v.X+v.W)
	if top >= bottom || left >= right {
		return
	}

	dc := r.frame
	for x := math.Ceil(left/step) * step; x <= right; x += step {
		sx, sy0 := t.LogicalToScreen(x, top)
		_, sy1 := t.LogicalToScreen(x, bottom)
		dc.MoveTo(sx, sy0)
		dc.LineTo(sx, sy1)
	}
	for y := math.Ceil(top/step) * step; y <= bottom; y += step {
		sx0, sy := t.LogicalToScreen(left, y)
		sx1, _ := t.LogicalToScreen(right, y)
		dc.MoveTo(sx0, sy)
		dc.LineTo(sx1, sy)
	}
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(1)
	dc.SetLineCap(gg.LineCapButt)
	r.stroke(dc)
}

func (r *Renderer) drawStroke(s *state.Stroke, t view.Linear, visible state.Rect) {
	if len(s.Points) < 2 && !r.profile.Dots {
		return
	}
	bounds, ok := s.Bounds()
	if !ok || !bounds.Overlaps(visible) {
		return
	}

	if s.Tool != state.ToolEraser {
		r.trace(r.layer, s, t, s.Color)
		return
	}

	region := strokeBox(bounds, t, r.width, r.height)
	if region.empty() {
		return
	}
	clearBox(r.maskPx.Data(), r.width, region)
	r.trace(r.mask, s, t, "#000000")
	destinationOut(r.layerPx.Data(), r.maskPx.Data(), r.width, region)
}

func (r *Renderer) trace(dc *gg.Context, s *state.Stroke, t view.Linear, color string) {
	width := t.SizeToScreen(s.Size)
	dc.SetHexColor(color)

	p := s.Points[0]
	x, y := t.LogicalToScreen(p.X, p.Y)
	if len(s.Points) == 1 {
		dc.DrawCircle(x, y, width/2)
		r.fill(dc)
		return
	}

	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(x, y)
	for _, p := range s.Points[1:] {
		dc.LineTo(t.LogicalToScreen(p.X, p.Y))
	}
	r.stroke(dc)
}

func (r *Renderer) drawBorder(t view.Linear) {
	left, top, w, h := t.Content()
	if w <= 0 || h <= 0 || r.profile.Border == "" {
		return
	}
	r.frame.SetHexColor(r.profile.Border)
	r.frame.SetLineWidth(1)
	r.frame.SetLineJoin(gg.LineJoinMiter)
	r.frame.DrawRectangle(left+0.5, top+0.5, w-1, h-1)
	r.stroke(r.frame)
}

func (r *Renderer) drawMarker(m Marker) {
	color := m.Color
	if m.Eraser {
		color = eraserMarker
	}
	r.frame.SetHexColor(color)
	r.frame.DrawCircle(m.X, m.Y, m.Radius)
	r.fill(r.frame)
	if m.Eraser {
		r.frame.SetHexColor(r.profile.Border)
		r.frame.SetLineWidth(1)
		r.frame.DrawCircle(m.X, m.Y, m.Radius)
		r.stroke(r.frame)
	}
}

func (r *Renderer) fill(dc *gg.Context) {
	if err := dc.Fill(); err != nil {
		r.log.Debug("fill failed", "error", err)
	}
}

func (r *Renderer) stroke(dc *gg.Context) {
	if err := dc.Stroke(); err != nil {
		r.log.Debug("stroke failed", "error", err)
	}
}
