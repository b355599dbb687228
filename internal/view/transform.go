// Package view maps the logical drawing surface onto physical viewports.
//
// Two profiles exist. Fit shows the whole surface letterboxed into the
// viewport and is used by display-only clients. Window shows a camera's
// sub-window of the surface and is used by input-capable clients; the window
// is letterboxed at the surface aspect ratio as well, so one logical unit has
// the same on-screen length along both axes.
package view

import (
	"math"

	"SlideBoard/internal/state"
)

// Viewport is the physical size of a render target, in pixels.
type Viewport struct {
	W, H float64
}

// Transform converts between physical and logical coordinates.
type Transform interface {
	ScreenToLogical(sx, sy float64) (x, y float64)
	LogicalToScreen(x, y float64) (sx, sy float64)
	// SizeToScreen converts a logical thickness to pixels, never below 1.
	SizeToScreen(size float64) float64
	// Content is the screen rectangle the visible part of the surface maps to.
	Content() (left, top, width, height float64)
}

// Linear is an axis-aligned uniform mapping:
//
//	screen = offset + (logical - origin) * scale
type Linear struct {
	Scale            float64
	OriginX, OriginY float64
	OffsetX, OffsetY float64
	ContentW         float64
	ContentH         float64
}

var _ Transform = Linear{}

// Fit letterboxes the whole surface into vp with zero pan.
func Fit(vp Viewport) Linear {
	return letterbox(vp, 0, 0, state.SurfaceW, state.SurfaceH)
}

// Window maps the camera's view window onto vp.
func Window(cam state.Camera, vp Viewport) Linear {
	r := cam.Bounds()
	return letterbox(vp, r.X, r.Y, r.W, r.H)
}

func letterbox(vp Viewport, originX, originY, w, h float64) Linear {
	if vp.W <= 0 || vp.H <= 0 || w <= 0 || h <= 0 {
		return Linear{Scale: 1, OriginX: originX, OriginY: originY}
	}
	scale := math.Min(vp.W/w, vp.H/h)
	cw, ch := w*scale, h*scale
	return Linear{
		Scale:    scale,
		OriginX:  originX,
		OriginY:  originY,
		OffsetX:  (vp.W - cw) / 2,
		OffsetY:  (vp.H - ch) / 2,
		ContentW: cw,
		ContentH: ch,
	}
}

func (l Linear) ScreenToLogical(sx, sy float64) (float64, float64) {
	return l.OriginX + (sx-l.OffsetX)/l.Scale, l.OriginY + (sy-l.OffsetY)/l.Scale
}

func (l Linear) LogicalToScreen(x, y float64) (float64, float64) {
	return l.OffsetX + (x-l.OriginX)*l.Scale, l.OffsetY + (y-l.OriginY)*l.Scale
}

func (l Linear) SizeToScreen(size float64) float64 {
	return math.Max(1, size*l.Scale)
}

func (l Linear) Content() (float64, float64, float64, float64) {
	return l.OffsetX, l.OffsetY, l.ContentW, l.ContentH
}

// PanFrom moves a camera by a pixel drag measured from where the drag started.
// The delta is converted at the start camera's zoom and subtracted from the
// start centre, so dragging right reveals content to the left.
func PanFrom(start state.Camera, dx, dy float64, vp Viewport) state.Camera {
	l := Window(start, vp)
	if l.Scale <= 0 {
		return start.Clamp()
	}
	start.CenterX -= dx / l.Scale
	start.CenterY -= dy / l.Scale
	return start.Clamp()
}
