package state

import "math"

// Camera selects the visible window of the surface on an input-capable client.
// The window is (SurfaceW/Zoom) x (SurfaceH/Zoom), centred on (CenterX, CenterY).
type Camera struct {
	CenterX, CenterY float64
	Zoom             float64
}

// DefaultCamera shows the whole surface.
func DefaultCamera() Camera {
	return Camera{CenterX: SurfaceW / 2, CenterY: SurfaceH / 2, Zoom: 1}
}

// ViewSize returns the logical size of the camera's window.
func (c Camera) ViewSize() (w, h float64) {
	return SurfaceW / c.Zoom, SurfaceH / c.Zoom
}

// Clamp returns c with zoom in range and the centre moved so the window never
// leaves the surface. On an axis where the window is larger than the surface
// the centre snaps to the middle instead.
func (c Camera) Clamp() Camera {
	c.Zoom = clampZoom(c.Zoom)
	w, h := c.ViewSize()
	c.CenterX = clampCenter(c.CenterX, w, SurfaceW)
	c.CenterY = clampCenter(c.CenterY, h, SurfaceH)
	return c
}

// WithZoom returns c at zoom z, clamped.
func (c Camera) WithZoom(z float64) Camera {
	c.Zoom = z
	return c.Clamp()
}

// Bounds returns the window in logical coordinates.
func (c Camera) Bounds() Rect {
	w, h := c.ViewSize()
	return Rect{X: c.CenterX - w/2, Y: c.CenterY - h/2, W: w, H: h}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func clampCenter(center, view, surface float64) float64 {
	if view >= surface || math.IsNaN(center) {
		return surface / 2
	}
	return math.Max(view/2, math.Min(surface-view/2, center))
}
