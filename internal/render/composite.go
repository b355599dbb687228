package render

import (
	"math"

	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

// gg pixmaps hold premultiplied RGBA, 4 bytes per pixel.

// box is a half-open pixel rectangle [x0,x1) x [y0,y1).
type box struct {
	x0, y0, x1, y1 int
}

func (b box) empty() bool { return b.x0 >= b.x1 || b.y0 >= b.y1 }

func clip(x0, y0, x1, y1 float64, w, h int) box {
	b := box{
		x0: int(math.Max(0, math.Floor(x0))),
		y0: int(math.Max(0, math.Floor(y0))),
		x1: int(math.Min(float64(w), math.Ceil(x1))),
		y1: int(math.Min(float64(h), math.Ceil(y1))),
	}
	if b.empty() {
		return box{}
	}
	return b
}

// contentBox is the frame area the visible surface occupies.
func contentBox(t view.Linear, w, h int) box {
	left, top, cw, ch := t.Content()
	if cw <= 0 || ch <= 0 {
		return box{}
	}
	return clip(left, top, left+cw, top+ch, w, h)
}

// strokeBox is the pixel area a stroke can touch, with room for the 1px
// minimum width and anti-aliasing.
func strokeBox(r state.Rect, t view.Linear, w, h int) box {
	x0, y0 := t.LogicalToScreen(r.X, r.Y)
	x1, y1 := t.LogicalToScreen(r.X+r.W, r.Y+r.H)
	return clip(x0-2, y0-2, x1+2, y1+2, w, h)
}

func clearBox(px []uint8, stride int, b box) {
	for y := b.y0; y < b.y1; y++ {
		row := px[(y*stride+b.x0)*4 : (y*stride+b.x1)*4]
		clear(row)
	}
}

// destinationOut removes dst coverage wherever mask is opaque. Every channel
// is scaled by (1 - maskA), which keeps premultiplied colour within alpha.
func destinationOut(dst, mask []uint8, stride int, b box) {
	for y := b.y0; y < b.y1; y++ {
		i := (y*stride + b.x0) * 4
		for x := b.x0; x < b.x1; x, i = x+1, i+4 {
			ma := uint32(mask[i+3])
			if ma == 0 {
				continue
			}
			keep := 255 - ma
			for c := 0; c < 4; c++ {
				dst[i+c] = div255(uint32(dst[i+c]) * keep)
			}
		}
	}
}

// compositeOver blends premultiplied src over dst inside b:
// dst = src + dst*(1 - srcA).
func compositeOver(dst, src []uint8, stride int, b box) {
	for y := b.y0; y < b.y1; y++ {
		i := (y*stride + b.x0) * 4
		for x := b.x0; x < b.x1; x, i = x+1, i+4 {
			sa := uint32(src[i+3])
			switch sa {
			case 0:
				continue
			case 255:
				copy(dst[i:i+4], src[i:i+4])
				continue
			}
			inv := 255 - sa
			for c := 0; c < 4; c++ {
				v := uint32(src[i+c]) + uint32(div255(uint32(dst[i+c])*inv))
				dst[i+c] = uint8(min(v, 255))
			}
		}
	}
}

// div255 divides by 255 with rounding.
func div255(v uint32) uint8 {
	return uint8((v + 127) / 255)
}
