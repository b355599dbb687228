package state

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether two rectangles touch or intersect.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.W < o.X || o.X+o.W < r.X ||
		r.Y+r.H < o.Y || o.Y+o.H < r.Y)
}

// Bounds returns the bounding box of the stroke's points grown by half its
// thickness, so round caps are covered. ok is false for an empty stroke.
func (s *Stroke) Bounds() (r Rect, ok bool) {
	if len(s.Points) == 0 {
		return Rect{}, false
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	pad := s.Size / 2
	return Rect{
		X: minX - pad,
		Y: minY - pad,
		W: maxX - minX + 2*pad,
		H: maxY - minY + 2*pad,
	}, true
}
