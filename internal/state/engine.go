package state

import "math"

// Style identifies the visual style of a stroke. Two samples belong to the same
// stroke only if their styles are equal.
type Style struct {
	Tool  Tool
	Color string
	Size  float64
}

// StyleKey is the one place stroke styles are compared.
func StyleKey(tool Tool, color string, size float64) Style {
	return Style{Tool: tool, Color: color, Size: size}
}

// ClampBoard maps any index onto a valid board.
func ClampBoard(b int) int {
	if b < 0 {
		return 0
	}
	if b >= NumBoards {
		return NumBoards - 1
	}
	return b
}

// ClampPoint keeps a point on the surface. NaN collapses to 0.
func ClampPoint(x, y float64) Point {
	return Point{X: clampAxis(x, SurfaceW), Y: clampAxis(y, SurfaceH)}
}

func clampAxis(v, max float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// EffectiveSize applies the per-tool floor and the MaxSize ceiling to a
// requested size. Zero, NaN and infinities mean the size was not given.
func EffectiveSize(tool Tool, size float64) float64 {
	if size == 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = DefaultSize
	}
	floor := MinPenSize
	if tool == ToolEraser {
		floor = EraserMinSize
	}
	return math.Min(MaxSize, math.Max(floor, size))
}

// Normalize makes a sample safe to apply: coordinates and board are clamped and
// missing style fields take their defaults. Remote samples are never trusted.
func Normalize(s DrawSample) DrawSample {
	s.Board = ClampBoard(s.Board)
	p := ClampPoint(s.X, s.Y)
	s.X, s.Y = p.X, p.Y
	if s.Tool != ToolEraser {
		s.Tool = ToolPen
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	s.Size = EffectiveSize(s.Tool, s.Size)
	return s
}

// Apply folds one sample into the board's stroke model and returns the stroke
// it committed, if any.
//
// Samples are applied in arrival order. Interleaved senders on one board can
// produce odd strokes; that is accepted.
func (b *Board) Apply(s DrawSample) (committed *Stroke) {
	s = Normalize(s)
	if !s.Drawing {
		committed = b.commit()
		b.current = nil
		return committed
	}

	style := StyleKey(s.Tool, s.Color, s.Size)
	if b.current == nil || b.current.Style() != style {
		committed = b.commit()
		b.current = &Stroke{Tool: s.Tool, Color: s.Color, Size: s.Size}
	}
	b.current.Points = append(b.current.Points, Point{X: s.X, Y: s.Y})
	return committed
}

func (b *Board) commit() *Stroke {
	if b.current == nil || len(b.current.Points) == 0 {
		return nil
	}
	st := b.current
	b.strokes = append(b.strokes, st)
	b.current = nil
	return st
}
