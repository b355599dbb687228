package state

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// Point is a position on the logical surface.
type Point struct{ X, Y float64 }

// Stroke is a maximal run of same-style samples. Committed strokes are never
// modified; the in-progress stroke of a board only grows.
type Stroke struct {
	Tool   Tool
	Color  string
	Size   float64
	Points []Point
}

// Style returns the stroke's style key.
func (s *Stroke) Style() Style {
	return StyleKey(s.Tool, s.Color, s.Size)
}

// DrawSample is one pointer sample along a stroke. Drawing=false closes the
// current stroke of the board.
type DrawSample struct {
	Board   int
	Tool    Tool
	Color   string
	Size    float64
	X, Y    float64
	Drawing bool
}

// BoardSelect announces which board the sender is viewing.
type BoardSelect struct {
	Board int
}
