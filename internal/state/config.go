package state

// Logical surface and board configuration shared by every client. These are
// build-time constants; every participant must agree on them.
const (
	SurfaceW  = 1920.0
	SurfaceH  = 1080.0
	NumBoards = 10

	EraserMinSize = 12.0
	MinPenSize    = 1.0
	MaxSize       = SurfaceW // one stroke can cover the whole surface
	DefaultSize   = 4.0
	DefaultColor  = "#000000"

	// Zoom range offered by the tablet's zoom slider.
	MinZoom = 0.5
	MaxZoom = 4.0
)
