package session

import (
	"SlideBoard/internal/input"
	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

// Commands accepted on Session.Inbox.

type Pointer struct {
	Event input.PointerEvent
}

type Resize struct {
	Viewport view.Viewport
}

type SetTool struct {
	Tool input.Tool
}

type SetColor struct {
	Color string
}

type SetSize struct {
	Size float64
}

// SetZoom zooms around the current centre.
type SetZoom struct {
	Zoom float64
}

type ResetCamera struct{}

type GoToBoard struct {
	Board int
}

// StepBoard moves by Delta boards, stopping at the first and last.
type StepBoard struct {
	Delta int
}

// Snapshot asks for a copy of every board, e.g. for export.
type Snapshot struct {
	Reply chan<- *state.Store
}
