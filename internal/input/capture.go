// Package input turns raw pointer events into logical draw samples.
package input

import (
	"time"

	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

// SendInterval bounds how often a moving pointer emits a sample.
const SendInterval = time.Second / 60

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
	ToolMove   Tool = "move"
)

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerLeave
)

// PointerEvent is a pointer sample in physical viewport pixels.
type PointerEvent struct {
	Kind EventKind
	ID   int
	X, Y float64
}

// Preview is the on-screen marker shown under an active drawing pointer.
type Preview struct {
	Visible bool
	X, Y    float64
}

type gesture int

const (
	gestureNone gesture = iota
	gestureDraw
	gesturePan
)

// Capture is the input state machine of a tablet client. It tracks exactly one
// active pointer; other pointers are ignored until it is released.
//
// Capture is not safe for concurrent use.
type Capture struct {
	// OnSample receives every emitted sample.
	OnSample func(state.DrawSample)

	tool  Tool
	color string
	size  float64

	board    int
	camera   state.Camera
	viewport view.Viewport

	gesture   gesture
	pointerID int
	last      state.Point
	lastSent  time.Time
	pending   bool // last has moved since the previous sample
	preview   Preview

	panStartX, panStartY float64
	panStartCamera       state.Camera

	now func() time.Time
}

func NewCapture(onSample func(state.DrawSample)) *Capture {
	return &Capture{
		OnSample: onSample,
		tool:     ToolPen,
		color:    state.DefaultColor,
		size:     state.DefaultSize,
		camera:   state.DefaultCamera(),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for throttling.
func (c *Capture) SetClock(now func() time.Time) { c.now = now }

func (c *Capture) Tool() Tool { return c.tool }
func (c *Capture) Color() string { return c.color }
func (c *Capture) Size() float64 { return c.size }
func (c *Capture) Board() int { return c.board }
func (c *Capture) Preview() Preview { return c.preview }
func (c *Capture) Active() bool { return c.gesture != gestureNone }
func (c *Capture) Camera() state.Camera { return c.camera }

// SetTool changes the tool for the next sample. Switching to move while a
// stroke is being drawn closes that stroke first.
func (c *Capture) SetTool(t Tool) {
	if t == ToolMove && c.gesture == gestureDraw {
		c.finish()
	}
	c.tool = t
}

func (c *Capture) SetColor(color string) { c.color = color }

func (c *Capture) SetSize(size float64) {
	if size > 0 {
		c.size = size
	}
}

// SetBoard switches the board samples are tagged with and loads its camera.
func (c *Capture) SetBoard(board int, cam state.Camera) {
	if c.gesture == gestureDraw {
		c.finish()
	}
	c.gesture = gestureNone
	c.board = state.ClampBoard(board)
	c.camera = cam.Clamp()
}

func (c *Capture) SetCamera(cam state.Camera) { c.camera = cam.Clamp() }

func (c *Capture) SetViewport(vp view.Viewport) { c.viewport = vp }

// Transform returns the current screen mapping.
func (c *Capture) Transform() view.Linear { return view.Window(c.camera, c.viewport) }

// EffectiveSize is the size carried by the next sample.
func (c *Capture) EffectiveSize() float64 {
	return state.EffectiveSize(c.sampleTool(), c.size)
}

// Handle advances the state machine by one pointer event.
func (c *Capture) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		c.down(ev)
	case PointerMove:
		c.move(ev)
	case PointerUp, PointerCancel, PointerLeave:
		if c.gesture != gestureNone && ev.ID == c.pointerID {
			c.finish()
		}
	}
}

func (c *Capture) down(ev PointerEvent) {
	if c.gesture != gestureNone {
		return
	}
	c.pointerID = ev.ID
	if c.tool == ToolMove {
		c.gesture = gesturePan
		c.panStartX, c.panStartY = ev.X, ev.Y
		c.panStartCamera = c.camera
		return
	}
	c.gesture = gestureDraw
	c.last = c.toLogical(ev.X, ev.Y)
	c.send(true)
	c.preview = Preview{Visible: true, X: ev.X, Y: ev.Y}
}

func (c *Capture) move(ev PointerEvent) {
	if c.gesture == gestureNone || ev.ID != c.pointerID {
		return
	}
	if c.gesture == gesturePan {
		c.camera = view.PanFrom(c.panStartCamera, ev.X-c.panStartX, ev.Y-c.panStartY, c.viewport)
		return
	}
	c.last = c.toLogical(ev.X, ev.Y)
	c.preview = Preview{Visible: true, X: ev.X, Y: ev.Y}
	if c.now().Sub(c.lastSent) < SendInterval {
		c.pending = true
		return
	}
	c.send(true)
}

// finish ends the active gesture. Release, cancel and leave all close the
// stroke the same way; there is no aborted-stroke state. A position held back
// by the throttle is sent as a point first, since a release adds none.
func (c *Capture) finish() {
	if c.gesture == gestureDraw {
		if c.pending {
			c.send(true)
		}
		c.send(false)
		c.preview = Preview{}
	}
	c.gesture = gestureNone
}

func (c *Capture) toLogical(sx, sy float64) state.Point {
	return state.ClampPoint(c.Transform().ScreenToLogical(sx, sy))
}

func (c *Capture) sampleTool() state.Tool {
	if c.tool == ToolEraser {
		return state.ToolEraser
	}
	return state.ToolPen
}

func (c *Capture) send(drawing bool) {
	c.lastSent = c.now()
	c.pending = false
	tool := c.sampleTool()
	color := c.color
	if tool == state.ToolEraser {
		color = state.DefaultColor
	}
	if c.OnSample == nil {
		return
	}
	c.OnSample(state.DrawSample{
		Board:   c.board,
		Tool:    tool,
		Color:   color,
		Size:    state.EffectiveSize(tool, c.size),
		X:       c.last.X,
		Y:       c.last.Y,
		Drawing: drawing,
	})
}
