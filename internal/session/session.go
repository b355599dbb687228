// Package session runs one client: a display that only mirrors boards, or a
// tablet that also draws.
//
// Everything a client knows lives on a single goroutine. Pointer input, relay
// messages and refresh ticks are handled one at a time by Run, so the store,
// the input machine and the renderer need no locks.
package session

import (
	"context"
	"image"
	"log/slog"
	"time"

	"SlideBoard/internal/input"
	bnet "SlideBoard/internal/net"
	"SlideBoard/internal/render"
	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

// RefreshRate is how often a changed board is redrawn.
const RefreshRate = time.Second / 60

type Role int

const (
	RoleDisplay Role = iota
	RoleTablet
)

func (r Role) String() string {
	if r == RoleTablet {
		return "tablet"
	}
	return "display"
}

// Transport is the relay connection as the session sees it.
type Transport interface {
	SendDraw(state.DrawSample) bool
	SendBoard(board int) bool
	Incoming() <-chan any
	States() <-chan bnet.State
}

// Status is what the chrome around the board shows.
type Status struct {
	Board int
	Zoom  float64
	Tool  input.Tool
	Link  bnet.State
}

type Session struct {
	Inbox chan any

	// OnFrame receives each redrawn frame. OnStatus receives Status whenever
	// it changes. Both are called on the session goroutine.
	OnFrame  func(*image.RGBA)
	OnStatus func(Status)

	role      Role
	store     *state.Store
	capture   *input.Capture
	transport Transport
	renderer  *render.Renderer
	viewport  view.Viewport
	link      bnet.State
	dirty     bool
	last      Status
	log       *slog.Logger
}

func New(role Role, t Transport, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		Inbox:     make(chan any, 256),
		role:      role,
		store:     state.NewStore(),
		transport: t,
		link:      bnet.StateDisconnected,
		dirty:     true,
		log:       logger.With("component", "session", "role", role.String(), "client", state.ClientID()),
	}
	profile := render.DisplayProfile
	if role == RoleTablet {
		profile = render.TabletProfile
		s.capture = input.NewCapture(s.local)
	}
	s.renderer = render.New(profile, logger)
	return s
}

// Run processes commands, relay traffic and refresh ticks until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(RefreshRate)
	defer ticker.Stop()

	s.publishStatus()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.Inbox:
			s.handleCommand(cmd)
		case msg := <-s.transport.Incoming():
			s.handleRemote(msg)
		case st := <-s.transport.States():
			s.handleLink(st)
		case <-ticker.C:
			s.redraw()
		}
		s.publishStatus()
	}
}

// local takes a sample from the input machine: it is drawn here at once and
// sent to everyone else. Sending is fire-and-forget; a sample lost while the
// relay is away is superseded by the next one, so nothing is queued or retried.
func (s *Session) local(d state.DrawSample) {
	s.store.Apply(d)
	s.dirty = true
	s.transport.SendDraw(d)
}

func (s *Session) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Resize:
		s.viewport = c.Viewport
		if s.capture != nil {
			s.capture.SetViewport(c.Viewport)
		}
	case Snapshot:
		snap := s.store.Clone()
		s.log.Debug("snapshot", "strokes", snap.StrokeCount())
		c.Reply <- snap
		return
	case GoToBoard:
		s.goToBoard(c.Board)
	case StepBoard:
		s.goToBoard(s.store.Current() + c.Delta)
	default:
		if s.capture == nil {
			s.log.Debug("ignoring input command on display", "command", cmd)
			return
		}
		s.handleInput(cmd)
	}
	s.dirty = true
}

func (s *Session) handleInput(cmd any) {
	switch c := cmd.(type) {
	case Pointer:
		s.capture.Handle(c.Event)
	case SetTool:
		s.capture.SetTool(c.Tool)
	case SetColor:
		s.capture.SetColor(c.Color)
	case SetSize:
		s.capture.SetSize(c.Size)
	case SetZoom:
		s.capture.SetCamera(s.capture.Camera().WithZoom(c.Zoom))
	case ResetCamera:
		s.capture.SetCamera(state.DefaultCamera())
	default:
		s.log.Warn("unknown command", "command", cmd)
	}
}

// goToBoard switches a tablet to another board, keeping each board's camera,
// and tells displays to follow.
func (s *Session) goToBoard(board int) {
	if s.capture == nil {
		s.store.Select(board)
		return
	}
	prev := s.store.Current()
	next := state.ClampBoard(board)
	if next == prev {
		return
	}
	s.store.SaveCamera(prev, s.capture.Camera())
	s.store.Select(next)
	s.capture.SetBoard(next, s.store.Camera(next))
	s.transport.SendBoard(next)
	s.log.Debug("board changed", "board", next)
}

func (s *Session) handleRemote(msg any) {
	switch m := msg.(type) {
	case state.DrawSample:
		s.store.Apply(m)
		if state.ClampBoard(m.Board) == s.store.Current() {
			s.dirty = true
		}
	case state.BoardSelect:
		// Tablets navigate on their own; two of them must not fight.
		if s.role == RoleTablet {
			return
		}
		if s.store.Current() != m.Board {
			s.store.Select(m.Board)
			s.dirty = true
		}
	}
}

func (s *Session) handleLink(st bnet.State) {
	s.link = st
	s.log.Info("relay link", "state", st.String())
	if st == bnet.StateConnected && s.role == RoleTablet {
		s.transport.SendBoard(s.store.Current())
	}
}

func (s *Session) redraw() {
	if !s.dirty || s.viewport.W <= 0 || s.viewport.H <= 0 {
		return
	}
	s.dirty = false
	img := s.renderer.Render(s.scene())
	if s.OnFrame != nil {
		s.OnFrame(img)
	}
}

func (s *Session) scene() render.Scene {
	sc := render.Scene{
		Board:    s.store.Board(s.store.Current()),
		Viewport: s.viewport,
		Zoom:     1,
	}
	if s.capture == nil {
		sc.Transform = view.Fit(s.viewport)
		return sc
	}

	t := s.capture.Transform()
	sc.Transform = t
	sc.Zoom = s.capture.Camera().Zoom
	if p := s.capture.Preview(); p.Visible {
		sc.Marker = render.Marker{
			Visible: true,
			X:       p.X,
			Y:       p.Y,
			Radius:  t.SizeToScreen(s.capture.EffectiveSize()),
			Color:   s.capture.Color(),
			Eraser:  s.capture.Tool() == input.ToolEraser,
		}
	}
	return sc
}

func (s *Session) status() Status {
	st := Status{Board: s.store.Current(), Zoom: 1, Link: s.link}
	if s.capture != nil {
		st.Zoom = s.capture.Camera().Zoom
		st.Tool = s.capture.Tool()
	}
	return st
}

func (s *Session) publishStatus() {
	st := s.status()
	if st == s.last {
		return
	}
	s.last = st
	if s.OnStatus != nil {
		s.OnStatus(st)
	}
}
