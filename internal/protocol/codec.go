package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"SlideBoard/internal/state"
)

var (
	ErrEmptyFrame  = errors.New("empty frame")
	ErrUnknownType = errors.New("unknown message type")
)

func EncodeDraw(s state.DrawSample) ([]byte, error) {
	return json.Marshal(DrawMessage{
		Type:    MsgDraw,
		Board:   s.Board,
		Tool:    string(s.Tool),
		Color:   s.Color,
		Size:    s.Size,
		X:       s.X,
		Y:       s.Y,
		Drawing: s.Drawing,
	})
}

func EncodeSetBoard(board int) ([]byte, error) {
	return json.Marshal(SetBoardMessage{Type: MsgSetBoard, Board: board})
}

// incoming tolerates sloppy peers: numbers may arrive as strings, and any
// field may be missing. Range checks happen in state.Normalize.
type incoming struct {
	Type    string `json:"type"`
	Board   number `json:"board"`
	Tool    string `json:"tool"`
	Color   string `json:"color"`
	Size    number `json:"size"`
	X       number `json:"x"`
	Y       number `json:"y"`
	Drawing flag   `json:"drawing"`
}

// Decode parses one frame into a state.DrawSample or a state.BoardSelect.
// Frames with an unrecognised type return ErrUnknownType and should be ignored.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFrame
	}
	var m incoming
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	switch m.Type {
	case MsgDraw:
		return state.DrawSample{
			Board:   boardIndex(float64(m.Board)),
			Tool:    state.Tool(m.Tool),
			Color:   m.Color,
			Size:    float64(m.Size),
			X:       float64(m.X),
			Y:       float64(m.Y),
			Drawing: bool(m.Drawing),
		}, nil
	case MsgSetBoard:
		return state.BoardSelect{Board: state.ClampBoard(boardIndex(float64(m.Board)))}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
}

// boardIndex truncates towards zero and keeps the value inside int range
// before the store clamps it to a real board.
func boardIndex(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= state.NumBoards:
		return state.NumBoards
	case f < 0:
		return -1
	}
	return int(f)
}

// number is a float that also accepts numeric strings. Anything else,
// including "Infinity" and "NaN", decodes as 0 rather than failing the
// whole frame.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	*n = 0
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			*n = number(f)
		}
	}
	return nil
}

// flag is true only for a literal JSON true.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = flag(bytes.Equal(bytes.TrimSpace(b), []byte("true")))
	return nil
}
