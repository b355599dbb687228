// Package protocol is the JSON wire format exchanged through the relay.
//
//	{"type":"draw","board":0,"tool":"pen","color":"#rrggbb","size":4,"x":1,"y":2,"drawing":true}
//	{"type":"set_board","board":3}
//
// Messages carry no sequence numbers, sender ids or acknowledgements. Delivery
// is fire-and-forget: a lost draw sample is superseded by the next one, so the
// protocol stays stateless on purpose.
package protocol

const (
	MsgDraw     = "draw"
	MsgSetBoard = "set_board"
)

// DrawMessage is the outgoing form of a draw sample.
type DrawMessage struct {
	Type    string  `json:"type"`
	Board   int     `json:"board"`
	Tool    string  `json:"tool"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Drawing bool    `json:"drawing"`
}

// SetBoardMessage is the outgoing form of a board selection.
type SetBoardMessage struct {
	Type  string `json:"type"`
	Board int    `json:"board"`
}
