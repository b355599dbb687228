package state

// Board owns the committed strokes of one slide, in render order, plus the
// stroke still being drawn.
type Board struct {
	strokes []*Stroke
	current *Stroke
}

// Strokes returns the committed strokes. Callers must not modify them.
func (b *Board) Strokes() []*Stroke { return b.strokes }

// Current returns the in-progress stroke or nil.
func (b *Board) Current() *Stroke { return b.current }

// Store holds every board of a client plus the board currently shown and, on
// input-capable clients, a saved camera per board.
//
// A Store is owned by a single goroutine; it has no locking of its own.
type Store struct {
	boards  [NumBoards]Board
	cameras [NumBoards]Camera
	current int
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.cameras {
		s.cameras[i] = DefaultCamera()
	}
	return s
}

// Board returns the board at index i, clamped into range.
func (s *Store) Board(i int) *Board {
	return &s.boards[ClampBoard(i)]
}

// Apply routes a sample to its board.
func (s *Store) Apply(d DrawSample) *Stroke {
	return s.Board(d.Board).Apply(d)
}

// Current returns the index of the board being shown.
func (s *Store) Current() int { return s.current }

// Select changes the shown board and returns the clamped index. Board contents
// are untouched.
func (s *Store) Select(i int) int {
	s.current = ClampBoard(i)
	return s.current
}

// Camera returns the saved camera of board i.
func (s *Store) Camera(i int) Camera {
	return s.cameras[ClampBoard(i)]
}

// SaveCamera stores a clamped copy of c for board i.
func (s *Store) SaveCamera(i int, c Camera) {
	s.cameras[ClampBoard(i)] = c.Clamp()
}

// StrokeCount returns the number of committed strokes across all boards.
func (s *Store) StrokeCount() int {
	n := 0
	for i := range s.boards {
		n += len(s.boards[i].strokes)
	}
	return n
}

// Empty reports whether the board has nothing to draw.
func (b *Board) Empty() bool {
	return len(b.strokes) == 0 && (b.current == nil || len(b.current.Points) == 0)
}

// Clone returns a copy of the store that is safe to read from another
// goroutine. Committed strokes are shared since they never change; the
// in-progress strokes are copied.
func (s *Store) Clone() *Store {
	c := &Store{cameras: s.cameras, current: s.current}
	for i := range s.boards {
		src := &s.boards[i]
		c.boards[i].strokes = append([]*Stroke(nil), src.strokes...)
		if src.current != nil {
			cur := *src.current
			cur.Points = append([]Point(nil), src.current.Points...)
			c.boards[i].current = &cur
		}
	}
	return c
}
