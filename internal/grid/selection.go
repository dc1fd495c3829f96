// Package grid implements rectangular range selection over a grid whose rows
// are indices into an active row list and whose columns are keys of an
// ordered column sequence, plus the bulk fill and paste operations built on it.
package grid

// Coord is one cell of the grid.
type Coord[K comparable] struct {
	Row int `json:"row"`
	Col K   `json:"col"`
}

// Button identifies the pointer button that started an interaction.
type Button int

const (
	Primary Button = iota
	Auxiliary
	Secondary
)

// Selection is an anchor/focus pair. The zero value is an empty selection.
type Selection[K comparable] struct {
	Start    *Coord[K] `json:"start"`
	End      *Coord[K] `json:"end"`
	Dragging bool      `json:"isDragging"`
}

// NewSelection returns a committed selection spanning start..end.
func NewSelection[K comparable](start, end Coord[K]) Selection[K] {
	return Selection[K]{Start: &start, End: &end}
}

// Begin starts a drag at (row, col). Only the primary button may start one;
// Begin reports whether it did.
func (s *Selection[K]) Begin(row int, col K, b Button) bool {
	if b != Primary {
		return false
	}
	s.Start = &Coord[K]{Row: row, Col: col}
	s.End = &Coord[K]{Row: row, Col: col}
	s.Dragging = true
	return true
}

// Extend moves the focus while dragging.
func (s *Selection[K]) Extend(row int, col K) {
	if !s.Dragging {
		return
	}
	s.End = &Coord[K]{Row: row, Col: col}
}

// Commit ends the drag. The rectangle stays until Clear.
func (s *Selection[K]) Commit() { s.Dragging = false }

func (s *Selection[K]) Clear() { *s = Selection[K]{} }

func (s Selection[K]) Empty() bool { return s.Start == nil || s.End == nil }

// Rect is a selection resolved against a column sequence. Columns are
// positions in that sequence; all bounds are inclusive.
type Rect struct {
	Top, Bottom int
	Left, Right int
}

func (r Rect) Rows() int { return r.Bottom - r.Top + 1 }
func (r Rect) Cols() int { return r.Right - r.Left + 1 }

// Rect resolves the selection against columns. ok is false for an empty
// selection or when either column key is no longer in the sequence.
func (s Selection[K]) Rect(columns []K) (r Rect, ok bool) {
	if s.Empty() {
		return Rect{}, false
	}
	a, b := indexOf(columns, s.Start.Col), indexOf(columns, s.End.Col)
	if a < 0 || b < 0 {
		return Rect{}, false
	}
	r.Top, r.Bottom = minmax(s.Start.Row, s.End.Row)
	r.Left, r.Right = minmax(a, b)
	return r, true
}

// Contains reports whether (row, col) falls inside the selection, comparing
// columns by their position in columns rather than by value.
func (s Selection[K]) Contains(row int, col K, columns []K) bool {
	r, ok := s.Rect(columns)
	if !ok {
		return false
	}
	c := indexOf(columns, col)
	return c >= 0 && row >= r.Top && row <= r.Bottom && c >= r.Left && c <= r.Right
}

func indexOf[K comparable](columns []K, k K) int {
	for i, c := range columns {
		if c == k {
			return i
		}
	}
	return -1
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
