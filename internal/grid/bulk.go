package grid

// WriteFunc stores one cell. A nil value clears the cell.
type WriteFunc[K comparable] func(studentID string, col K, value *float64)

// Orchestrator applies bulk edits through a single write callback. Rows is
// the active row list (student ids in display order) and Columns the active
// column sequence; both must describe the view the selection was made in.
type Orchestrator[K comparable] struct {
	Rows    []string
	Columns []K
	Write   WriteFunc[K]
}

// Fill writes the normalized value into every cell of the selection and
// returns the number of cells written. Rows outside the row list are skipped.
func (o Orchestrator[K]) Fill(sel Selection[K], text string) int {
	r, ok := sel.Rect(o.Columns)
	if !ok {
		return 0
	}
	value := NormalizeCell(text)
	n := 0
	for row := r.Top; row <= r.Bottom; row++ {
		if row < 0 || row >= len(o.Rows) {
			continue
		}
		for c := r.Left; c <= r.Right; c++ {
			o.Write(o.Rows[row], o.Columns[c], copyValue(value))
			n++
		}
	}
	return n
}

// HasColumn reports whether col is part of the active column sequence.
func (o Orchestrator[K]) HasColumn(col K) bool {
	return indexOf(o.Columns, col) >= 0
}

// PasteLines writes lines down a single column starting at the anchor. It
// only handles multi-line input; for fewer than two lines handled is false
// and the caller should treat the input as a single-cell edit. Non-numeric
// lines are skipped, as are rows past the end of the row list.
func (o Orchestrator[K]) PasteLines(lines []string, anchorRow int, anchorCol K) (written int, handled bool) {
	if len(lines) <= 1 {
		return 0, false
	}
	if !o.HasColumn(anchorCol) {
		return 0, true
	}
	for i, line := range lines {
		row := anchorRow + i
		if row < 0 || row >= len(o.Rows) {
			continue
		}
		v, ok := ParsePasteLine(line)
		if !ok {
			continue
		}
		o.Write(o.Rows[row], anchorCol, &v)
		written++
	}
	return written, true
}

// PasteText splits clipboard text and pastes it at the anchor.
func (o Orchestrator[K]) PasteText(text string, anchorRow int, anchorCol K) (int, bool) {
	return o.PasteLines(SplitLines(text), anchorRow, anchorCol)
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
