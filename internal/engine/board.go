package engine

// UnitInstance is one unit placed on the board.
type UnitInstance struct {
	ID         string // unique per spawn/merge
	Role       Role
	UnitDefID  string
	Level      int
	CooldownMs int64
}

// Board is a fixed rows x cols grid stored row-major; nil means empty.
type Board struct {
	Rows  int
	Cols  int
	Cells []*UnitInstance
}

// NewBoard creates an empty board.
func NewBoard(rows, cols int) Board {
	if rows < 1 {
		rows = BoardRows
	}
	if cols < 1 {
		cols = BoardCols
	}
	return Board{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]*UnitInstance, rows*cols),
	}
}

// Len returns the number of cells.
func (b Board) Len() int {
	return len(b.Cells)
}

// InRange reports whether idx addresses a cell.
func (b Board) InRange(idx int) bool {
	return idx >= 0 && idx < len(b.Cells)
}

// At returns the unit at idx, or nil if empty or out of range.
func (b Board) At(idx int) *UnitInstance {
	if !b.InRange(idx) {
		return nil
	}
	return b.Cells[idx]
}

// FirstEmpty returns the first empty cell index in board order, or -1.
func (b Board) FirstEmpty() int {
	for i, c := range b.Cells {
		if c == nil {
			return i
		}
	}
	return -1
}

// Occupied returns the number of non-empty cells.
func (b Board) Occupied() int {
	n := 0
	for _, c := range b.Cells {
		if c != nil {
			n++
		}
	}
	return n
}

// Units returns copies of all units in board order.
func (b Board) Units() []UnitInstance {
	units := make([]UnitInstance, 0, len(b.Cells))
	for _, c := range b.Cells {
		if c != nil {
			units = append(units, *c)
		}
	}
	return units
}

// RowCol converts a cell index into (row, col).
func (b Board) RowCol(idx int) (row, col int) {
	if b.Cols <= 0 {
		return 0, idx
	}
	return idx / b.Cols, idx % b.Cols
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	cells := make([]*UnitInstance, len(b.Cells))
	for i, c := range b.Cells {
		if c != nil {
			u := *c
			cells[i] = &u
		}
	}
	return Board{Rows: b.Rows, Cols: b.Cols, Cells: cells}
}
