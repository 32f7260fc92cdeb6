package core

// Rect represents an axis-aligned rectangle on the screen.
type Rect struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Grid lays out equally sized cells in row-major order.
type Grid struct {
	Origin     Point
	Rows, Cols int
	CellW      int
	CellH      int
}

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Cell returns the rectangle of the cell at the row-major index.
func (g Grid) Cell(idx int) Rect {
	row, col := idx/g.Cols, idx%g.Cols
	return Rect{
		X: g.Origin.X + col*g.CellW,
		Y: g.Origin.Y + row*g.CellH,
		W: g.CellW,
		H: g.CellH,
	}
}

// Bounds returns the rectangle covering the whole grid.
func (g Grid) Bounds() Rect {
	return Rect{X: g.Origin.X, Y: g.Origin.Y, W: g.Cols * g.CellW, H: g.Rows * g.CellH}
}

// Move shifts a row-major index by (dRow, dCol), wrapping at the grid edges.
func (g Grid) Move(idx, dRow, dCol int) int {
	if g.Rows <= 0 || g.Cols <= 0 {
		return 0
	}
	row, col := idx/g.Cols, idx%g.Cols
	row = Wrap(row+dRow, g.Rows)
	col = Wrap(col+dCol, g.Cols)
	return row*g.Cols + col
}

// Wrap maps v into [0, n).
func Wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Clamp restricts a value to the range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
