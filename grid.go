package main

import "math"

const defaultGridPadding = 12.0

// ThumbnailGrid lays out a maximal rows x cols grid of square cells over an
// area and tracks which items are on screen. Items [pos, pos+rows*cols) are
// visible; pos is always a multiple of cols.
type ThumbnailGrid struct {
	area     Rect
	cellSize float64
	padding  float64
	count    int
	pos      int
}

// NewThumbnailGrid creates a grid over count items
func NewThumbnailGrid(area Rect, cellSize, padding float64, count int) *ThumbnailGrid {
	if cellSize <= 0 {
		cellSize = defaultThumbnailSize
	}
	return &ThumbnailGrid{area: area, cellSize: cellSize, padding: padding, count: count}
}

// Attach should be called when the grid area changes
func (g *ThumbnailGrid) Attach(area Rect) {
	g.area = area
	_, cols := g.Dimensions()
	g.pos -= g.pos % cols
	g.clampPos()
}

// Dimensions returns rows x columns, never less than one of each
func (g *ThumbnailGrid) Dimensions() (rows int, cols int) {
	step := g.cellSize + g.padding
	rows = int((g.area.H - g.padding) / step)
	cols = int((g.area.W - g.padding) / step)
	return max(rows, 1), max(cols, 1)
}

// Capacity is the number of cells on screen
func (g *ThumbnailGrid) Capacity() int {
	rows, cols := g.Dimensions()
	return rows * cols
}

// PaintableArea is the part of the area holding whole cells, centered
func (g *ThumbnailGrid) PaintableArea() Rect {
	rows, cols := g.Dimensions()
	w := float64(cols)*(g.cellSize+g.padding) + g.padding
	h := float64(rows)*(g.cellSize+g.padding) + g.padding
	cx, cy := g.area.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Visible returns the visible item range [from, to)
func (g *ThumbnailGrid) Visible() (int, int) {
	return g.pos, min(g.count, g.pos+g.Capacity())
}

// CellRect is the screen rectangle of item i's cell, if it is visible
func (g *ThumbnailGrid) CellRect(i int) (Rect, bool) {
	from, to := g.Visible()
	if i < from || i >= to {
		return Rect{}, false
	}
	_, cols := g.Dimensions()
	rel := i - g.pos
	pa := g.PaintableArea()
	step := g.cellSize + g.padding
	return Rect{
		X: pa.X + g.padding + float64(rel%cols)*step,
		Y: pa.Y + g.padding + float64(rel/cols)*step,
		W: g.cellSize,
		H: g.cellSize,
	}, true
}

// ThumbRect is where an image of the given size is drawn inside item i's cell
func (g *ThumbnailGrid) ThumbRect(i int, imgW, imgH float64) (Rect, bool) {
	cell, ok := g.CellRect(i)
	if !ok {
		return Rect{}, false
	}
	if imgW <= 0 || imgH <= 0 {
		return cell, true
	}
	return FitRect(imgW, imgH, cell), true
}

// At returns the item under the screen point. Points in the padding between
// cells hit nothing.
func (g *ThumbnailGrid) At(x, y float64) (int, bool) {
	pa := g.PaintableArea()
	if !pa.Contains(x, y) {
		return -1, false
	}
	step := g.cellSize + g.padding
	lx, ly := x-pa.X-g.padding, y-pa.Y-g.padding
	if lx < 0 || ly < 0 {
		return -1, false
	}
	col, row := int(lx/step), int(ly/step)
	if math.Mod(lx, step) >= g.cellSize || math.Mod(ly, step) >= g.cellSize {
		return -1, false
	}
	rows, cols := g.Dimensions()
	if col >= cols || row >= rows {
		return -1, false
	}
	i := g.pos + row*cols + col
	return i, i < g.count
}

// MoveUpRow scrolls one row up
func (g *ThumbnailGrid) MoveUpRow() {
	_, cols := g.Dimensions()
	g.pos = max(0, g.pos-cols)
}

// MoveDownRow scrolls one row down, leaving at most one empty row at the end
func (g *ThumbnailGrid) MoveDownRow() {
	_, cols := g.Dimensions()
	g.pos += cols
	g.clampPos()
}

// ScrollBy scrolls by whole rows; negative is up
func (g *ThumbnailGrid) ScrollBy(rows int) {
	for ; rows > 0; rows-- {
		g.MoveDownRow()
	}
	for ; rows < 0; rows++ {
		g.MoveUpRow()
	}
}

// Reveal scrolls the least amount that makes item i visible
func (g *ThumbnailGrid) Reveal(i int) {
	if i < 0 || i >= g.count {
		return
	}
	rows, cols := g.Dimensions()
	switch from, to := g.Visible(); {
	case i < from:
		g.pos = i - i%cols
	case i >= to:
		g.pos = (i/cols - rows + 1) * cols
	}
	g.clampPos()
}

func (g *ThumbnailGrid) clampPos() {
	rows, cols := g.Dimensions()
	last := max(0, g.count-(rows*cols)+cols)
	last -= last % cols
	g.pos = max(0, min(g.pos, last))
}
