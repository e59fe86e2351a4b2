package main

import "testing"

func newTestGrid(count int) *ThumbnailGrid {
	return NewThumbnailGrid(Rect{W: 800, H: 600}, 160, 12, count)
}

func TestGridDimensions(t *testing.T) {
	g := newTestGrid(30)
	rows, cols := g.Dimensions()
	if rows != 3 || cols != 4 {
		t.Fatalf("Dimensions() = %d x %d, want 3 x 4", rows, cols)
	}
	if got := g.PaintableArea(); got != (Rect{X: 50, Y: 36, W: 700, H: 528}) {
		t.Errorf("PaintableArea() = %+v", got)
	}

	tiny := NewThumbnailGrid(Rect{W: 50, H: 50}, 160, 12, 3)
	if rows, cols := tiny.Dimensions(); rows != 1 || cols != 1 {
		t.Errorf("tiny Dimensions() = %d x %d, want 1 x 1", rows, cols)
	}
}

func TestGridCellRect(t *testing.T) {
	g := newTestGrid(30)

	tests := []struct {
		index int
		want  Rect
		ok    bool
	}{
		{0, Rect{X: 62, Y: 48, W: 160, H: 160}, true},
		{5, Rect{X: 234, Y: 220, W: 160, H: 160}, true},
		{12, Rect{}, false},
		{-1, Rect{}, false},
	}
	for _, tt := range tests {
		got, ok := g.CellRect(tt.index)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CellRect(%d) = %+v, %v; want %+v, %v", tt.index, got, ok, tt.want, tt.ok)
		}
	}

	thumb, _ := g.ThumbRect(0, 320, 160)
	if thumb != (Rect{X: 62, Y: 88, W: 160, H: 80}) {
		t.Errorf("ThumbRect(0) = %+v", thumb)
	}
}

func TestGridAt(t *testing.T) {
	g := newTestGrid(6)

	tests := []struct {
		name string
		x, y float64
		want int
		ok   bool
	}{
		{"first cell", 70, 60, 0, true},
		{"second row", 244, 230, 5, true},
		{"padding between cells", 227, 60, -1, false},
		{"outside paintable area", 10, 10, -1, false},
		{"empty cell past the end", 244 + 172, 230, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.At(tt.x, tt.y)
			if got != tt.want || ok != tt.ok {
				t.Errorf("At(%v, %v) = %d, %v; want %d, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGridScrolling(t *testing.T) {
	g := newTestGrid(30)

	g.MoveDownRow()
	if from, to := g.Visible(); from != 4 || to != 16 {
		t.Errorf("after MoveDownRow Visible() = %d..%d", from, to)
	}

	g.ScrollBy(10)
	if from, to := g.Visible(); from != 20 || to != 30 {
		t.Errorf("scrolled past end Visible() = %d..%d, want 20..30", from, to)
	}

	g.ScrollBy(-10)
	if from, _ := g.Visible(); from != 0 {
		t.Errorf("scrolled past start from = %d", from)
	}

	g.Reveal(13)
	if from, to := g.Visible(); from != 4 || to != 16 {
		t.Errorf("Reveal(13) Visible() = %d..%d, want 4..16", from, to)
	}
	g.Reveal(1)
	if from, _ := g.Visible(); from != 0 {
		t.Errorf("Reveal(1) from = %d", from)
	}
}

func TestGridAttachRealigns(t *testing.T) {
	g := newTestGrid(30)
	g.ScrollBy(2)
	g.Attach(Rect{W: 600, H: 600})
	_, cols := g.Dimensions()
	if from, _ := g.Visible(); from%cols != 0 {
		t.Errorf("pos %d not aligned to %d columns", from, cols)
	}
}
