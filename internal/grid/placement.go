package grid

import "fmt"

// occupancy is a unit-cell bitmap of the grid.
type occupancy struct {
	cols, rows int
	cells      []bool
}

func newOccupancy(cfg Config, items []Item) occupancy {
	o := occupancy{cols: cfg.Columns, rows: cfg.Rows, cells: make([]bool, cfg.Columns*cfg.Rows)}
	for _, it := range items {
		for y := max(it.Y, 0); y < min(it.Bottom(), o.rows); y++ {
			for x := max(it.X, 0); x < min(it.Right(), o.cols); x++ {
				o.cells[y*o.cols+x] = true
			}
		}
	}
	return o
}

func (o occupancy) free(r Rect) bool {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if o.cells[y*o.cols+x] {
				return false
			}
		}
	}
	return true
}

// FindFreeSlot returns the first w x h rectangle, scanning rows top to bottom
// and columns left to right, that no item occupies. When none fits it falls
// back to column 0 on the row below the lowest item, clipped to the space
// left; a full grid yields ErrNoFreeSlot.
func FindFreeSlot(items []Item, cfg Config, w, h int) (Rect, error) {
	w = max(w, 1)
	h = max(h, 1)
	occ := newOccupancy(cfg, items)
	for row := 0; row <= cfg.Rows-h; row++ {
		for col := 0; col <= cfg.Columns-w; col++ {
			r := Rect{X: col, Y: row, W: w, H: h}
			if occ.free(r) {
				return r, nil
			}
		}
	}

	y := 0
	for _, it := range items {
		y = max(y, it.Bottom())
	}
	if y >= cfg.Rows {
		return Rect{}, fmt.Errorf("%w: %dx%d in %dx%d", ErrNoFreeSlot, w, h, cfg.Columns, cfg.Rows)
	}
	r := Rect{X: 0, Y: y, W: min(w, cfg.Columns), H: min(h, cfg.Rows-y)}
	if !occ.free(r) {
		return Rect{}, fmt.Errorf("%w: %dx%d in %dx%d", ErrNoFreeSlot, w, h, cfg.Columns, cfg.Rows)
	}
	return r, nil
}

// findExactSlot is FindFreeSlot without the clipped fallback.
func findExactSlot(items []Item, cfg Config, w, h int) (Rect, bool) {
	r, err := FindFreeSlot(items, cfg, w, h)
	if err != nil || r.W != w || r.H != h {
		return Rect{}, false
	}
	return r, true
}
