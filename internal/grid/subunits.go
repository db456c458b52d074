package grid

// Weighted columns are laid out by integer-grid libraries in sub-units: a
// column of weight 1.5 becomes 15 sub-units at the default multiplier. These
// helpers translate item rectangles between column space and sub-unit space.
// Rows keep their track indexes.

// ToSubUnits expands each item's columns into sub-unit coordinates. Without
// column weights the items are returned unchanged.
func ToSubUnits(cfg Config, items []Item, multiplier int) []Item {
	out := cloneItems(items)
	if len(cfg.ColumnFr) == 0 {
		return out
	}
	scaled := ScaleWeights(cfg.ColumnFr, multiplier)
	offsets := WeightedOffsets(cfg.ColumnFr, multiplier)
	for i, it := range out {
		if it.X < 0 || it.X >= len(offsets) {
			continue
		}
		out[i].X = offsets[it.X]
		out[i].W = sumInts(scaled[it.X:min(it.Right(), len(scaled))])
	}
	return out
}

// SubUnitColumns returns the sub-unit width of the whole grid.
func SubUnitColumns(cfg Config, multiplier int) int {
	if len(cfg.ColumnFr) == 0 {
		return cfg.Columns
	}
	return sumInts(ScaleWeights(cfg.ColumnFr, multiplier))
}

// FromSubUnits maps a sub-unit rectangle back to column space. The column is
// the last track starting at or before r.X; the span is the fewest tracks
// whose sub-units reach r.W.
func FromSubUnits(cfg Config, r Rect, multiplier int) Rect {
	if len(cfg.ColumnFr) == 0 {
		return r
	}
	scaled := ScaleWeights(cfg.ColumnFr, multiplier)
	offsets := WeightedOffsets(cfg.ColumnFr, multiplier)

	col := 0
	for i, off := range offsets {
		if off <= r.X {
			col = i
		}
	}
	span := 1
	acc := 0
	for i := col; i < len(scaled); i++ {
		acc += scaled[i]
		if acc >= r.W {
			span = i - col + 1
			break
		}
		span = i - col + 1
	}
	return Rect{X: col, Y: r.Y, W: span, H: r.H}
}

// clampSubUnits pulls a sub-unit rectangle inside a grid cols x rows wide.
func clampSubUnits(r Rect, cols, rows int) Rect {
	r.W = clamp(r.W, 1, cols)
	r.H = clamp(r.H, 1, rows)
	r.X = clamp(r.X, 0, cols-r.W)
	r.Y = clamp(r.Y, 0, rows-r.H)
	return r
}
