package grid

import "math"

// DefaultOverlapThreshold is the share of a cell's area a dragged rectangle
// must cover for MaxOverlap to accept that cell.
const DefaultOverlapThreshold = 0.4

// Box is a rectangle in pixel space.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Center returns the center point.
func (b Box) Center() (x, y float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// IntersectionArea returns the area b shares with o.
func (b Box) IntersectionArea(o Box) float64 {
	w := math.Min(b.Right(), o.Right()) - math.Max(b.Left, o.Left)
	h := math.Min(b.Bottom(), o.Bottom()) - math.Max(b.Top, o.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Cell addresses one grid cell, 1-based.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellMapper turns a dragged pixel rectangle into a target cell. ok is false
// when no cell qualifies and the drop should be rejected.
type CellMapper interface {
	MapCell(dragged, container Box, cfg Config) (cell Cell, ok bool)
}

// CenterCell maps to the cell containing the dragged rectangle's center,
// clamped into the grid.
type CenterCell struct {
	Multiplier int
}

// MapCell implements CellMapper.
func (m CenterCell) MapCell(dragged, container Box, cfg Config) (Cell, bool) {
	if container.Width <= 0 || container.Height <= 0 {
		return Cell{}, false
	}
	cx, cy := dragged.Center()
	col := trackAt(cx, container.Left, container.Width, cfg.Columns, cfg.ColumnFr, m.Multiplier)
	row := trackAt(cy, container.Top, container.Height, cfg.Rows, cfg.RowFr, m.Multiplier)
	return Cell{Row: row + 1, Col: col + 1}, true
}

// MaxOverlap picks the cell with the greatest covered share of its area,
// provided that share reaches Threshold. Ties keep the first cell in
// row-major order.
type MaxOverlap struct {
	Threshold  float64
	Multiplier int
}

// MapCell implements CellMapper.
func (m MaxOverlap) MapCell(dragged, container Box, cfg Config) (Cell, bool) {
	if container.Width <= 0 || container.Height <= 0 {
		return Cell{}, false
	}
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	xs := trackBounds(container.Left, container.Width, cfg.Columns, cfg.ColumnFr, m.Multiplier)
	ys := trackBounds(container.Top, container.Height, cfg.Rows, cfg.RowFr, m.Multiplier)

	var best Cell
	bestShare := 0.0
	found := false
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Columns; c++ {
			cell := Box{Left: xs[c], Top: ys[r], Width: xs[c+1] - xs[c], Height: ys[r+1] - ys[r]}
			area := cell.Width * cell.Height
			if area <= 0 {
				continue
			}
			share := dragged.IntersectionArea(cell) / area
			if share >= threshold && share > bestShare {
				best = Cell{Row: r + 1, Col: c + 1}
				bestShare = share
				found = true
			}
		}
	}
	return best, found
}

// trackBounds returns the n+1 pixel boundaries of n tracks laid over
// [origin, origin+length). Weighted tracks follow the same sub-unit offsets
// the data model uses.
func trackBounds(origin, length float64, n int, weights []float64, multiplier int) []float64 {
	bounds := make([]float64, n+1)
	if len(weights) == n && n > 0 {
		offsets := WeightedOffsets(weights, multiplier)
		total := sumInts(ScaleWeights(weights, multiplier))
		if total > 0 {
			for i, off := range offsets {
				bounds[i] = origin + float64(off)/float64(total)*length
			}
			bounds[n] = origin + length
			return bounds
		}
	}
	for i := 0; i <= n; i++ {
		bounds[i] = origin + float64(i)*length/float64(n)
	}
	return bounds
}

// trackAt returns the 0-based track containing p, clamped to [0, n-1].
func trackAt(p, origin, length float64, n int, weights []float64, multiplier int) int {
	if len(weights) != n {
		idx := int(math.Floor((p - origin) / (length / float64(n))))
		return clamp(idx, 0, n-1)
	}
	bounds := trackBounds(origin, length, n, weights, multiplier)
	for i := 0; i < n; i++ {
		if p < bounds[i+1] {
			return i
		}
	}
	return n - 1
}
