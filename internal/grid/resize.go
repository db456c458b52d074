package grid

import "math"

// DefaultResizeCellSize is the pixel size one cell of resize delta is
// assumed to span.
const DefaultResizeCellSize = 120

// GestureState is the phase of the single gesture a board tracks.
type GestureState int

const (
	Idle GestureState = iota
	Dragging
	Resizing
)

func (s GestureState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// ResizeGesture captures the state at resize start. The anchor corner is the
// item's top-left, which never moves during the gesture. Adjacent cells are
// one cell plus one gap apart.
type ResizeGesture struct {
	ItemID     string  `json:"itemId"`
	Initial    Rect    `json:"initial"`
	StartX     float64 `json:"startX"`
	StartY     float64 `json:"startY"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
	ColumnGap  float64 `json:"columnGap"`
	RowGap     float64 `json:"rowGap"`
}

// NewResizeGesture starts a gesture for it at pointer (x, y). Non-positive
// cell sizes fall back to DefaultResizeCellSize.
func NewResizeGesture(it Item, x, y, cellWidth, cellHeight float64) ResizeGesture {
	if cellWidth <= 0 {
		cellWidth = DefaultResizeCellSize
	}
	if cellHeight <= 0 {
		cellHeight = DefaultResizeCellSize
	}
	return ResizeGesture{
		ItemID:     it.ID,
		Initial:    it.Rect,
		StartX:     x,
		StartY:     y,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}
}

// Candidate returns the rectangle the pointer at (x, y) asks for: the initial
// size plus the rounded cell delta, clamped to at least 1x1 and to the space
// left between the anchor and the grid edge.
func (g ResizeGesture) Candidate(x, y float64, cfg Config) Rect {
	dw := int(math.Round((x - g.StartX) / (g.CellWidth + g.ColumnGap)))
	dh := int(math.Round((y - g.StartY) / (g.CellHeight + g.RowGap)))
	r := g.Initial
	r.W = clamp(g.Initial.W+dw, 1, max(cfg.Columns-g.Initial.X, 1))
	r.H = clamp(g.Initial.H+dh, 1, max(cfg.Rows-g.Initial.Y, 1))
	return r
}

// PixelSize returns the free-tracking pixel size for the pointer at (x, y),
// never smaller than one cell.
func (g ResizeGesture) PixelSize(x, y float64) (w, h float64) {
	w = float64(g.Initial.W)*g.CellWidth + float64(g.Initial.W-1)*g.ColumnGap + (x - g.StartX)
	h = float64(g.Initial.H)*g.CellHeight + float64(g.Initial.H-1)*g.RowGap + (y - g.StartY)
	return math.Max(w, g.CellWidth), math.Max(h, g.CellHeight)
}

// MeasuredCellSize returns the pixel size of one uniform cell in container,
// net of gaps.
func MeasuredCellSize(container Box, cfg Config) (w, h float64) {
	if cfg.Columns < 1 || cfg.Rows < 1 {
		return 0, 0
	}
	w = (container.Width - cfg.ColumnGap*float64(cfg.Columns-1)) / float64(cfg.Columns)
	h = (container.Height - cfg.RowGap*float64(cfg.Rows-1)) / float64(cfg.Rows)
	return w, h
}
