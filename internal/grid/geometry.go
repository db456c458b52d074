package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMultiplier scales fractional weights to integer sub-units, giving
// one decimal of precision.
const DefaultMultiplier = 10

// Rect is the canonical item rectangle: 0-based origin, size in tracks,
// covering [X, X+W) x [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the exclusive right column.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom row.
func (r Rect) Bottom() int { return r.Y + r.H }

// Position converts r to 1-based span form.
func (r Rect) Position() Position {
	return Position{
		ColumnStart: r.X + 1,
		ColumnEnd:   r.X + r.W + 1,
		RowStart:    r.Y + 1,
		RowEnd:      r.Y + r.H + 1,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Position is the span form: 1-based grid lines, end exclusive.
type Position struct {
	ColumnStart int `json:"columnStart"`
	ColumnEnd   int `json:"columnEnd"`
	RowStart    int `json:"rowStart"`
	RowEnd      int `json:"rowEnd"`
}

// Rect converts p to origin/size form.
func (p Position) Rect() Rect {
	return Rect{
		X: p.ColumnStart - 1,
		Y: p.RowStart - 1,
		W: p.ColumnEnd - p.ColumnStart,
		H: p.RowEnd - p.RowStart,
	}
}

// ParseSpan parses one axis of a span, "start / end" or "start-end".
func ParseSpan(s string) (start, end int, err error) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("%w: '%s' has no separator", ErrParse, s)
	}
	start, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: '%s': bad start", ErrParse, s)
	}
	end, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: '%s': bad end", ErrParse, s)
	}
	if start < 1 || end <= start {
		return 0, 0, fmt.Errorf("%w: '%s': need 1 <= start < end", ErrParse, s)
	}
	return start, end, nil
}

// ParsePosition parses the column and row spans of an item.
func ParsePosition(column, row string) (Position, error) {
	cs, ce, err := ParseSpan(column)
	if err != nil {
		return Position{}, fmt.Errorf("column: %w", err)
	}
	rs, re, err := ParseSpan(row)
	if err != nil {
		return Position{}, fmt.Errorf("row: %w", err)
	}
	return Position{ColumnStart: cs, ColumnEnd: ce, RowStart: rs, RowEnd: re}, nil
}

// FormatSpan renders one axis as "start / end".
func FormatSpan(start, end int) string {
	return strconv.Itoa(start) + " / " + strconv.Itoa(end)
}

// FormatPosition renders p as its column and row span strings.
func FormatPosition(p Position) (column, row string) {
	return FormatSpan(p.ColumnStart, p.ColumnEnd), FormatSpan(p.RowStart, p.RowEnd)
}

// ScaleWeights converts fractional weights to sub-unit counts.
func ScaleWeights(weights []float64, multiplier int) []int {
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}
	scaled := make([]int, len(weights))
	for i, w := range weights {
		scaled[i] = int(math.Round(w * float64(multiplier)))
	}
	return scaled
}

// WeightedOffsets returns the sub-unit offset at which each track starts:
// the prefix sums of the scaled weights, beginning at 0.
func WeightedOffsets(weights []float64, multiplier int) []int {
	scaled := ScaleWeights(weights, multiplier)
	offsets := make([]int, len(scaled))
	for i := 1; i < len(scaled); i++ {
		offsets[i] = offsets[i-1] + scaled[i-1]
	}
	return offsets
}

func sumInts(vs []int) int {
	total := 0
	for _, v := range vs {
		total += v
	}
	return total
}

// GridAreas returns a rows x columns matrix of "." placeholders.
func GridAreas(cfg Config) [][]string {
	areas := make([][]string, cfg.Rows)
	for r := range areas {
		row := make([]string, cfg.Columns)
		for c := range row {
			row[c] = "."
		}
		areas[r] = row
	}
	return areas
}
