package grid

import "fmt"

// MaxTracks bounds columns and rows so occupancy scans stay small.
const MaxTracks = 100

// CompactType selects the direction items slide after a change.
type CompactType string

const (
	CompactNone       CompactType = ""
	CompactVertical   CompactType = "vertical"
	CompactHorizontal CompactType = "horizontal"
)

// Config is the grid configuration. It is replaced as a whole value; nothing
// mutates a Config that has been published on a board.
type Config struct {
	Columns   int       `json:"columns"`
	Rows      int       `json:"rows"`
	ColumnGap float64   `json:"columnGap"`
	RowGap    float64   `json:"rowGap"`
	ColumnFr  []float64 `json:"columnFr,omitempty"`
	RowFr     []float64 `json:"rowFr,omitempty"`

	// PreventCollision rejects moves that land on other items. When false,
	// displaced items are re-homed with the placement finder instead.
	PreventCollision bool        `json:"preventCollision"`
	AllowOverlap     bool        `json:"allowOverlap"`
	CompactType      CompactType `json:"compactType,omitempty"`
}

// DefaultConfig returns the 4x4 grid with 16px gaps that a fresh board starts with.
func DefaultConfig() Config {
	return Config{
		Columns:          4,
		Rows:             4,
		ColumnGap:        16,
		RowGap:           16,
		PreventCollision: true,
	}
}

// Weighted reports whether fractional column or row weights are active.
func (c Config) Weighted() bool {
	return len(c.ColumnFr) > 0 || len(c.RowFr) > 0
}

// Validate checks the config without changing it.
func (c Config) Validate() error {
	if c.Columns < 1 || c.Columns > MaxTracks {
		return fmt.Errorf("%w: columns must be 1..%d, got %d", ErrInvalidConfig, MaxTracks, c.Columns)
	}
	if c.Rows < 1 || c.Rows > MaxTracks {
		return fmt.Errorf("%w: rows must be 1..%d, got %d", ErrInvalidConfig, MaxTracks, c.Rows)
	}
	if c.ColumnGap < 0 || c.RowGap < 0 {
		return fmt.Errorf("%w: gaps must be non-negative", ErrInvalidConfig)
	}
	if err := validateWeights("columnFr", c.ColumnFr, c.Columns); err != nil {
		return err
	}
	if err := validateWeights("rowFr", c.RowFr, c.Rows); err != nil {
		return err
	}
	switch c.CompactType {
	case CompactNone, CompactVertical, CompactHorizontal:
	default:
		return fmt.Errorf("%w: unknown compact type '%s'", ErrInvalidConfig, c.CompactType)
	}
	return nil
}

func validateWeights(name string, weights []float64, n int) error {
	if len(weights) == 0 {
		return nil
	}
	if len(weights) != n {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalidConfig, name, len(weights), n)
	}
	for i, w := range weights {
		if w <= 0 {
			return fmt.Errorf("%w: %s[%d] = %v, must be positive", ErrInvalidConfig, name, i, w)
		}
	}
	return nil
}

// Normalize returns a copy with every field clamped into range: tracks to
// 1..MaxTracks, negative gaps to zero, weight lists padded or cut to the
// track count with non-positive weights replaced by 1.
func (c Config) Normalize() Config {
	out := c
	out.Columns = clamp(c.Columns, 1, MaxTracks)
	out.Rows = clamp(c.Rows, 1, MaxTracks)
	if out.ColumnGap < 0 {
		out.ColumnGap = 0
	}
	if out.RowGap < 0 {
		out.RowGap = 0
	}
	out.ColumnFr = normalizeWeights(c.ColumnFr, out.Columns)
	out.RowFr = normalizeWeights(c.RowFr, out.Rows)
	switch out.CompactType {
	case CompactVertical, CompactHorizontal:
	default:
		out.CompactType = CompactNone
	}
	return out
}

func normalizeWeights(weights []float64, n int) []float64 {
	if len(weights) == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
		if i < len(weights) && weights[i] > 0 {
			out[i] = weights[i]
		}
	}
	return out
}

func (c Config) clone() Config {
	out := c
	if c.ColumnFr != nil {
		out.ColumnFr = append([]float64(nil), c.ColumnFr...)
	}
	if c.RowFr != nil {
		out.RowFr = append([]float64(nil), c.RowFr...)
	}
	return out
}

// ConfigPatch carries a partial config update; nil fields are left alone.
type ConfigPatch struct {
	Columns          *int         `json:"columns,omitempty"`
	Rows             *int         `json:"rows,omitempty"`
	ColumnGap        *float64     `json:"columnGap,omitempty"`
	RowGap           *float64     `json:"rowGap,omitempty"`
	ColumnFr         *[]float64   `json:"columnFr,omitempty"`
	RowFr            *[]float64   `json:"rowFr,omitempty"`
	PreventCollision *bool        `json:"preventCollision,omitempty"`
	AllowOverlap     *bool        `json:"allowOverlap,omitempty"`
	CompactType      *CompactType `json:"compactType,omitempty"`
}

// Apply merges the patch over c and returns the result.
func (p ConfigPatch) Apply(c Config) Config {
	out := c.clone()
	if p.Columns != nil {
		out.Columns = *p.Columns
	}
	if p.Rows != nil {
		out.Rows = *p.Rows
	}
	if p.ColumnGap != nil {
		out.ColumnGap = *p.ColumnGap
	}
	if p.RowGap != nil {
		out.RowGap = *p.RowGap
	}
	if p.ColumnFr != nil {
		out.ColumnFr = append([]float64(nil), (*p.ColumnFr)...)
	}
	if p.RowFr != nil {
		out.RowFr = append([]float64(nil), (*p.RowFr)...)
	}
	if p.PreventCollision != nil {
		out.PreventCollision = *p.PreventCollision
	}
	if p.AllowOverlap != nil {
		out.AllowOverlap = *p.AllowOverlap
	}
	if p.CompactType != nil {
		out.CompactType = *p.CompactType
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
