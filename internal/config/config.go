package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/palette"
)

// Export formats understood by the generator.
const (
	FormatCSS      = "css"
	FormatHTML     = "html"
	FormatTailwind = "tailwind"
)

// Drop strategies for free-form container drops.
const (
	DropCenter  = "center"
	DropOverlap = "overlap"
)

// GeneratorSettings holds global generator config.
type GeneratorSettings struct {
	OutputDir        string   `yaml:"output_dir"`
	ClassPrefix      string   `yaml:"class_prefix"`
	Formats          []string `yaml:"formats"`
	DropStrategy     string   `yaml:"drop_strategy"`
	OverlapThreshold float64  `yaml:"overlap_threshold"`
	ResizeCellSize   *float64 `yaml:"resize_cell_size"`
	FrMultiplier     int      `yaml:"fr_multiplier"`
	Seed             int64    `yaml:"seed"`
}

// GridDef is a grid block from config YAML. Unset fields inherit from the
// enclosing level.
type GridDef struct {
	Columns          int       `yaml:"columns"`
	Rows             int       `yaml:"rows"`
	ColumnGap        *float64  `yaml:"column_gap"`
	RowGap           *float64  `yaml:"row_gap"`
	ColumnFr         []float64 `yaml:"column_fr"`
	RowFr            []float64 `yaml:"row_fr"`
	PreventCollision *bool     `yaml:"prevent_collision"`
	AllowOverlap     *bool     `yaml:"allow_overlap"`
	CompactType      string    `yaml:"compact_type"`
}

// ItemDef is one item of a layout. Geometry is given either as span strings
// (column/row) or as x/y/w/h; with neither the item is auto-placed.
type ItemDef struct {
	ID      string `yaml:"id"`
	Column  string `yaml:"column,omitempty"`
	Row     string `yaml:"row,omitempty"`
	X       *int   `yaml:"x,omitempty"`
	Y       *int   `yaml:"y,omitempty"`
	W       int    `yaml:"w,omitempty"`
	H       int    `yaml:"h,omitempty"`
	Content string `yaml:"content,omitempty"`
	Color   string `yaml:"color,omitempty"`
}

// ProfileDef is a named layout subset.
type ProfileDef struct {
	Layouts []string `yaml:"layouts"`
}

// LayoutConfig is a single layout definition.
type LayoutConfig struct {
	Title       string    `yaml:"title"`
	Filename    string    `yaml:"filename"`
	Description string    `yaml:"description"`
	Grid        *GridDef  `yaml:"grid"`
	Items       []ItemDef `yaml:"items"`
}

// Config holds the entire YAML configuration.
type Config struct {
	Generator     GeneratorSettings            `yaml:"generator"`
	Grid          GridDef                      `yaml:"grid"`
	Palettes      map[string]map[string]string `yaml:"palettes"`
	ActivePalette string                       `yaml:"active_palette"`
	Profiles      map[string]ProfileDef        `yaml:"profiles"`
	Layouts       map[string]LayoutConfig      `yaml:"layouts"`

	palette      map[string]string
	paletteOrder []string
	cliArgs      map[string]string
	layoutOrder  []string
}

// Load reads and parses a YAML config file.
func Load(path string, cliArgs map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c, err := loadFromData(data, cliArgs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromBytes parses a YAML config from raw bytes (for validation).
func LoadFromBytes(data []byte) (*Config, error) {
	return loadFromData(data, nil)
}

func loadFromData(data []byte, cliArgs map[string]string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	c.layoutOrder = parseKeyOrder(data, "layouts")

	c.cliArgs = cliArgs
	if c.cliArgs == nil {
		c.cliArgs = make(map[string]string)
	}
	c.palette = c.resolvePalette()
	c.paletteOrder = parseKeyOrder(data, "palettes", c.ActivePalette)

	return &c, nil
}

func (c *Config) resolvePalette() map[string]string {
	if c.Palettes == nil {
		return map[string]string{}
	}
	p, ok := c.Palettes[c.ActivePalette]
	if !ok {
		return map[string]string{}
	}
	return p
}

// GetGenerator returns generator settings with defaults filled in and CLI
// overrides applied.
func (c *Config) GetGenerator() GeneratorSettings {
	g := c.Generator
	if v, ok := c.cliArgs["output_dir"]; ok && v != "" {
		g.OutputDir = v
	}
	if g.OutputDir == "" {
		g.OutputDir = "output"
	}
	if g.ClassPrefix == "" {
		g.ClassPrefix = "grid"
	}
	if len(g.Formats) == 0 {
		g.Formats = []string{FormatCSS, FormatHTML, FormatTailwind}
	}
	if g.DropStrategy == "" {
		g.DropStrategy = DropCenter
	}
	if g.OverlapThreshold <= 0 {
		g.OverlapThreshold = grid.DefaultOverlapThreshold
	}
	if g.ResizeCellSize == nil {
		size := float64(grid.DefaultResizeCellSize)
		g.ResizeCellSize = &size
	}
	if g.FrMultiplier <= 0 {
		g.FrMultiplier = grid.DefaultMultiplier
	}
	return g
}

// Mapper returns the cell mapper selected by drop_strategy.
func (c *Config) Mapper() (grid.CellMapper, error) {
	g := c.GetGenerator()
	switch g.DropStrategy {
	case DropCenter:
		return grid.CenterCell{Multiplier: g.FrMultiplier}, nil
	case DropOverlap:
		return grid.MaxOverlap{Threshold: g.OverlapThreshold, Multiplier: g.FrMultiplier}, nil
	default:
		return nil, fmt.Errorf("unknown drop_strategy '%s'", g.DropStrategy)
	}
}

// BoardOptions returns the grid.Board options the generator settings imply.
func (c *Config) BoardOptions() ([]grid.Option, error) {
	g := c.GetGenerator()
	mapper, err := c.Mapper()
	if err != nil {
		return nil, err
	}
	colors, err := c.PaletteColors()
	if err != nil {
		return nil, err
	}
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []grid.Option{
		grid.WithMapper(mapper),
		grid.WithResizeCellSize(*g.ResizeCellSize),
		grid.WithMultiplier(g.FrMultiplier),
		grid.WithPalette(palette.NewCycle(colors, seed)),
	}, nil
}

// GridConfig returns the grid config for a layout: the defaults, then the
// top-level grid block, then the layout's own. An empty name gives the
// project-wide grid.
func (c *Config) GridConfig(name string) (grid.Config, error) {
	cfg := grid.DefaultConfig()
	applyGridDef(&cfg, c.Grid)
	if name != "" {
		l, ok := c.Layouts[name]
		if !ok {
			return grid.Config{}, fmt.Errorf("layout '%s' not defined in config", name)
		}
		if l.Grid != nil {
			applyGridDef(&cfg, *l.Grid)
		}
	}
	if err := cfg.Validate(); err != nil {
		if name == "" {
			return grid.Config{}, fmt.Errorf("grid: %w", err)
		}
		return grid.Config{}, fmt.Errorf("layout '%s': %w", name, err)
	}
	return cfg, nil
}

func applyGridDef(cfg *grid.Config, d GridDef) {
	if d.Columns != 0 {
		cfg.Columns = d.Columns
	}
	if d.Rows != 0 {
		cfg.Rows = d.Rows
	}
	if d.ColumnGap != nil {
		cfg.ColumnGap = *d.ColumnGap
	}
	if d.RowGap != nil {
		cfg.RowGap = *d.RowGap
	}
	if d.ColumnFr != nil {
		cfg.ColumnFr = append([]float64(nil), d.ColumnFr...)
	}
	if d.RowFr != nil {
		cfg.RowFr = append([]float64(nil), d.RowFr...)
	}
	if d.PreventCollision != nil {
		cfg.PreventCollision = *d.PreventCollision
	}
	if d.AllowOverlap != nil {
		cfg.AllowOverlap = *d.AllowOverlap
	}
	if d.CompactType != "" {
		cfg.CompactType = grid.CompactType(d.CompactType)
	}
}

// Rect returns the item's geometry. ok is false when the item gives none
// and should be auto-placed with size Size().
func (d ItemDef) Rect() (r grid.Rect, ok bool, err error) {
	if d.Column != "" || d.Row != "" {
		col, row := d.Column, d.Row
		if col == "" {
			col = "1 / 2"
		}
		if row == "" {
			row = "1 / 2"
		}
		p, err := grid.ParsePosition(col, row)
		if err != nil {
			return grid.Rect{}, false, fmt.Errorf("item '%s': %w", d.ID, err)
		}
		return p.Rect(), true, nil
	}
	if d.X != nil || d.Y != nil {
		w, h := d.Size()
		r := grid.Rect{W: w, H: h}
		if d.X != nil {
			r.X = *d.X
		}
		if d.Y != nil {
			r.Y = *d.Y
		}
		return r, true, nil
	}
	return grid.Rect{}, false, nil
}

// Size returns the item's width and height, at least 1x1.
func (d ItemDef) Size() (w, h int) {
	return max(d.W, 1), max(d.H, 1)
}

// PaletteColors returns the active palette's colours in file order, or the
// built-in palette when none is active.
func (c *Config) PaletteColors() ([]string, error) {
	if len(c.palette) == 0 {
		return append([]string(nil), palette.Default...), nil
	}
	colors := make([]string, 0, len(c.palette))
	for _, name := range c.paletteOrder {
		if hex, ok := c.palette[name]; ok {
			colors = append(colors, hex)
		}
	}
	if len(colors) != len(c.palette) {
		colors = colors[:0]
		for _, hex := range c.palette {
			colors = append(colors, hex)
		}
	}
	out, err := palette.NormalizeAll(colors)
	if err != nil {
		return nil, fmt.Errorf("palette '%s': %w", c.ActivePalette, err)
	}
	return out, nil
}

// GetLayouts returns layouts, optionally filtered by profile.
func (c *Config) GetLayouts(profile string) (map[string]LayoutConfig, error) {
	if profile == "" {
		return c.Layouts, nil
	}
	p, ok := c.Profiles[profile]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not defined in config", profile)
	}
	filtered := make(map[string]LayoutConfig)
	nameSet := make(map[string]bool)
	for _, n := range p.Layouts {
		nameSet[n] = true
	}
	for k, v := range c.Layouts {
		if nameSet[k] {
			filtered[k] = v
		}
	}
	return filtered, nil
}

// GetLayoutOrder returns layout names in the order they appear in a profile,
// or all layout names in file order if no profile is specified.
func (c *Config) GetLayoutOrder(profile string) ([]string, error) {
	if profile != "" {
		p, ok := c.Profiles[profile]
		if !ok {
			return nil, fmt.Errorf("profile '%s' not defined in config", profile)
		}
		return p.Layouts, nil
	}
	if len(c.layoutOrder) > 0 {
		return c.layoutOrder, nil
	}
	keys := make([]string, 0, len(c.Layouts))
	for k := range c.Layouts {
		keys = append(keys, k)
	}
	return keys, nil
}

// Validate checks everything that can be checked without placing items:
// generator settings, every grid block, item geometry syntax and profile
// references.
func (c *Config) Validate() error {
	g := c.GetGenerator()
	for _, f := range g.Formats {
		switch f {
		case FormatCSS, FormatHTML, FormatTailwind:
		default:
			return fmt.Errorf("unknown format '%s'", f)
		}
	}
	if _, err := c.Mapper(); err != nil {
		return err
	}
	if _, err := c.PaletteColors(); err != nil {
		return err
	}
	if _, err := c.GridConfig(""); err != nil {
		return err
	}
	for name, l := range c.Layouts {
		if _, err := c.GridConfig(name); err != nil {
			return err
		}
		seen := make(map[string]bool)
		for i, it := range l.Items {
			if it.ID != "" && seen[it.ID] {
				return fmt.Errorf("layout '%s': duplicate item id '%s'", name, it.ID)
			}
			seen[it.ID] = true
			if _, _, err := it.Rect(); err != nil {
				return fmt.Errorf("layout '%s' item %d: %w", name, i, err)
			}
		}
	}
	for pname, p := range c.Profiles {
		for _, l := range p.Layouts {
			if _, ok := c.Layouts[l]; !ok {
				return fmt.Errorf("profile '%s': layout '%s' not defined", pname, l)
			}
		}
	}
	return nil
}

// parseKeyOrder extracts the key order of the mapping at path from raw YAML.
func parseKeyOrder(data []byte, path ...string) []string {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil
	}
	cur := node.Content[0]
	for _, key := range path {
		cur = findMappingKey(cur, key)
		if cur == nil {
			return nil
		}
	}
	if cur.Kind != yaml.MappingNode {
		return nil
	}
	var order []string
	for j := 0; j < len(cur.Content)-1; j += 2 {
		order = append(order, cur.Content[j].Value)
	}
	return order
}

func (c *Config) resolveColorName(name string) string {
	if hex, ok := c.palette[name]; ok {
		return hex
	}
	return name
}

// ResolveColor resolves a $color_name reference to a hex color.
func (c *Config) ResolveColor(value string) string {
	if strings.HasPrefix(value, "$") {
		return c.resolveColorName(value[1:])
	}
	return value
}
