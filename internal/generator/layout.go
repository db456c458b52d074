package generator

import (
	"fmt"

	"github.com/wcatz/grid-generator/internal/config"
	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/palette"
)

// LayoutBuilder turns layout definitions from the config file into placed
// grid snapshots. Items with explicit geometry are checked against the items
// before them; items without are given the first free slot of their size.
type LayoutBuilder struct {
	cfg    *config.Config
	colors *palette.Cycle
}

// NewLayoutBuilder creates a builder. Items without a colour draw from the
// config's active palette, seeded from the generator settings so repeated
// runs produce the same output.
func NewLayoutBuilder(cfg *config.Config) (*LayoutBuilder, error) {
	colors, err := cfg.PaletteColors()
	if err != nil {
		return nil, err
	}
	return &LayoutBuilder{
		cfg:    cfg,
		colors: palette.NewCycle(colors, cfg.GetGenerator().Seed),
	}, nil
}

// Build places every item of the named layout.
func (lb *LayoutBuilder) Build(name string) (*grid.Snapshot, error) {
	gc, err := lb.cfg.GridConfig(name)
	if err != nil {
		return nil, err
	}
	l, ok := lb.cfg.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout '%s' not defined in config", name)
	}
	lb.colors.Reset()

	items := make([]grid.Item, 0, len(l.Items))
	for i, def := range l.Items {
		id := def.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", i+1)
		}
		r, explicit, err := def.Rect()
		if err != nil {
			return nil, fmt.Errorf("layout '%s': %w", name, err)
		}
		if explicit {
			if err := grid.Legal(r, items, "", gc); err != nil {
				return nil, fmt.Errorf("layout '%s' item '%s': %w", name, id, err)
			}
		} else {
			w, h := def.Size()
			r, err = grid.FindFreeSlot(items, gc, w, h)
			if err != nil {
				return nil, fmt.Errorf("layout '%s' item '%s': %w", name, id, err)
			}
		}

		content := def.Content
		if content == "" {
			content = fmt.Sprintf("Item %d", i+1)
		}
		color := lb.cfg.ResolveColor(def.Color)
		if color == "" {
			color = lb.colors.Next()
		}
		items = append(items, grid.Item{ID: id, Rect: r, Content: content, Color: color})
	}

	if err := grid.Check(items, gc); err != nil {
		return nil, fmt.Errorf("layout '%s': %w", name, err)
	}
	return &grid.Snapshot{Config: gc, Items: grid.Compact(items, gc)}, nil
}
