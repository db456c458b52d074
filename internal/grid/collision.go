package grid

import "fmt"

// Overlaps reports whether a and b share any cell. Touching edges do not count.
func Overlaps(a, b Rect) bool {
	return a.X < b.Right() && a.Right() > b.X &&
		a.Y < b.Bottom() && a.Bottom() > b.Y
}

// Collides reports whether candidate overlaps any item other than excludeID.
func Collides(candidate Rect, others []Item, excludeID string) bool {
	return len(collisions(candidate, others, excludeID)) > 0
}

// collisions returns the indexes of the items candidate overlaps.
func collisions(candidate Rect, others []Item, excludeID string) []int {
	var hits []int
	for i, other := range others {
		if other.ID == excludeID {
			continue
		}
		if Overlaps(candidate, other.Rect) {
			hits = append(hits, i)
		}
	}
	return hits
}

// InBounds reports whether r is non-empty and lies inside the grid.
func InBounds(r Rect, cfg Config) bool {
	return r.W >= 1 && r.H >= 1 &&
		r.X >= 0 && r.Y >= 0 &&
		r.Right() <= cfg.Columns && r.Bottom() <= cfg.Rows
}

// InBounds reports whether the span lies within lines 1..columns+1 and 1..rows+1.
func (p Position) InBounds(cfg Config) bool {
	return p.ColumnStart >= 1 && p.ColumnEnd <= cfg.Columns+1 &&
		p.RowStart >= 1 && p.RowEnd <= cfg.Rows+1 &&
		p.ColumnEnd > p.ColumnStart && p.RowEnd > p.RowStart
}

// Legal returns nil when candidate may be placed for the item excludeID:
// it must be in bounds, and either overlap is allowed or nothing collides.
func Legal(candidate Rect, others []Item, excludeID string, cfg Config) error {
	if !InBounds(candidate, cfg) {
		return fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, candidate, cfg.Columns, cfg.Rows)
	}
	if cfg.AllowOverlap {
		return nil
	}
	if hits := collisions(candidate, others, excludeID); len(hits) > 0 {
		return fmt.Errorf("%w: %s hits '%s'", ErrCollision, candidate, others[hits[0]].ID)
	}
	return nil
}

// Check verifies the whole item set: unique ids, every rectangle in bounds,
// and no pair overlapping unless the config allows it.
func Check(items []Item, cfg Config) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidConfig, i)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: '%s'", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = true
		if !InBounds(it.Rect, cfg) {
			return fmt.Errorf("item '%s': %w: %s", it.ID, ErrOutOfBounds, it.Rect)
		}
		if cfg.AllowOverlap {
			continue
		}
		for _, prev := range items[:i] {
			if Overlaps(it.Rect, prev.Rect) {
				return fmt.Errorf("item '%s': %w: hits '%s'", it.ID, ErrCollision, prev.ID)
			}
		}
	}
	return nil
}
