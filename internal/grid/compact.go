package grid

import "sort"

// Compact slides items toward the top (vertical) or left (horizontal) edge
// one cell at a time while each step stays legal. It works on a copy.
func Compact(items []Item, cfg Config) []Item {
	if cfg.CompactType == CompactNone || cfg.AllowOverlap {
		return items
	}
	out := cloneItems(items)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	vertical := cfg.CompactType == CompactVertical
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := out[order[a]].Rect, out[order[b]].Rect
		if vertical {
			if ra.Y != rb.Y {
				return ra.Y < rb.Y
			}
			return ra.X < rb.X
		}
		if ra.X != rb.X {
			return ra.X < rb.X
		}
		return ra.Y < rb.Y
	})

	for _, idx := range order {
		for {
			next := out[idx].Rect
			if vertical {
				next.Y--
			} else {
				next.X--
			}
			if Legal(next, out, out[idx].ID, cfg) != nil {
				break
			}
			out[idx].Rect = next
		}
	}
	return out
}
