package grid

import (
	"errors"
	"fmt"
)

// TargetKind classifies what a drag was released over.
type TargetKind string

const (
	TargetItem      TargetKind = "grid-item"
	TargetCell      TargetKind = "grid-cell"
	TargetContainer TargetKind = "grid-container"
)

// DropTarget describes the element under the pointer at release. Row and Col
// are 1-based and only meaningful for cell targets.
type DropTarget struct {
	ID   string     `json:"id"`
	Kind TargetKind `json:"type"`
	Row  int        `json:"row,omitempty"`
	Col  int        `json:"col,omitempty"`
}

// DragEnd is a decoded drag-end event. ActiveRect is the dragged element's
// final pixel box; it is only needed for container drops.
type DragEnd struct {
	ActiveID   string      `json:"activeId"`
	ActiveRect *Box        `json:"activeRect,omitempty"`
	Over       *DropTarget `json:"over,omitempty"`
}

// Action is what a resolved drag did.
type Action string

const (
	ActionNone Action = "none"
	ActionSwap Action = "swap"
	ActionMove Action = "move"
)

// Outcome reports the result of a drag. A rejected drag has ActionNone and
// Reason set; the item set is unchanged.
type Outcome struct {
	Action    Action   `json:"action"`
	ItemID    string   `json:"itemId,omitempty"`
	TargetID  string   `json:"targetId,omitempty"`
	Rect      Rect     `json:"rect"`
	Displaced []string `json:"displaced,omitempty"`
	Reason    error    `json:"-"`
}

// Applied reports whether the drag changed the layout.
func (o Outcome) Applied() bool { return o.Action != ActionNone }

// Message returns the rejection reason as text, or "" when applied.
func (o Outcome) Message() string {
	if o.Reason == nil {
		return ""
	}
	return o.Reason.Error()
}

func rejected(id string, err error) Outcome {
	return Outcome{Action: ActionNone, ItemID: id, Reason: err}
}

// Resolver turns drag-end events into new item sets. It holds no gesture
// state and is safe for concurrent use.
type Resolver struct {
	Mapper CellMapper
}

// Resolve applies ev to items. The returned slice is a fresh copy when the
// drag applied and the original slice otherwise.
//
// Targets are tried in order: another item swaps rectangles with the dragged
// one; a cell anchors the dragged item's size at that cell; the container is
// mapped to a cell with the resolver's Mapper and handled like a cell drop.
func (res Resolver) Resolve(items []Item, cfg Config, ev DragEnd, container Box) ([]Item, Outcome) {
	if ev.ActiveID == "" || ev.Over == nil {
		return items, rejected(ev.ActiveID, fmt.Errorf("%w: missing active item or drop target", ErrInvalidEvent))
	}
	src := indexOf(items, ev.ActiveID)
	if src < 0 {
		return items, rejected(ev.ActiveID, fmt.Errorf("%w: '%s'", ErrItemNotFound, ev.ActiveID))
	}
	over := *ev.Over

	if over.Kind == TargetItem || (over.Kind == "" && indexOf(items, over.ID) >= 0) {
		return swap(items, src, over.ID)
	}

	var cell Cell
	switch over.Kind {
	case TargetCell:
		cell = Cell{Row: over.Row, Col: over.Col}
	case TargetContainer:
		if ev.ActiveRect == nil {
			return items, rejected(ev.ActiveID, fmt.Errorf("%w: container drop without a rectangle", ErrInvalidEvent))
		}
		mapper := res.Mapper
		if mapper == nil {
			mapper = CenterCell{}
		}
		var ok bool
		cell, ok = mapper.MapCell(*ev.ActiveRect, container, cfg)
		if !ok {
			return items, rejected(ev.ActiveID, fmt.Errorf("%w: no cell under drop", ErrOutOfBounds))
		}
	default:
		return items, rejected(ev.ActiveID, fmt.Errorf("%w: unknown drop target '%s'", ErrInvalidEvent, over.Kind))
	}

	cur := items[src].Rect
	candidate := Rect{X: cell.Col - 1, Y: cell.Row - 1, W: cur.W, H: cur.H}
	out, displaced, err := moveItem(items, cfg, src, candidate)
	if err != nil {
		return items, rejected(ev.ActiveID, err)
	}
	return out, Outcome{
		Action:    ActionMove,
		ItemID:    ev.ActiveID,
		TargetID:  over.ID,
		Rect:      candidate,
		Displaced: displaced,
	}
}

// swap exchanges the rectangles of the item at src and the item targetID.
func swap(items []Item, src int, targetID string) ([]Item, Outcome) {
	id := items[src].ID
	dst := indexOf(items, targetID)
	if dst < 0 {
		return items, rejected(id, fmt.Errorf("%w: swap target '%s'", ErrItemNotFound, targetID))
	}
	if dst == src {
		return items, rejected(id, fmt.Errorf("%w: dropped on itself", ErrInvalidEvent))
	}
	out := cloneItems(items)
	out[src].Rect, out[dst].Rect = items[dst].Rect, items[src].Rect
	return out, Outcome{Action: ActionSwap, ItemID: id, TargetID: targetID, Rect: out[src].Rect}
}

// moveItem places the item at idx on candidate. A collision rejects the move
// unless PreventCollision is off, in which case every displaced item is
// re-homed with the placement finder; if any of them cannot be placed the
// move is rejected as a whole.
func moveItem(items []Item, cfg Config, idx int, candidate Rect) ([]Item, []string, error) {
	id := items[idx].ID
	err := Legal(candidate, items, id, cfg)
	if err == nil {
		out := cloneItems(items)
		out[idx].Rect = candidate
		return out, nil, nil
	}
	if cfg.PreventCollision || !errors.Is(err, ErrCollision) {
		return nil, nil, err
	}

	hits := collisions(candidate, items, id)
	out := cloneItems(items)
	out[idx].Rect = candidate
	pending := make(map[string]bool, len(hits))
	for _, h := range hits {
		pending[out[h].ID] = true
	}
	displaced := make([]string, 0, len(hits))
	for _, h := range hits {
		settled := make([]Item, 0, len(out))
		for _, it := range out {
			if !pending[it.ID] {
				settled = append(settled, it)
			}
		}
		slot, ok := findExactSlot(settled, cfg, out[h].W, out[h].H)
		if !ok {
			return nil, nil, fmt.Errorf("displace '%s': %w: %dx%d", out[h].ID, ErrNoFreeSlot, out[h].W, out[h].H)
		}
		out[h].Rect = slot
		delete(pending, out[h].ID)
		displaced = append(displaced, out[h].ID)
	}
	return out, displaced, nil
}
