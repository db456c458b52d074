package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseDragEnd decodes a drag-end payload shaped {active:{id,rect,data},
// over:{id,data}}. Browser drag libraries nest the interesting parts
// differently between versions, so every field is looked up along a few
// paths and missing pieces are left zero. Only a missing active id or an
// unclassifiable target is an error.
func ParseDragEnd(payload []byte) (DragEnd, error) {
	if !gjson.ValidBytes(payload) {
		return DragEnd{}, fmt.Errorf("%w: not JSON", ErrInvalidEvent)
	}
	doc := gjson.ParseBytes(payload)

	var ev DragEnd
	ev.ActiveID = first(doc,
		"active.id",
		"active.data.current.item.id",
		"active.data.item.id",
	).String()
	if ev.ActiveID == "" {
		return DragEnd{}, fmt.Errorf("%w: missing active.id", ErrInvalidEvent)
	}

	if rect := first(doc,
		"active.rect.current.translated",
		"active.rect.translated",
		"active.rect",
	); rect.IsObject() {
		box := parseBox(rect)
		ev.ActiveRect = &box
	}

	over := doc.Get("over")
	if !over.Exists() || over.Type == gjson.Null {
		return ev, nil
	}
	data := first(over, "data.current", "data")
	target := DropTarget{
		ID:   over.Get("id").String(),
		Kind: TargetKind(data.Get("type").String()),
	}

	switch {
	case target.Kind == TargetItem:
		if id := data.Get("item.id").String(); id != "" {
			target.ID = id
		}
	case target.Kind == TargetCell || strings.HasPrefix(target.ID, "cell-"):
		target.Kind = TargetCell
		target.Row = int(data.Get("row").Int())
		target.Col = int(data.Get("col").Int())
		if target.Row == 0 || target.Col == 0 {
			row, col, ok := parseCellID(target.ID)
			if !ok {
				return DragEnd{}, fmt.Errorf("%w: cell target '%s' without row/col", ErrInvalidEvent, target.ID)
			}
			target.Row, target.Col = row, col
		}
	case target.Kind == TargetContainer || target.ID == string(TargetContainer):
		target.Kind = TargetContainer
	case target.Kind == "" && target.ID != "":
		// A bare id is taken to be another item; the resolver checks it.
	default:
		return DragEnd{}, fmt.Errorf("%w: unknown target type '%s'", ErrInvalidEvent, target.Kind)
	}
	ev.Over = &target
	return ev, nil
}

func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func parseBox(r gjson.Result) Box {
	return Box{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

// parseCellID reads "cell-<row>-<col>" with 1-based indexes.
func parseCellID(id string) (row, col int, ok bool) {
	parts := strings.Split(strings.TrimPrefix(id, "cell-"), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	row, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || row < 1 || col < 1 {
		return 0, 0, false
	}
	return row, col, true
}
