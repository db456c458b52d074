package grid

// Item is a placed rectangle on the grid.
type Item struct {
	ID string `json:"id"`
	Rect
	Content string `json:"content"`
	Color   string `json:"backgroundColor,omitempty"`

	// PixelWidth and PixelHeight override span sizing while a resize gesture
	// is in flight. Zero means unset.
	PixelWidth  float64 `json:"width,omitempty"`
	PixelHeight float64 `json:"height,omitempty"`
}

// GridColumn returns the column span string, e.g. "1 / 3".
func (it Item) GridColumn() string {
	p := it.Position()
	return FormatSpan(p.ColumnStart, p.ColumnEnd)
}

// GridRow returns the row span string.
func (it Item) GridRow() string {
	p := it.Position()
	return FormatSpan(p.RowStart, p.RowEnd)
}

// ItemPatch is a partial item update. Column and Row take span strings and
// win over Rect when both are set.
type ItemPatch struct {
	Rect    *Rect   `json:"rect,omitempty"`
	Column  *string `json:"gridColumn,omitempty"`
	Row     *string `json:"gridRow,omitempty"`
	Content *string `json:"content,omitempty"`
	Color   *string `json:"backgroundColor,omitempty"`
}

// geometry returns the rectangle the patch asks for, or ok=false when the
// patch leaves geometry alone.
func (p ItemPatch) geometry(current Rect) (r Rect, ok bool, err error) {
	if p.Column != nil || p.Row != nil {
		cur := current.Position()
		col := FormatSpan(cur.ColumnStart, cur.ColumnEnd)
		row := FormatSpan(cur.RowStart, cur.RowEnd)
		if p.Column != nil {
			col = *p.Column
		}
		if p.Row != nil {
			row = *p.Row
		}
		pos, err := ParsePosition(col, row)
		if err != nil {
			return Rect{}, false, err
		}
		return pos.Rect(), true, nil
	}
	if p.Rect != nil {
		return *p.Rect, true, nil
	}
	return Rect{}, false, nil
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	return append([]Item(nil), items...)
}
