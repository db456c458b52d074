package grid

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/wcatz/grid-generator/internal/palette"
)

// Snapshot is one published state of a board. Snapshots are never mutated
// after publication; readers may hold on to them freely.
type Snapshot struct {
	Config Config `json:"config"`
	Items  []Item `json:"items"`
}

// Item returns the item with the given id.
func (s *Snapshot) Item(id string) (Item, bool) {
	if i := indexOf(s.Items, id); i >= 0 {
		return s.Items[i], true
	}
	return Item{}, false
}

// Option configures a Board.
type Option func(*Board)

// WithMapper sets the cell mapper used for container drops.
func WithMapper(m CellMapper) Option {
	return func(b *Board) { b.resolver.Mapper = m }
}

// WithPalette sets the colour source for new items.
func WithPalette(c *palette.Cycle) Option {
	return func(b *Board) { b.colors = c }
}

// WithIDFunc overrides item id generation.
func WithIDFunc(fn func() string) Option {
	return func(b *Board) { b.newID = fn }
}

// WithResizeCellSize fixes the pixel size of one resize step. Zero measures
// the container passed to BeginResize instead.
func WithResizeCellSize(px float64) Option {
	return func(b *Board) { b.resizeCell = px }
}

// WithMultiplier sets the fr sub-unit multiplier.
func WithMultiplier(m int) Option {
	return func(b *Board) { b.multiplier = m }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// WithItems seeds the board. The items are checked in NewBoard.
func WithItems(items []Item) Option {
	return func(b *Board) { b.seed = cloneItems(items) }
}

// Board owns a grid config and its items. Writers are serialized; every
// change publishes a whole new Snapshot, so readers never see a half-applied
// swap or relocation.
type Board struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]

	resolver   Resolver
	colors     *palette.Cycle
	newID      func() string
	resizeCell float64
	multiplier int
	log        *slog.Logger
	seed       []Item

	gesture GestureState
	dragID  string
	resize  *ResizeGesture
}

// NewBoard returns a board for cfg.
func NewBoard(cfg Config, opts ...Option) (*Board, error) {
	b := &Board{
		resizeCell: DefaultResizeCellSize,
		multiplier: DefaultMultiplier,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.colors == nil {
		b.colors = palette.NewCycle(nil, 1)
	}
	if b.newID == nil {
		b.newID = func() string { return "item-" + uuid.NewString()[:8] }
	}
	if b.log == nil {
		b.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.resolver.Mapper == nil {
		b.resolver.Mapper = CenterCell{Multiplier: b.multiplier}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Check(b.seed, cfg); err != nil {
		return nil, fmt.Errorf("initial items: %w", err)
	}
	b.publish(cfg, b.seed)
	b.seed = nil
	return b, nil
}

// Snapshot returns the current state.
func (b *Board) Snapshot() *Snapshot {
	return b.snap.Load()
}

// Gesture returns the active gesture phase.
func (b *Board) Gesture() GestureState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gesture
}

func (b *Board) publish(cfg Config, items []Item) {
	if items == nil {
		items = []Item{}
	}
	b.snap.Store(&Snapshot{Config: cfg.clone(), Items: Compact(items, cfg)})
}

// AddRequest describes a new item. With Rect nil the item is placed in the
// first free W x H slot.
type AddRequest struct {
	ID      string `json:"id,omitempty"`
	Rect    *Rect  `json:"rect,omitempty"`
	W       int    `json:"w,omitempty"`
	H       int    `json:"h,omitempty"`
	Content string `json:"content,omitempty"`
	Color   string `json:"backgroundColor,omitempty"`
}

// AddItem inserts a new item and returns it.
func (b *Board) AddItem(req AddRequest) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	var r Rect
	if req.Rect != nil {
		r = *req.Rect
		if err := Legal(r, cur.Items, "", cur.Config); err != nil {
			b.log.Debug("add rejected", "rect", r.String(), "err", err)
			return Item{}, err
		}
	} else {
		var err error
		r, err = FindFreeSlot(cur.Items, cur.Config, req.W, req.H)
		if err != nil {
			b.log.Debug("add rejected", "w", req.W, "h", req.H, "err", err)
			return Item{}, err
		}
	}

	id := req.ID
	if id == "" {
		id = b.uniqueID(cur.Items)
	} else if indexOf(cur.Items, id) >= 0 {
		return Item{}, fmt.Errorf("%w: '%s'", ErrDuplicateID, id)
	}
	it := Item{
		ID:      id,
		Rect:    r,
		Content: req.Content,
		Color:   req.Color,
	}
	if it.Content == "" {
		it.Content = defaultContent(cur.Items)
	}
	if it.Color == "" {
		it.Color = b.colors.Next()
	}

	items := append(cloneItems(cur.Items), it)
	b.publish(cur.Config, items)
	b.log.Debug("item added", "id", id, "rect", r.String())
	it, _ = b.snap.Load().Item(id)
	return it, nil
}

// AddAtCell adds a 1x1 item at a 1-based cell, the "click an empty cell"
// action.
func (b *Board) AddAtCell(cell Cell) (Item, error) {
	return b.AddItem(AddRequest{Rect: &Rect{X: cell.Col - 1, Y: cell.Row - 1, W: 1, H: 1}})
}

func (b *Board) uniqueID(items []Item) string {
	for {
		id := b.newID()
		if indexOf(items, id) < 0 {
			return id
		}
	}
}

// defaultContent labels a new item "Item N", N counting from the item total
// past any label already on the board.
func defaultContent(items []Item) string {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.Content] = true
	}
	for n := len(items) + 1; ; n++ {
		if label := fmt.Sprintf("Item %d", n); !taken[label] {
			return label
		}
	}
}

// UpdateItem merges patch into the item id. Geometry changes are checked like
// a drop; a rejected change leaves the item untouched.
func (b *Board) UpdateItem(id string, patch ItemPatch) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	idx := indexOf(cur.Items, id)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
	}
	items := cur.Items
	if r, ok, err := patch.geometry(cur.Items[idx].Rect); err != nil {
		return Item{}, err
	} else if ok && r != cur.Items[idx].Rect {
		moved, _, err := moveItem(cur.Items, cur.Config, idx, r)
		if err != nil {
			b.log.Debug("update rejected", "id", id, "err", err)
			return Item{}, err
		}
		items = moved
	} else {
		items = cloneItems(items)
	}
	if patch.Content != nil {
		items[idx].Content = *patch.Content
	}
	if patch.Color != nil {
		items[idx].Color = *patch.Color
	}
	b.publish(cur.Config, items)
	it, _ := b.snap.Load().Item(id)
	return it, nil
}

// UpdateItems replaces every item at once. The whole list must be legal.
func (b *Board) UpdateItems(items []Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	if err := Check(items, cur.Config); err != nil {
		return err
	}
	b.publish(cur.Config, cloneItems(items))
	return nil
}

// DeleteItem removes the item id and reports whether it existed.
func (b *Board) DeleteItem(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	idx := indexOf(cur.Items, id)
	if idx < 0 {
		return false
	}
	items := make([]Item, 0, len(cur.Items)-1)
	items = append(items, cur.Items[:idx]...)
	items = append(items, cur.Items[idx+1:]...)
	b.publish(cur.Config, items)
	if b.dragID == id || (b.resize != nil && b.resize.ItemID == id) {
		b.endGesture()
	}
	return true
}

// Reset restores the default config and removes every item.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.colors.Reset()
	b.endGesture()
	b.publish(DefaultConfig(), nil)
}

// Load replaces the config and every item with snap, ending any gesture.
func (b *Board) Load(snap *Snapshot) error {
	if err := snap.Config.Validate(); err != nil {
		return err
	}
	if err := Check(snap.Items, snap.Config); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.endGesture()
	b.publish(snap.Config, cloneItems(snap.Items))
	return nil
}

// UpdateConfig applies patch. Bad track counts, gaps or compact types are
// rejected; weight lists are fitted to the track count with Normalize. Items
// are pulled back inside the new bounds and any that then collide are
// re-homed; if one cannot be placed the update is rejected.
func (b *Board) UpdateConfig(patch ConfigPatch) (Config, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	next := patch.Apply(cur.Config)
	shape := next
	shape.ColumnFr, shape.RowFr = nil, nil
	if err := shape.Validate(); err != nil {
		return cur.Config, err
	}
	next = next.Normalize()
	items, err := reflow(cur.Items, next)
	if err != nil {
		return cur.Config, err
	}
	b.publish(next, items)
	return next, nil
}

// reflow fits items into cfg in order: each is clamped into bounds, and one
// that lands on an earlier item is moved to a free slot.
func reflow(items []Item, cfg Config) ([]Item, error) {
	placed := make([]Item, 0, len(items))
	for _, it := range items {
		r := it.Rect
		r.W = clamp(r.W, 1, cfg.Columns)
		r.H = clamp(r.H, 1, cfg.Rows)
		r.X = clamp(r.X, 0, cfg.Columns-r.W)
		r.Y = clamp(r.Y, 0, cfg.Rows-r.H)
		if !cfg.AllowOverlap && Collides(r, placed, "") {
			slot, err := FindFreeSlot(placed, cfg, r.W, r.H)
			if err != nil {
				return nil, fmt.Errorf("item '%s': %w", it.ID, err)
			}
			r = slot
		}
		it.Rect = r
		placed = append(placed, it)
	}
	return placed, nil
}

// BeginDrag marks the start of a drag gesture on item id.
func (b *Board) BeginDrag(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gesture != Idle {
		return fmt.Errorf("%w: %s", ErrGestureActive, b.gesture)
	}
	if _, ok := b.snap.Load().Item(id); !ok {
		return fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
	}
	b.gesture = Dragging
	b.dragID = id
	return nil
}

// OnDragEnd resolves a drag-end event against the current state. It never
// fails: a rejected drop is reported in the Outcome and changes nothing.
func (b *Board) OnDragEnd(ev DragEnd, container Box) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gesture == Resizing {
		return rejected(ev.ActiveID, fmt.Errorf("%w: %s", ErrGestureActive, b.gesture))
	}
	if b.gesture == Dragging && ev.ActiveID != "" && ev.ActiveID != b.dragID {
		return rejected(ev.ActiveID, fmt.Errorf("%w: dragging '%s'", ErrGestureActive, b.dragID))
	}
	b.endGesture()

	cur := b.snap.Load()
	items, out := b.resolver.Resolve(cur.Items, cur.Config, ev, container)
	if !out.Applied() {
		b.log.Debug("drop rejected", "item", ev.ActiveID, "reason", out.Message())
		return out
	}
	b.publish(cur.Config, items)
	b.log.Debug("drop applied", "item", out.ItemID, "action", string(out.Action), "target", out.TargetID)
	return out
}

// OnDragEndJSON decodes payload with ParseDragEnd and resolves it.
func (b *Board) OnDragEndJSON(payload []byte, container Box) Outcome {
	ev, err := ParseDragEnd(payload)
	if err != nil {
		b.mu.Lock()
		b.endGesture()
		b.mu.Unlock()
		b.log.Debug("drop rejected", "reason", err)
		return rejected("", err)
	}
	return b.OnDragEnd(ev, container)
}

// BeginResize starts a resize of item id with the pointer at (x, y).
// container is only consulted when the resize cell size is measured.
func (b *Board) BeginResize(id string, x, y float64, container Box) (ResizeGesture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gesture != Idle {
		return ResizeGesture{}, fmt.Errorf("%w: %s", ErrGestureActive, b.gesture)
	}
	cur := b.snap.Load()
	it, ok := cur.Item(id)
	if !ok {
		return ResizeGesture{}, fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
	}
	g := NewResizeGesture(it, x, y, b.resizeCell, b.resizeCell)
	if b.resizeCell <= 0 {
		cw, ch := MeasuredCellSize(container, cur.Config)
		g = NewResizeGesture(it, x, y, cw, ch)
		if cw > 0 {
			g.ColumnGap = cur.Config.ColumnGap
		}
		if ch > 0 {
			g.RowGap = cur.Config.RowGap
		}
	}
	b.gesture = Resizing
	b.resize = &g
	return g, nil
}

// ResizeMove tracks the pointer. The item's pixel override always follows the
// pointer; its span only changes when the candidate span is legal.
func (b *Board) ResizeMove(x, y float64) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gesture != Resizing || b.resize == nil {
		return Item{}, ErrNoGesture
	}
	cur := b.snap.Load()
	idx := indexOf(cur.Items, b.resize.ItemID)
	if idx < 0 {
		id := b.resize.ItemID
		b.endGesture()
		return Item{}, fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
	}

	items := cloneItems(cur.Items)
	candidate := b.resize.Candidate(x, y, cur.Config)
	if err := Legal(candidate, cur.Items, b.resize.ItemID, cur.Config); err == nil {
		items[idx].Rect = candidate
	} else {
		b.log.Debug("resize step dropped", "item", b.resize.ItemID, "rect", candidate.String(), "err", err)
	}
	items[idx].PixelWidth, items[idx].PixelHeight = b.resize.PixelSize(x, y)
	b.publish(cur.Config, items)
	it, _ := b.snap.Load().Item(b.resize.ItemID)
	return it, nil
}

// EndResize finishes the resize and clears the pixel override.
func (b *Board) EndResize() (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gesture != Resizing || b.resize == nil {
		return Item{}, ErrNoGesture
	}
	id := b.resize.ItemID
	b.endGesture()

	cur := b.snap.Load()
	idx := indexOf(cur.Items, id)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
	}
	items := cloneItems(cur.Items)
	items[idx].PixelWidth, items[idx].PixelHeight = 0, 0
	b.publish(cur.Config, items)
	it, _ := b.snap.Load().Item(id)
	return it, nil
}

func (b *Board) endGesture() {
	b.gesture = Idle
	b.dragID = ""
	b.resize = nil
}

// SubUnitItems returns the current items in sub-unit column space.
func (b *Board) SubUnitItems() []Item {
	s := b.snap.Load()
	return ToSubUnits(s.Config, s.Items, b.multiplier)
}

// ApplySubUnitLayout takes rectangles in sub-unit column space, keyed by item
// id, as produced by an integer-grid layout library, and replaces the
// geometry of those items. Other items keep their place.
func (b *Board) ApplySubUnitLayout(rects map[string]Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.snap.Load()
	cols := SubUnitColumns(cur.Config, b.multiplier)
	items := cloneItems(cur.Items)
	for id, r := range rects {
		idx := indexOf(items, id)
		if idx < 0 {
			return fmt.Errorf("%w: '%s'", ErrItemNotFound, id)
		}
		r = clampSubUnits(r, cols, cur.Config.Rows)
		items[idx].Rect = FromSubUnits(cur.Config, r, b.multiplier)
	}
	if err := Check(items, cur.Config); err != nil {
		return err
	}
	b.publish(cur.Config, items)
	return nil
}
