package grid

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/grid-generator/internal/palette"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newTestBoard(t *testing.T, cfg Config, opts ...Option) *Board {
	t.Helper()
	opts = append([]Option{WithIDFunc(seqIDs())}, opts...)
	b, err := NewBoard(cfg, opts...)
	require.NoError(t, err)
	return b
}

func TestNewBoardRejectsBadSeed(t *testing.T) {
	_, err := NewBoard(DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{W: 2, H: 2}},
		{ID: "b", Rect: Rect{X: 1, Y: 1, W: 1, H: 1}},
	}))
	assert.ErrorIs(t, err, ErrCollision)

	_, err = NewBoard(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBoardDefaultIDs(t *testing.T) {
	b, err := NewBoard(DefaultConfig())
	require.NoError(t, err)
	it, err := b.AddItem(AddRequest{})
	require.NoError(t, err)
	assert.Regexp(t, `^item-[0-9a-f]{8}$`, it.ID)
}

func TestBoardAddItemAutoPlacement(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())

	var got []Item
	for i := 0; i < 3; i++ {
		it, err := b.AddItem(AddRequest{})
		require.NoError(t, err)
		got = append(got, it)
	}
	assert.Equal(t, Rect{X: 0, Y: 0, W: 1, H: 1}, got[0].Rect)
	assert.Equal(t, Rect{X: 1, Y: 0, W: 1, H: 1}, got[1].Rect)
	assert.Equal(t, Rect{X: 2, Y: 0, W: 1, H: 1}, got[2].Rect)
	assert.Equal(t, "item-1", got[0].ID)
	assert.Equal(t, "Item 2", got[1].Content)
	for _, it := range got {
		assert.Contains(t, palette.Default, it.Color)
	}
	assert.Len(t, b.Snapshot().Items, 3)
}

func TestBoardAddItemLabelsStayUnique(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())
	for i := 0; i < 3; i++ {
		_, err := b.AddItem(AddRequest{})
		require.NoError(t, err)
	}
	require.True(t, b.DeleteItem("item-1"))

	it, err := b.AddItem(AddRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Item 4", it.Content)

	labels := map[string]bool{}
	for _, it := range b.Snapshot().Items {
		assert.False(t, labels[it.Content], "duplicate label %s", it.Content)
		labels[it.Content] = true
	}
}

func TestBoardAddItemExplicit(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())
	_, err := b.AddItem(AddRequest{ID: "hero", Rect: &Rect{X: 0, Y: 0, W: 2, H: 2}, Content: "Hero", Color: "#000000"})
	require.NoError(t, err)

	_, err = b.AddItem(AddRequest{Rect: &Rect{X: 1, Y: 1, W: 1, H: 1}})
	assert.ErrorIs(t, err, ErrCollision)
	_, err = b.AddItem(AddRequest{Rect: &Rect{X: 3, Y: 3, W: 2, H: 1}})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = b.AddItem(AddRequest{ID: "hero"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	snap := b.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Hero", snap.Items[0].Content)
	assert.Equal(t, "#000000", snap.Items[0].Color)
}

func TestBoardAddAtCell(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())
	it, err := b.AddAtCell(Cell{Row: 2, Col: 3})
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 2, Y: 1, W: 1, H: 1}, it.Rect)

	_, err = b.AddAtCell(Cell{Row: 2, Col: 3})
	assert.ErrorIs(t, err, ErrCollision)
}

func TestBoardAddItemGridFull(t *testing.T) {
	b := newTestBoard(t, Config{Columns: 1, Rows: 1, PreventCollision: true})
	_, err := b.AddItem(AddRequest{})
	require.NoError(t, err)
	_, err = b.AddItem(AddRequest{})
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	assert.Len(t, b.Snapshot().Items, 1)
}

func TestBoardUpdateItem(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 1, H: 1}, Content: "A"},
		{ID: "b", Rect: Rect{X: 3, Y: 0, W: 1, H: 1}, Content: "B"},
	}))

	col := "2 / 4"
	text := "moved"
	it, err := b.UpdateItem("a", ItemPatch{Column: &col, Content: &text})
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 1, Y: 0, W: 2, H: 1}, it.Rect)
	assert.Equal(t, "moved", it.Content)

	wide := "2 / 5"
	_, err = b.UpdateItem("a", ItemPatch{Column: &wide})
	assert.ErrorIs(t, err, ErrCollision)

	bad := "2 to 5"
	_, err = b.UpdateItem("a", ItemPatch{Column: &bad})
	assert.ErrorIs(t, err, ErrParse)

	_, err = b.UpdateItem("zz", ItemPatch{Content: &text})
	assert.ErrorIs(t, err, ErrItemNotFound)

	got, _ := b.Snapshot().Item("a")
	assert.Equal(t, Rect{X: 1, Y: 0, W: 2, H: 1}, got.Rect)
}

func TestBoardUpdateItemsAllOrNothing(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}))
	err := b.UpdateItems([]Item{
		{ID: "a", Rect: Rect{W: 2, H: 2}},
		{ID: "b", Rect: Rect{X: 1, Y: 1, W: 2, H: 2}},
	})
	assert.ErrorIs(t, err, ErrCollision)
	assert.Len(t, b.Snapshot().Items, 1)

	require.NoError(t, b.UpdateItems([]Item{
		{ID: "a", Rect: Rect{W: 2, H: 2}},
		{ID: "b", Rect: Rect{X: 2, Y: 2, W: 2, H: 2}},
	}))
	assert.Len(t, b.Snapshot().Items, 2)
}

func TestBoardDeleteAndReset(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())
	it, err := b.AddItem(AddRequest{})
	require.NoError(t, err)

	assert.False(t, b.DeleteItem("missing"))
	assert.True(t, b.DeleteItem(it.ID))
	assert.Empty(t, b.Snapshot().Items)

	cols := 8
	_, err = b.UpdateConfig(ConfigPatch{Columns: &cols})
	require.NoError(t, err)
	_, err = b.AddItem(AddRequest{})
	require.NoError(t, err)

	b.Reset()
	assert.Equal(t, DefaultConfig(), b.Snapshot().Config)
	assert.Empty(t, b.Snapshot().Items)
}

func TestBoardLoad(t *testing.T) {
	b := newTestBoard(t, DefaultConfig())
	it, err := b.AddItem(AddRequest{})
	require.NoError(t, err)
	require.NoError(t, b.BeginDrag(it.ID))

	cfg := DefaultConfig()
	cfg.Columns = 6
	snap := &Snapshot{Config: cfg, Items: []Item{{ID: "x", Rect: Rect{X: 5, Y: 0, W: 1, H: 1}}}}
	require.NoError(t, b.Load(snap))
	assert.Equal(t, Idle, b.Gesture())
	assert.Equal(t, 6, b.Snapshot().Config.Columns)
	assert.Len(t, b.Snapshot().Items, 1)

	bad := &Snapshot{Config: DefaultConfig(), Items: []Item{{ID: "y", Rect: Rect{X: 5, W: 1, H: 1}}}}
	assert.ErrorIs(t, b.Load(bad), ErrOutOfBounds)
	assert.Equal(t, 6, b.Snapshot().Config.Columns)
}

func TestBoardUpdateConfigClampsItems(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 3, Y: 3, W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 2, Y: 0, W: 2, H: 2}},
	}))
	cols := 2
	cfg, err := b.UpdateConfig(ConfigPatch{Columns: &cols})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Columns)

	snap := b.Snapshot()
	a, _ := snap.Item("a")
	bb, _ := snap.Item("b")
	assert.Equal(t, Rect{X: 1, Y: 3, W: 1, H: 1}, a.Rect)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 2, H: 2}, bb.Rect)
	assert.NoError(t, Check(snap.Items, snap.Config))
}

func TestBoardUpdateConfigRelocates(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 2, Y: 0, W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 3, Y: 0, W: 1, H: 1}},
	}))
	cols := 2
	_, err := b.UpdateConfig(ConfigPatch{Columns: &cols})
	require.NoError(t, err)

	snap := b.Snapshot()
	a, _ := snap.Item("a")
	bb, _ := snap.Item("b")
	assert.Equal(t, Rect{X: 1, Y: 0, W: 1, H: 1}, a.Rect)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 1, H: 1}, bb.Rect)
}

func TestBoardUpdateConfigFitsWeights(t *testing.T) {
	b := newTestBoard(t, Config{Columns: 2, Rows: 2, ColumnFr: []float64{1, 3}})

	cols := 4
	cfg, err := b.UpdateConfig(ConfigPatch{Columns: &cols})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 1, 1}, cfg.ColumnFr)

	rows := []float64{2, -1}
	cfg, err = b.UpdateConfig(ConfigPatch{RowFr: &rows})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, cfg.RowFr)
	assert.Equal(t, cfg, b.Snapshot().Config)
}

func TestBoardUpdateConfigRejects(t *testing.T) {
	b := newTestBoard(t, Config{Columns: 2, Rows: 1, PreventCollision: true}, WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 1, Y: 0, W: 1, H: 1}},
	}))
	before := b.Snapshot()

	one := 1
	_, err := b.UpdateConfig(ConfigPatch{Columns: &one})
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	zero := 0
	_, err = b.UpdateConfig(ConfigPatch{Rows: &zero})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Same(t, before, b.Snapshot())
}

func TestBoardDragSwapIsAtomic(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 2, H: 1}},
		{ID: "b", Rect: Rect{X: 2, Y: 2, W: 1, H: 1}},
	}))
	before := b.Snapshot()

	require.NoError(t, b.BeginDrag("a"))
	assert.Equal(t, Dragging, b.Gesture())
	out := b.OnDragEnd(itemDrop("a", "b"), Box{})
	require.True(t, out.Applied())
	assert.Equal(t, Idle, b.Gesture())

	a, _ := before.Item("a")
	assert.Equal(t, Rect{X: 0, Y: 0, W: 2, H: 1}, a.Rect, "old snapshot unchanged")

	after := b.Snapshot()
	a, _ = after.Item("a")
	bb, _ := after.Item("b")
	assert.Equal(t, Rect{X: 2, Y: 2, W: 1, H: 1}, a.Rect)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 2, H: 1}, bb.Rect)
}

func TestBoardDragRejectedKeepsSnapshot(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{{ID: "a", Rect: Rect{W: 2, H: 1}}}))
	before := b.Snapshot()

	out := b.OnDragEnd(cellDrop("a", 1, 4), Box{})
	assert.False(t, out.Applied())
	assert.Same(t, before, b.Snapshot())

	out = b.OnDragEndJSON([]byte(`{"over": {"id": "cell-1-1"}}`), Box{})
	assert.ErrorIs(t, out.Reason, ErrInvalidEvent)
	assert.Same(t, before, b.Snapshot())
}

func TestBoardDragEndJSON(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{{ID: "a", Rect: Rect{W: 2, H: 1}}}))
	payload := `{"active": {"id": "a"}, "over": {"id": "cell-1-3", "data": {"current": {"type": "grid-cell", "row": 1, "col": 3}}}}`
	out := b.OnDragEndJSON([]byte(payload), Box{})
	require.True(t, out.Applied(), "reason: %v", out.Reason)

	a, _ := b.Snapshot().Item("a")
	assert.Equal(t, "3 / 5", a.GridColumn())
	assert.Equal(t, "1 / 2", a.GridRow())
}

func TestBoardContainerDropUsesMapper(t *testing.T) {
	items := []Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}
	ev := DragEnd{
		ActiveID:   "a",
		ActiveRect: &Box{Left: 170, Top: 170, Width: 60, Height: 60},
		Over:       &DropTarget{ID: "grid-container", Kind: TargetContainer},
	}

	center := newTestBoard(t, DefaultConfig(), WithItems(items))
	assert.True(t, center.OnDragEnd(ev, container400).Applied())

	overlap := newTestBoard(t, DefaultConfig(), WithItems(items), WithMapper(MaxOverlap{}))
	assert.False(t, overlap.OnDragEnd(ev, container400).Applied())
}

func TestBoardGestureExclusion(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 2, W: 1, H: 1}},
	}))

	assert.ErrorIs(t, b.BeginDrag("zz"), ErrItemNotFound)
	require.NoError(t, b.BeginDrag("a"))
	assert.ErrorIs(t, b.BeginDrag("b"), ErrGestureActive)
	_, err := b.BeginResize("b", 0, 0, Box{})
	assert.ErrorIs(t, err, ErrGestureActive)

	out := b.OnDragEnd(cellDrop("b", 4, 4), Box{})
	assert.ErrorIs(t, out.Reason, ErrGestureActive)
	assert.True(t, b.OnDragEnd(cellDrop("a", 4, 4), Box{}).Applied())

	_, err = b.BeginResize("a", 0, 0, Box{})
	require.NoError(t, err)
	out = b.OnDragEnd(cellDrop("b", 1, 1), Box{})
	assert.ErrorIs(t, out.Reason, ErrGestureActive)
}

func TestBoardResizeGesture(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 2, Y: 0, W: 1, H: 1}},
	}))

	_, err := b.ResizeMove(10, 10)
	assert.ErrorIs(t, err, ErrNoGesture)
	_, err = b.EndResize()
	assert.ErrorIs(t, err, ErrNoGesture)

	g, err := b.BeginResize("a", 0, 0, Box{})
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultResizeCellSize), g.CellWidth)
	assert.Equal(t, Resizing, b.Gesture())

	it, err := b.ResizeMove(240, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, it.W, "span blocked by b")
	assert.Equal(t, 360.0, it.PixelWidth, "pixels still follow the pointer")

	it, err = b.ResizeMove(120, 130)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 2, H: 2}, it.Rect)

	it, err = b.EndResize()
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 2, H: 2}, it.Rect)
	assert.Zero(t, it.PixelWidth)
	assert.Zero(t, it.PixelHeight)
	assert.Equal(t, Idle, b.Gesture())
}

func TestBoardResizeMeasuredCells(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(),
		WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}),
		WithResizeCellSize(0),
	)
	g, err := b.BeginResize("a", 0, 0, Box{Width: 400, Height: 400})
	require.NoError(t, err)
	assert.Equal(t, 88.0, g.CellWidth)

	it, err := b.ResizeMove(88, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, it.W)
}

func TestBoardResizeMeasuredCellsWithGaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Columns, cfg.Rows = 8, 8
	cfg.ColumnGap, cfg.RowGap = 20, 20
	b := newTestBoard(t, cfg,
		WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}),
		WithResizeCellSize(0),
	)
	g, err := b.BeginResize("a", 0, 0, Box{Width: 940, Height: 940})
	require.NoError(t, err)
	assert.Equal(t, 100.0, g.CellWidth)
	assert.Equal(t, 20.0, g.ColumnGap)

	it, err := b.ResizeMove(5*120, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, it.W)
	assert.Equal(t, 700.0, it.PixelWidth)
}

func TestBoardResizeFixedCellsIgnoreGaps(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}))
	g, err := b.BeginResize("a", 0, 0, Box{Width: 940, Height: 940})
	require.NoError(t, err)
	assert.Zero(t, g.ColumnGap)
	assert.Zero(t, g.RowGap)
}

func TestBoardResizeReturnsPublishedItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CompactType = CompactVertical
	b := newTestBoard(t, cfg, WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 1, H: 2}},
		{ID: "b", Rect: Rect{X: 0, Y: 2, W: 1, H: 1}},
	}))
	_, err := b.BeginResize("a", 0, 0, Box{})
	require.NoError(t, err)

	it, err := b.ResizeMove(0, -120)
	require.NoError(t, err)
	published, ok := b.Snapshot().Item("a")
	require.True(t, ok)
	assert.Equal(t, published, it)
	assert.Equal(t, 1, it.H)

	below, _ := b.Snapshot().Item("b")
	assert.Equal(t, 1, below.Y, "compaction lifts b into the freed row")

	it, err = b.EndResize()
	require.NoError(t, err)
	published, _ = b.Snapshot().Item("a")
	assert.Equal(t, published, it)
}

func TestBoardResizeItemDeleted(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}))
	_, err := b.BeginResize("a", 0, 0, Box{})
	require.NoError(t, err)
	b.DeleteItem("a")
	assert.Equal(t, Idle, b.Gesture())
	_, err = b.ResizeMove(200, 0)
	assert.ErrorIs(t, err, ErrNoGesture)
}

func TestBoardCompactsOnPublish(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CompactType = CompactVertical
	b := newTestBoard(t, cfg)
	it, err := b.AddItem(AddRequest{Rect: &Rect{X: 1, Y: 3, W: 1, H: 1}})
	require.NoError(t, err)

	got, _ := b.Snapshot().Item(it.ID)
	assert.Equal(t, Rect{X: 1, Y: 0, W: 1, H: 1}, got.Rect)
}

func TestBoardApplySubUnitLayout(t *testing.T) {
	cfg := Config{Columns: 2, Rows: 2, ColumnFr: []float64{1, 3}, PreventCollision: true}
	b := newTestBoard(t, cfg, WithItems([]Item{{ID: "a", Rect: Rect{W: 1, H: 1}}}))

	sub := b.SubUnitItems()
	require.Len(t, sub, 1)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 1}, sub[0].Rect)

	require.NoError(t, b.ApplySubUnitLayout(map[string]Rect{"a": {X: 10, Y: 1, W: 30, H: 1}}))
	a, _ := b.Snapshot().Item("a")
	assert.Equal(t, Rect{X: 1, Y: 1, W: 1, H: 1}, a.Rect)

	assert.ErrorIs(t, b.ApplySubUnitLayout(map[string]Rect{"zz": {W: 1, H: 1}}), ErrItemNotFound)
}

func TestBoardConcurrentReaders(t *testing.T) {
	b := newTestBoard(t, DefaultConfig(), WithItems([]Item{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 1, H: 1}},
		{ID: "b", Rect: Rect{X: 3, Y: 3, W: 1, H: 1}},
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			b.OnDragEnd(itemDrop("a", "b"), Box{})
		}
	}()
	for i := 0; i < 200; i++ {
		snap := b.Snapshot()
		a, _ := snap.Item("a")
		bb, _ := snap.Item("b")
		assert.NotEqual(t, a.Rect, bb.Rect, "a swap is never half-applied")
	}
	wg.Wait()
}

// Random operation sequences must never leave two items overlapping.
func TestBoardNoOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))
	for round := 0; round < 20; round++ {
		cfg := DefaultConfig()
		cfg.Columns = 3 + rng.Intn(4)
		cfg.Rows = 3 + rng.Intn(4)
		cfg.PreventCollision = rng.Intn(2) == 0
		b := newTestBoard(t, cfg)

		for step := 0; step < 150; step++ {
			snap := b.Snapshot()
			pick := func() string {
				if len(snap.Items) == 0 {
					return "none"
				}
				return snap.Items[rng.Intn(len(snap.Items))].ID
			}
			switch rng.Intn(6) {
			case 0:
				_, _ = b.AddItem(AddRequest{W: 1 + rng.Intn(2), H: 1 + rng.Intn(2)})
			case 1:
				r := Rect{X: rng.Intn(cfg.Columns), Y: rng.Intn(cfg.Rows), W: 1 + rng.Intn(2), H: 1 + rng.Intn(2)}
				_, _ = b.UpdateItem(pick(), ItemPatch{Rect: &r})
			case 2:
				b.OnDragEnd(cellDrop(pick(), 1+rng.Intn(cfg.Rows), 1+rng.Intn(cfg.Columns)), Box{})
			case 3:
				b.OnDragEnd(itemDrop(pick(), pick()), Box{})
			case 4:
				ev := DragEnd{
					ActiveID:   pick(),
					ActiveRect: &Box{Left: rng.Float64() * 400, Top: rng.Float64() * 400, Width: 100, Height: 100},
					Over:       &DropTarget{Kind: TargetContainer},
				}
				b.OnDragEnd(ev, container400)
			case 5:
				if rng.Intn(4) == 0 {
					b.DeleteItem(pick())
				}
			}
			snap = b.Snapshot()
			require.NoError(t, Check(snap.Items, snap.Config), "round %d step %d", round, step)
		}
	}
}
