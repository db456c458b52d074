package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/grid-generator/internal/grid"
)

func testSnapshot() *grid.Snapshot {
	return &grid.Snapshot{
		Config: grid.DefaultConfig(),
		Items: []grid.Item{
			{ID: "a", Rect: grid.Rect{X: 0, Y: 0, W: 2, H: 1}, Content: "Header", Color: "#ff6f61"},
			{ID: "b", Rect: grid.Rect{X: 3, Y: 1, W: 1, H: 3}, Content: "A very long sidebar label"},
		},
	}
}

func TestRenderShape(t *testing.T) {
	out := Render("hero", testSnapshot(), 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.GreaterOrEqual(t, len(lines), 2+4*CellHeight)
	assert.Contains(t, lines[0], "hero")
	assert.Equal(t, "4x4 grid, 2 items", lines[1])

	for i, line := range lines[2 : 2+4*CellHeight] {
		assert.Equal(t, 40, lipgloss.Width(line), "grid line %d", i)
	}
}

func TestRenderLabels(t *testing.T) {
	out := Render("", testSnapshot(), 40)
	assert.Contains(t, out, "Header")
	assert.NotContains(t, out, "A very long sidebar label", "labels are cut to the item width")
	assert.Contains(t, out, "·")
	assert.Contains(t, out, "a  1 / 3  1 / 2")
	assert.Contains(t, out, "b  4 / 5  2 / 5")
}

func TestRenderNarrow(t *testing.T) {
	snap := testSnapshot()
	out := Render("", snap, 4)
	lines := strings.Split(out, "\n")
	assert.Equal(t, 16, lipgloss.Width(lines[1]), "cells never shrink below 4 columns")
}

func TestCellWidth(t *testing.T) {
	cfg := grid.DefaultConfig()
	assert.Equal(t, 20, CellWidth(cfg, 80))
	assert.Equal(t, 4, CellWidth(cfg, 10))
}

func TestTerminalWidthFallback(t *testing.T) {
	assert.Positive(t, TerminalWidth())
}
