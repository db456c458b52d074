// Package preview draws a layout in the terminal.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/palette"
)

// CellHeight is the number of terminal lines per grid row.
const CellHeight = 3

var (
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	idStyle    = lipgloss.NewStyle().Bold(true)
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// CellWidth returns the terminal columns given to each grid column.
func CellWidth(cfg grid.Config, width int) int {
	if cfg.Columns <= 0 {
		return 1
	}
	return max(width/cfg.Columns, 4)
}

// Render draws snap in width terminal columns: a title, the grid with each
// item filled in its colour and labelled on its first line, then a legend of
// span strings.
func Render(title string, snap *grid.Snapshot, width int) string {
	cfg := snap.Config
	cw := CellWidth(cfg, width)

	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%dx%d grid, %d items\n", cfg.Columns, cfg.Rows, len(snap.Items))

	for y := 0; y < cfg.Rows; y++ {
		for line := 0; line < CellHeight; line++ {
			b.WriteString(renderLine(snap.Items, cfg, y, line, cw))
			b.WriteString("\n")
		}
	}

	if len(snap.Items) > 0 {
		b.WriteString("\n")
	}
	for _, it := range snap.Items {
		fmt.Fprintf(&b, "%s  %s  %s\n", idStyle.Render(it.ID), it.GridColumn(), it.GridRow())
	}
	return b.String()
}

// renderLine draws one terminal line of grid row y.
func renderLine(items []grid.Item, cfg grid.Config, y, line, cw int) string {
	var b strings.Builder
	for x := 0; x < cfg.Columns; {
		it, ok := itemAt(items, x, y)
		if !ok {
			b.WriteString(emptyStyle.Render(emptyCell(cw, line)))
			x++
			continue
		}
		span := min(it.Right(), cfg.Columns) - x
		w := span * cw
		label := ""
		if y == it.Y && line == 0 {
			label = truncate.String(" "+it.Content, uint(w))
		} else if y == it.Y && line == 1 {
			label = truncate.String(" "+it.ID, uint(w))
		}
		b.WriteString(itemStyle(it).Width(w).MaxWidth(w).Render(label))
		x += span
	}
	return b.String()
}

func emptyCell(cw, line int) string {
	if line == CellHeight/2 {
		return strings.Repeat(" ", cw/2) + "·" + strings.Repeat(" ", cw-cw/2-1)
	}
	return strings.Repeat(" ", cw)
}

func itemStyle(it grid.Item) lipgloss.Style {
	s := lipgloss.NewStyle()
	if it.Color != "" {
		s = s.Background(lipgloss.Color(it.Color)).
			Foreground(lipgloss.Color(palette.TextColor(it.Color)))
	} else {
		s = s.Reverse(true)
	}
	return s
}

// itemAt returns the first item covering cell (x, y).
func itemAt(items []grid.Item, x, y int) (grid.Item, bool) {
	for _, it := range items {
		if x >= it.X && x < it.Right() && y >= it.Y && y < it.Bottom() {
			return it, true
		}
	}
	return grid.Item{}, false
}
