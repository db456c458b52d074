package generator

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/palette"
)

// Code is the exported source for one layout.
type Code struct {
	CSS      string `json:"css"`
	HTML     string `json:"html"`
	Tailwind string `json:"tailwind"`
}

// Get returns the output for a format name.
func (c Code) Get(format string) (string, error) {
	switch format {
	case "css":
		return c.CSS, nil
	case "html":
		return c.HTML, nil
	case "tailwind":
		return c.Tailwind, nil
	}
	return "", fmt.Errorf("unknown format '%s'", format)
}

// GenerateCode renders every format for a layout.
func GenerateCode(snap *grid.Snapshot, prefix string) Code {
	return Code{
		CSS:      GenerateCSS(snap.Config, snap.Items, prefix),
		HTML:     GenerateHTML(snap.Items, prefix),
		Tailwind: GenerateTailwind(snap.Config, snap.Items),
	}
}

// GenerateCSS renders the container rule and one rule per item.
func GenerateCSS(cfg grid.Config, items []grid.Item, prefix string) string {
	names := NewClassNamer(prefix)
	var b strings.Builder

	fmt.Fprintf(&b, ".%s {\n", names.Container())
	b.WriteString("  display: grid;\n")
	fmt.Fprintf(&b, "  grid-template-columns: %s;\n", tracks(cfg.Columns, cfg.ColumnFr))
	fmt.Fprintf(&b, "  grid-template-rows: %s;\n", tracks(cfg.Rows, cfg.RowFr))
	fmt.Fprintf(&b, "  gap: %spx %spx;\n", num(cfg.RowGap), num(cfg.ColumnGap))
	b.WriteString("  width: 100%;\n")
	b.WriteString("}\n")

	for _, it := range items {
		fmt.Fprintf(&b, "\n.%s {\n", names.Next())
		fmt.Fprintf(&b, "  grid-column: %s;\n", it.GridColumn())
		fmt.Fprintf(&b, "  grid-row: %s;\n", it.GridRow())
		b.WriteString("  display: flex;\n")
		b.WriteString("  align-items: center;\n")
		b.WriteString("  justify-content: center;\n")
		if it.Color != "" {
			fmt.Fprintf(&b, "  background-color: %s;\n", it.Color)
			fmt.Fprintf(&b, "  color: %s;\n", palette.TextColor(it.Color))
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// GenerateHTML renders the container with one numbered div per item.
func GenerateHTML(items []grid.Item, prefix string) string {
	names := NewClassNamer(prefix)
	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"%s\">\n", names.Container())
	for _, it := range items {
		fmt.Fprintf(&b, "  <div class=\"%s\">%s</div>\n", names.Next(), html.EscapeString(it.Content))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// GenerateTailwind renders the layout as one HTML fragment styled with
// Tailwind utility classes.
func GenerateTailwind(cfg grid.Config, items []grid.Item) string {
	var b strings.Builder
	container := []string{
		"grid",
		twTracks("grid-cols", cfg.Columns, cfg.ColumnFr),
		twTracks("grid-rows", cfg.Rows, cfg.RowFr),
		"gap-x-[" + num(cfg.ColumnGap) + "px]",
		"gap-y-[" + num(cfg.RowGap) + "px]",
	}
	fmt.Fprintf(&b, "<div class=\"%s\">\n", strings.Join(container, " "))
	for _, it := range items {
		p := it.Position()
		classes := []string{
			twLine("col-start", p.ColumnStart),
			twLine("col-end", p.ColumnEnd),
			twLine("row-start", p.RowStart),
			twLine("row-end", p.RowEnd),
			"flex", "items-center", "justify-center",
		}
		if it.Color != "" {
			classes = append(classes, "bg-["+it.Color+"]", "text-["+palette.TextColor(it.Color)+"]")
		}
		fmt.Fprintf(&b, "  <div class=\"%s\">%s</div>\n", strings.Join(classes, " "), html.EscapeString(it.Content))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// FrTracks renders weights as an explicit track list ("1fr 3fr"). It returns
// "" unless there is one weight per track.
func FrTracks(n int, weights []float64) string {
	if len(weights) != n || n == 0 {
		return ""
	}
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = num(w) + "fr"
	}
	return strings.Join(parts, " ")
}

// tracks renders a grid-template value: repeat(n, 1fr) or explicit weights.
func tracks(n int, weights []float64) string {
	if fr := FrTracks(n, weights); fr != "" {
		return fr
	}
	return fmt.Sprintf("repeat(%d, 1fr)", n)
}

// twTracks renders grid-cols-N, or an arbitrary value past Tailwind's
// built-in scale or when weighted.
func twTracks(utility string, n int, weights []float64) string {
	if len(weights) == n && n > 0 {
		parts := make([]string, len(weights))
		for i, w := range weights {
			parts[i] = num(w) + "fr"
		}
		return utility + "-[" + strings.Join(parts, "_") + "]"
	}
	if n <= 12 {
		return utility + "-" + strconv.Itoa(n)
	}
	return fmt.Sprintf("%s-[repeat(%d,minmax(0,1fr))]", utility, n)
}

// twLine renders a line utility; Tailwind's scale stops at 13.
func twLine(utility string, line int) string {
	if line <= 13 {
		return utility + "-" + strconv.Itoa(line)
	}
	return utility + "-[" + strconv.Itoa(line) + "]"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
