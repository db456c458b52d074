package generator

import (
	"strings"
	"testing"

	"github.com/wcatz/grid-generator/internal/grid"
)

func testItems() []grid.Item {
	return []grid.Item{
		{ID: "a", Rect: grid.Rect{X: 0, Y: 0, W: 2, H: 1}, Content: "Header", Color: "#ffffff"},
		{ID: "b", Rect: grid.Rect{X: 2, Y: 1, W: 1, H: 3}, Content: "<b>Side</b>"},
	}
}

func TestGenerateCSS(t *testing.T) {
	css := GenerateCSS(grid.DefaultConfig(), testItems(), "")

	want := []string{
		".grid-container {",
		"display: grid;",
		"grid-template-columns: repeat(4, 1fr);",
		"grid-template-rows: repeat(4, 1fr);",
		"gap: 16px 16px;",
		".grid-item-1 {\n  grid-column: 1 / 3;\n  grid-row: 1 / 2;",
		"background-color: #ffffff;",
		"color: #1a1a1a;",
		".grid-item-2 {\n  grid-column: 3 / 4;\n  grid-row: 2 / 5;",
	}
	for _, w := range want {
		if !strings.Contains(css, w) {
			t.Errorf("CSS missing %q:\n%s", w, css)
		}
	}
	if strings.Count(css, "background-color") != 1 {
		t.Errorf("uncoloured item should not get a background:\n%s", css)
	}
}

func TestGenerateCSSWeighted(t *testing.T) {
	cfg := grid.DefaultConfig()
	cfg.Columns = 2
	cfg.ColumnFr = []float64{1, 2.5}
	cfg.RowGap = 4
	css := GenerateCSS(cfg, nil, "app")

	if !strings.Contains(css, ".app-container {") {
		t.Errorf("prefix not applied:\n%s", css)
	}
	if !strings.Contains(css, "grid-template-columns: 1fr 2.5fr;") {
		t.Errorf("weighted columns not rendered:\n%s", css)
	}
	if !strings.Contains(css, "gap: 4px 16px;") {
		t.Errorf("gap should be row then column:\n%s", css)
	}
}

func TestGenerateHTML(t *testing.T) {
	out := GenerateHTML(testItems(), "grid")
	want := "<div class=\"grid-container\">\n" +
		"  <div class=\"grid-item-1\">Header</div>\n" +
		"  <div class=\"grid-item-2\">&lt;b&gt;Side&lt;/b&gt;</div>\n" +
		"</div>\n"
	if out != want {
		t.Errorf("GenerateHTML() =\n%s\nwant\n%s", out, want)
	}
}

func TestGenerateTailwind(t *testing.T) {
	out := GenerateTailwind(grid.DefaultConfig(), testItems())

	want := []string{
		`<div class="grid grid-cols-4 grid-rows-4 gap-x-[16px] gap-y-[16px]">`,
		`col-start-1 col-end-3 row-start-1 row-end-2`,
		`bg-[#ffffff] text-[#1a1a1a]`,
		`col-start-3 col-end-4 row-start-2 row-end-5 flex items-center justify-center">&lt;b&gt;`,
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("Tailwind missing %q:\n%s", w, out)
		}
	}
}

func TestGenerateTailwindLargeGrid(t *testing.T) {
	cfg := grid.DefaultConfig()
	cfg.Columns = 20
	cfg.Rows = 2
	cfg.RowFr = []float64{1, 3}
	items := []grid.Item{{ID: "x", Rect: grid.Rect{X: 14, Y: 0, W: 6, H: 1}}}
	out := GenerateTailwind(cfg, items)

	for _, w := range []string{
		"grid-cols-[repeat(20,minmax(0,1fr))]",
		"grid-rows-[1fr_3fr]",
		"col-start-[15]",
		"col-end-[21]",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("Tailwind missing %q:\n%s", w, out)
		}
	}
}

func TestCodeGet(t *testing.T) {
	snap := &grid.Snapshot{Config: grid.DefaultConfig(), Items: testItems()}
	code := GenerateCode(snap, "grid")
	for _, f := range []string{"css", "html", "tailwind"} {
		body, err := code.Get(f)
		if err != nil || body == "" {
			t.Errorf("Get(%s) = %q, %v", f, body, err)
		}
	}
	if _, err := code.Get("jsx"); err == nil {
		t.Error("Get(jsx) should fail")
	}
}

func TestClassNamer(t *testing.T) {
	n := NewClassNamer("")
	if n.Container() != "grid-container" {
		t.Errorf("Container() = %s", n.Container())
	}
	n.Next()
	if got := n.Next(); got != "grid-item-2" {
		t.Errorf("Next() = %s, want grid-item-2", got)
	}
	if got := NewClassNamer("card").Next(); got != "card-item-1" {
		t.Errorf("Next() = %s, want card-item-1", got)
	}
}

func TestFrTracks(t *testing.T) {
	tests := []struct {
		n       int
		weights []float64
		want    string
	}{
		{2, []float64{1, 3}, "1fr 3fr"},
		{3, []float64{0.5, 1, 2}, "0.5fr 1fr 2fr"},
		{3, []float64{1, 3}, ""},
		{4, nil, ""},
	}
	for _, tt := range tests {
		if got := FrTracks(tt.n, tt.weights); got != tt.want {
			t.Errorf("FrTracks(%d, %v) = %q, want %q", tt.n, tt.weights, got, tt.want)
		}
	}
}
