package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileExt maps export formats to file extensions.
var fileExt = map[string]string{
	"css":      ".css",
	"html":     ".html",
	"tailwind": ".tailwind.html",
}

// WriteCode writes one file per format for a layout, returning the total
// size. With dryRun nothing is written but the summary is still printed.
func WriteCode(code Code, items int, dir, name string, formats []string, dryRun bool) (int, error) {
	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("creating output dir: %w", err)
		}
	}

	total := 0
	for _, format := range formats {
		body, err := code.Get(format)
		if err != nil {
			return total, err
		}
		ext := fileExt[format]
		fpath := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+ext)
		size := len(body)

		if !dryRun {
			if err := os.WriteFile(fpath, []byte(body), 0644); err != nil {
				return total, fmt.Errorf("writing %s: %w", fpath, err)
			}
		}

		fmt.Printf("  %s: %d items, %s bytes\n", filepath.Base(fpath), items, formatSize(size))
		total += size
	}
	return total, nil
}

func formatSize(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	// insert commas
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
