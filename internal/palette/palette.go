// Package palette hands out item background colours.
package palette

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Default is the built-in palette.
var Default = []string{
	"#1de9b6",
	"#5dade2",
	"#ffb74d",
	"#ff6f61",
	"#af7ac5",
	"#58d68d",
	"#ffd54f",
	"#5faee3",
	"#bb8fce",
	"#48c9b0",
}

// Cycle draws colours without replacement. Each round is a fresh shuffle of
// the palette, and a round never starts with the colour that ended the
// previous one.
type Cycle struct {
	mu     sync.Mutex
	colors []string
	rng    *rand.Rand
	round  []string
	last   string
}

// NewCycle returns a cycle over colors. An empty list uses Default.
func NewCycle(colors []string, seed int64) *Cycle {
	if len(colors) == 0 {
		colors = Default
	}
	return &Cycle{
		colors: append([]string(nil), colors...),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next colour.
func (c *Cycle) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.round) == 0 {
		c.round = append([]string(nil), c.colors...)
		c.rng.Shuffle(len(c.round), func(i, j int) {
			c.round[i], c.round[j] = c.round[j], c.round[i]
		})
		if len(c.round) > 1 && c.round[0] == c.last {
			c.round[0], c.round[1] = c.round[1], c.round[0]
		}
	}
	next := c.round[0]
	c.round = c.round[1:]
	c.last = next
	return next
}

// Reset forgets the current round.
func (c *Cycle) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = nil
	c.last = ""
}

// Normalize parses a CSS hex colour ("#abc" or "#aabbcc") and returns it in
// lower-case six digit form.
func Normalize(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid colour '%s': %w", hex, err)
	}
	return c.Hex(), nil
}

// NormalizeAll normalizes every colour in the list.
func NormalizeAll(colors []string) ([]string, error) {
	out := make([]string, 0, len(colors))
	for _, col := range colors {
		n, err := Normalize(col)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// TextColor returns a readable foreground for text on bg: near-black on light
// backgrounds, white on dark ones. Unparsable input gets near-black.
func TextColor(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#1a1a1a"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#1a1a1a"
	}
	return "#ffffff"
}
