package generator

import "fmt"

// ClassNamer produces the CSS class names shared by the CSS and HTML
// outputs, numbering items in the order they are emitted.
type ClassNamer struct {
	Prefix string
	n      int
}

// NewClassNamer creates a namer; an empty prefix means "grid".
func NewClassNamer(prefix string) *ClassNamer {
	if prefix == "" {
		prefix = "grid"
	}
	return &ClassNamer{Prefix: prefix}
}

// Container returns the container class.
func (c *ClassNamer) Container() string {
	return c.Prefix + "-container"
}

// Next returns the class for the next item.
func (c *ClassNamer) Next() string {
	c.n++
	return fmt.Sprintf("%s-item-%d", c.Prefix, c.n)
}
