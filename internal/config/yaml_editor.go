package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/grid-generator/internal/grid"
)

// YAMLEditor provides structured editing of the YAML config file using
// the yaml.v3 Node API, preserving comments and formatting.
type YAMLEditor struct {
	path string
}

// NewYAMLEditor creates a new editor for the given config file path.
func NewYAMLEditor(path string) *YAMLEditor {
	return &YAMLEditor{path: path}
}

// SetLayoutItems writes the item list and grid size of a layout, creating
// the layout if it does not exist. Other keys of the layout, and their
// comments, are left alone.
func (e *YAMLEditor) SetLayoutItems(name string, cfg grid.Config, items []grid.Item) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	layoutsNode := findMappingKey(root, "layouts")
	if layoutsNode == nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "layouts"},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		layoutsNode = root.Content[len(root.Content)-1]
	}

	layoutNode := findMappingKey(layoutsNode, name)
	if layoutNode == nil {
		layoutNode = &yaml.Node{Kind: yaml.MappingNode}
		layoutNode.Content = append(layoutNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "title"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
		)
		layoutsNode.Content = append(layoutsNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			layoutNode,
		)
	}

	gridNode := findMappingKey(layoutNode, "grid")
	if gridNode == nil {
		gridNode = &yaml.Node{Kind: yaml.MappingNode}
		layoutNode.Content = append(layoutNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "grid"},
			gridNode,
		)
	}
	setScalar(gridNode, "columns", strconv.Itoa(cfg.Columns), "!!int")
	setScalar(gridNode, "rows", strconv.Itoa(cfg.Rows), "!!int")

	defs := make([]ItemDef, 0, len(items))
	for _, it := range items {
		defs = append(defs, ItemDef{
			ID:      it.ID,
			Column:  it.GridColumn(),
			Row:     it.GridRow(),
			Content: it.Content,
			Color:   it.Color,
		})
	}
	var itemsNode yaml.Node
	if err := itemsNode.Encode(defs); err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	if idx := findMappingKeyIndex(layoutNode, "items"); idx >= 0 {
		layoutNode.Content[idx+1] = &itemsNode
	} else {
		layoutNode.Content = append(layoutNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "items"},
			&itemsNode,
		)
	}

	return e.save(doc)
}

// DeleteLayout removes a layout from the config file.
func (e *YAMLEditor) DeleteLayout(name string) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	layoutsNode := findMappingKey(root, "layouts")
	if layoutsNode == nil {
		return fmt.Errorf("no layouts section in config")
	}

	idx := findMappingKeyIndex(layoutsNode, name)
	if idx < 0 {
		return fmt.Errorf("layout '%s' not found", name)
	}

	// Remove the key-value pair (2 consecutive entries in Content)
	layoutsNode.Content = append(layoutsNode.Content[:idx], layoutsNode.Content[idx+2:]...)

	return e.save(doc)
}

// SetPaletteColor sets or updates a color in a named palette, creating the
// palette when needed.
func (e *YAMLEditor) SetPaletteColor(palette, color, hex string) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	palettesNode := findMappingKey(root, "palettes")
	if palettesNode == nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "palettes"},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		palettesNode = root.Content[len(root.Content)-1]
	}

	paletteNode := findMappingKey(palettesNode, palette)
	if paletteNode == nil {
		paletteNode = &yaml.Node{Kind: yaml.MappingNode}
		palettesNode.Content = append(palettesNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: palette},
			paletteNode,
		)
	}

	colorVal := findMappingKey(paletteNode, color)
	if colorVal != nil {
		colorVal.Value = hex
		colorVal.Style = yaml.DoubleQuotedStyle
	} else {
		paletteNode.Content = append(paletteNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: color},
			&yaml.Node{Kind: yaml.ScalarNode, Value: hex, Style: yaml.DoubleQuotedStyle},
		)
	}

	return e.save(doc)
}

// SetActivePalette updates the active_palette key.
func (e *YAMLEditor) SetActivePalette(name string) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}
	setScalar(root, "active_palette", name, "")
	return e.save(doc)
}

func (e *YAMLEditor) load() (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("invalid YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("root is not a mapping")
	}

	return &doc, root, nil
}

func (e *YAMLEditor) save(doc *yaml.Node) error {
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("opening config for write: %w", err)
	}
	defer out.Close()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// setScalar sets key to a scalar value in mapping, appending it if missing.
func setScalar(mapping *yaml.Node, key, value, tag string) {
	if v := findMappingKey(mapping, key); v != nil {
		v.Kind = yaml.ScalarNode
		v.Value = value
		v.Tag = tag
		v.Content = nil
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
	)
}

// findMappingKey finds the value node for a key in a MappingNode.
func findMappingKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// findMappingKeyIndex returns the index of a key in a MappingNode's Content, or -1.
func findMappingKeyIndex(mapping *yaml.Node, key string) int {
	if mapping.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}
