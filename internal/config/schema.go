package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/wcatz/grid-generator/internal/grid"
)

//go:embed layout.schema.json
var layoutSchema []byte

// ErrInvalidDocument is returned for a layout document that is not valid
// JSON or does not match the layout schema.
var ErrInvalidDocument = errors.New("invalid layout document")

// ValidateDocument checks a JSON layout document ({config, items}) against
// the layout schema.
func ValidateDocument(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidDocument)
	}

	schemaLoader := gojsonschema.NewBytesLoader(layoutSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// DecodeDocument validates and decodes a layout document, then checks the
// decoded items against the decoded grid.
func DecodeDocument(data []byte) (*grid.Snapshot, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	var snap grid.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if err := snap.Config.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Check(snap.Items, snap.Config); err != nil {
		return nil, err
	}
	return &snap, nil
}
