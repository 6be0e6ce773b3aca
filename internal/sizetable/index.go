package sizetable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrIndexInvalid indicates the platform index failed schema validation.
var ErrIndexInvalid = errors.New("platform index failed validation")

// indexSchema is the JSON Schema for the platform index document: an object
// mapping platform name to its ordered version list.
const indexSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"versions": {
				"type": "array",
				"items": {"type": "string"}
			}
		},
		"required": ["versions"]
	}
}`

// PlatformIndex holds the released versions recorded for one platform.
type PlatformIndex struct {
	Versions []string `json:"versions"`
}

// Index maps platform name to its recorded versions.
type Index map[string]PlatformIndex

// Platforms returns the platform names in sorted order.
func (idx Index) Platforms() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LoadIndex fetches, validates, and decodes the platform index document.
func (l *Loader) LoadIndex(ctx context.Context) (Index, error) {
	raw, err := l.source.Index(ctx)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(indexSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexInvalid, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrIndexInvalid, strings.Join(problems, "; "))
	}

	var idx Index

	err = json.Unmarshal(raw, &idx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexInvalid, err)
	}

	return idx, nil
}
