package deck

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiledFileSchema compiles FileSchema once and caches the result.
func compiledFileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		defBytes, err := json.Marshal(FileSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal deck schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse deck schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://deck.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Validate checks raw deck-file JSON against FileSchema.
func Validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("deck file is not valid JSON: %w", err)
	}
	schema, err := compiledFileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("deck file rejected by schema: %w", err)
	}
	return nil
}

// Decode validates and unmarshals a deck file, minting UUIDs for subjects,
// sets and cards that were authored without IDs.
func Decode(raw []byte) (*Collection, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var col Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		return nil, fmt.Errorf("decode deck file: %w", err)
	}

	for _, subj := range col.Subjects {
		if subj.ID == "" {
			subj.ID = uuid.New().String()
		}
		for _, set := range subj.Sets {
			if set.ID == "" {
				set.ID = uuid.New().String()
			}
			for _, cd := range set.Cards {
				if cd.ID == "" {
					cd.ID = uuid.New().String()
				}
			}
		}
	}
	return &col, nil
}

// Encode marshals a collection to indented deck-file JSON, progress
// included, so export then import round-trips.
func Encode(col *Collection) ([]byte, error) {
	raw, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deck file: %w", err)
	}
	return raw, nil
}
