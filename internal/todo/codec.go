package todo

import (
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/wt/internal/model"
)

const (
	// StorageKey is the single key the whole collection lives under.
	StorageKey = "@todos"
	// FormatVersion is written into every envelope.
	FormatVersion = 1
)

var (
	//go:embed schema/envelope.schema.json
	envelopeSchemaJSON string
	//go:embed schema/legacy.schema.json
	legacySchemaJSON string

	envelopeSchema = jsonschema.MustCompileString("envelope.schema.json", envelopeSchemaJSON)
	legacySchema   = jsonschema.MustCompileString("legacy.schema.json", legacySchemaJSON)
)

type envelope struct {
	Version int              `json:"version"`
	Todos   model.Collection `json:"todos"`
}

// legacyItem is the shape the mobile app stored: working=true meant Work.
type legacyItem struct {
	Text    string `json:"text"`
	Working bool   `json:"working"`
}

// Encode serializes the complete collection into a version 1 envelope.
func Encode(c model.Collection) ([]byte, error) {
	env := envelope{Version: FormatVersion, Todos: c}
	if env.Todos == nil {
		env.Todos = model.Collection{}
	}
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a stored blob. Version 1 envelopes and unversioned legacy
// maps are accepted; anything else is a *CorruptStateError.
func Decode(b []byte) (model.Collection, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &CorruptStateError{Reason: "not valid JSON", Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &CorruptStateError{Reason: "top level is not an object"}
	}

	if v, versioned := obj["version"]; versioned {
		if n, isNum := v.(float64); !isNum || n != FormatVersion {
			return nil, &CorruptStateError{Reason: fmt.Sprintf("unsupported format version %v", v)}
		}
		if err := envelopeSchema.Validate(doc); err != nil {
			return nil, &CorruptStateError{Reason: "does not match schema", Err: err}
		}
		var env envelope
		if err := json.Unmarshal(b, &env); err != nil {
			return nil, &CorruptStateError{Reason: "json unmarshal", Err: err}
		}
		if env.Todos == nil {
			env.Todos = model.Collection{}
		}
		return env.Todos, nil
	}

	if err := legacySchema.Validate(doc); err != nil {
		return nil, &CorruptStateError{Reason: "does not match legacy schema", Err: err}
	}
	var legacy map[string]legacyItem
	if err := json.Unmarshal(b, &legacy); err != nil {
		return nil, &CorruptStateError{Reason: "json unmarshal", Err: err}
	}
	out := make(model.Collection, len(legacy))
	for k, it := range legacy {
		cat := model.Travel
		if it.Working {
			cat = model.Work
		}
		out[k] = model.Item{Text: it.Text, Category: cat}
	}
	return out, nil
}
