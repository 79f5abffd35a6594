package provision

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed data/collections.json data/collections.schema.json
var definitionFS embed.FS

// LoadDefinition parses and validates the embedded provisioning document.
func LoadDefinition() (*Definition, error) {
	raw, err := definitionFS.ReadFile("data/collections.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	return ParseDefinition(raw)
}

// ParseDefinition parses a provisioning document and validates it against the
// embedded JSON Schema.
func ParseDefinition(raw []byte) (*Definition, error) {
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}

	compiled, err := compileDefinitionSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}

	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	return &def, nil
}

func compileDefinitionSchema() (*jsonschema.Schema, error) {
	encoded, err := definitionFS.ReadFile("data/collections.schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("collections.schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	compiled, err := compiler.Compile("collections.schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	return compiled, nil
}
