package menu

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"menuforge/internal"
)

//go:embed menu.schema.json
var menuSchemaJSON []byte

// ValidateMenu round-trips the built menu through its JSON schema as a
// self-check before it is written anywhere. A failure here is fatal to the
// run.
func ValidateMenu(m internal.Menu) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal menu: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(menuSchemaJSON))
	if err != nil {
		return fmt.Errorf("parse menu schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("menu.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("register menu schema: %w", err)
	}
	schema, err := compiler.Compile("menu.schema.json")
	if err != nil {
		return fmt.Errorf("compile menu schema: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("reparse menu: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("menu schema validation: %w", err)
	}
	return nil
}
