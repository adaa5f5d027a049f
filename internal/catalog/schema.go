package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// JSONSchema lists the selectable regions. All is a filter value, not a
// region an entry can belong to.
func (Region) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, len(regions))
	for _, r := range SelectableRegions() {
		enum = append(enum, string(r))
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

func (Type) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, len(types))
	for _, t := range types {
		enum = append(enum, string(t))
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

// DocumentSchema describes pokemon-data.json.
func DocumentSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(Document{}))
	if schema == nil {
		return nil, fmt.Errorf("failed to reflect document schema")
	}
	schema.Title = "PokeHub Catalog"
	schema.Description = "Pokemon entries loaded by the catalog at startup."
	return schema, nil
}

// MarshalDocumentSchema renders DocumentSchema as indented JSON with a
// trailing newline.
func MarshalDocumentSchema() ([]byte, error) {
	schema, err := DocumentSchema()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
