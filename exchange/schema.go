package exchange

import (
	"github.com/invopop/jsonschema"
)

// Schema describes the exchange document as JSON Schema.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true

	schema := reflector.Reflect(&Document{})
	schema.Title = "Stream catalog"
	schema.Description = "Backup of the stream catalog"
	return schema
}
