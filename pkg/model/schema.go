package model

import (
	"github.com/invopop/jsonschema"
)

// SchemaName identifies the classification schema in provider requests.
const SchemaName = "bug_classification"

// Schema reflects BugClassification into an inline JSON schema that rejects
// additional properties.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&BugClassification{})
	s.Version = ""
	s.ID = ""
	return s
}
