package rules

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the ruleset document accepted by ParseRuleset.
// Only version is required; every other field defaults as ParseRuleset documents.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&Ruleset{})
	schema.Title = "Triad Ruleset"
	schema.Description = "Versioned ruleset configuration. Its canonical encoding hashes to the rulesetId carried by match headers."
	return schema
}
