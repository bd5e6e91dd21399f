// Package schema provides the type system backing node settings schemas.
//
// A node manifest declares its settings as a map of keys to type strings
// ("string", "int", "[string]", "any", ...). This package parses those
// declarations and validates settings bags against them. Validation runs at
// registration and in tooling (the validate command, editors); the runtime
// never validates settings on the firing hot path.
//
// Basic usage:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "url":     "string",
//	    "retries": "int",
//	    "tags":    "[string]",
//	})
//	if err := schema.Validate(s, settings); err != nil {
//	    // settings carry values of the wrong type
//	}
//
// Custom validators can be built for domain-specific constraints:
//
//	port := schema.Custom("port", func(v any) error { ... })
//
// The package has no dependencies beyond the standard library.
package schema
