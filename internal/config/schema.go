// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds the compiled schema to avoid recompilation.
var schemaCache *jschema.Schema

// SchemaID identifies the generated configuration schema.
const SchemaID = "https://embermud.org/schemas/config.schema.json"

// GenerateSchema generates the JSON Schema for Config. cmd/gen-schema
// writes it to schemas/config.schema.json.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "EmberMUD Server Configuration"
	schema.Description = "Schema for embermud.yaml configuration files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_MARSHAL_FAILED").Wrap(err)
	}
	return data, nil
}

// Validate checks a loaded Config against the generated schema.
func Validate(cfg Config) error {
	sch, err := getCompiledSchema()
	if err != nil {
		return oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}

	// Round-trip through JSON so the validator sees plain types.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return oops.Code("SCHEMA_MARSHAL_FAILED").Wrap(err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return oops.Code("SCHEMA_MARSHAL_FAILED").Wrap(err)
	}

	if err := sch.Validate(doc); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return nil
}

// getCompiledSchema returns the cached compiled schema or compiles it.
func getCompiledSchema() (*jschema.Schema, error) {
	if schemaCache != nil {
		return schemaCache, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}

	schemaCache = sch
	return sch, nil
}
