// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// Schema definitions.
const (
	ConfigDefinition = "#Config"
	StateDefinition  = "#State"
)

//go:embed schema.cue
var embeddedSchema []byte

// ValidateWithCue validates YAML (or JSON) data against a definition of a CUE
// schema. An empty schemaPath selects the schema embedded in the binary.
func ValidateWithCue(data []byte, definition, schemaPath string) error {
	ctx := cuecontext.New()

	schemaBytes := embeddedSchema
	if schemaPath != "" {
		b, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("cannot read CUE schema: %w", err)
		}
		schemaBytes = b
	}
	schemaVal := ctx.CompileBytes(schemaBytes)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("schema has no %s definition", definition)
	}

	file, err := cueyaml.Extract("input.yaml", data)
	if err != nil {
		return fmt.Errorf("cannot parse YAML input: %w", err)
	}
	dataVal := ctx.BuildFile(file)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("cannot build YAML input: %w", err)
	}

	final := def.Unify(dataVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateFile validates the file at path against a schema definition.
func ValidateFile(path, definition, schemaPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ValidateWithCue(data, definition, schemaPath)
}
