package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/milk9111/grapple/prefabs"
)

// schemaFile pairs a prefab file with the Go type it decodes into.
type schemaFile struct {
	name        string
	title       string
	description string
	target      any
}

var schemaFiles = []schemaFile{
	{
		name:        "world.schema.json",
		title:       "Grapple World",
		description: "Validates prefabs/world.yaml: canvas, gravity, goal region and bodies in registry order",
		target:      new(prefabs.WorldSpec),
	},
	{
		name:        "grapple.schema.json",
		title:       "Grapple Rope",
		description: "Validates prefabs/grapple.yaml: reach, spring tuning and rope line style",
		target:      new(prefabs.GrappleSpec),
	},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, f := range schemaFiles {
		if err := writeSchema(filepath.Join(outDir, f.name), buildSchema(f)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", f.name, err)
			os.Exit(1)
		}
	}
}

func buildSchema(f schemaFile) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(f.target)
	schema.Title = f.title
	schema.Description = f.description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
