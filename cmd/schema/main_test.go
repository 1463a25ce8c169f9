package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSchemas(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file   schemaFile
		fields []string
	}{
		{file: schemaFiles[0], fields: []string{`"bodies"`, `"canvas"`, `"air_friction"`}},
		{file: schemaFiles[1], fields: []string{`"max_length"`, `"stiffness"`, `"anti_alias"`}},
	}

	for _, tc := range tests {
		t.Run(tc.file.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file.name)
			if err := writeSchema(path, buildSchema(tc.file)); err != nil {
				t.Fatalf("write schema: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read schema: %v", err)
			}
			text := string(data)
			if !strings.Contains(text, tc.file.title) {
				t.Fatalf("schema missing title %q", tc.file.title)
			}
			for _, field := range tc.fields {
				if !strings.Contains(text, field) {
					t.Fatalf("schema missing %s", field)
				}
			}
			if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
				t.Fatalf("temp file left behind: %v", err)
			}
		})
	}
}
