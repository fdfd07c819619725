package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// WriteJSON encodes rows as an indented {"rows": [...]} document.
// The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, rows []flow.Edge) error {
	if rows == nil {
		rows = []flow.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Rows: rows}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes rows as a YAML document with a rows key.
func WriteYAML(w io.Writer, rows []flow.Edge) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Rows: rows}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes rows to w in the given format.
func Write(w io.Writer, rows []flow.Edge, format Format) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatYAML:
		return WriteYAML(w, rows)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// Export writes rows to a file at path, choosing the format from its
// extension.
func Export(path string, rows []flow.Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, rows, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
