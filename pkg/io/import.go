package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// Format identifies a tabular input encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be csv, json, or yaml)", s)
	}
}

// FormatFromPath chooses a format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatCSV
}

// FormatFromContentType chooses a format from an HTTP Content-Type,
// defaulting to CSV.
func FormatFromContentType(ct string) Format {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	default:
		return FormatCSV
	}
}

// document is the object form of JSON and YAML output.
type document struct {
	Rows []flow.Edge `json:"rows" yaml:"rows"`
}

// Read decodes rows from r in the given format. It does not close r.
func Read(r io.Reader, format Format) ([]flow.Edge, error) {
	switch format {
	case FormatCSV, "":
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// requiredKeys must be present in every JSON or YAML row. Labels, tooltip
// and URL may be omitted because the exporters drop empty fields.
var requiredKeys = []string{"from_id", "to_id"}

// requireKeys reports the first required key that has returns false for.
func requireKeys(has func(key string) bool) error {
	for _, k := range requiredKeys {
		if !has(k) {
			return errors.MissingColumn(k)
		}
	}
	return nil
}

// ReadJSON decodes rows from a JSON array or a {"rows": [...]} object.
// Every row must carry from_id and to_id keys, matched case-insensitively
// like encoding/json does.
func ReadJSON(r io.Reader) ([]flow.Edge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty JSON input")
	}

	var raw []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON rows")
		}
	} else {
		var doc struct {
			Rows []json.RawMessage `json:"rows"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON document")
		}
		raw = doc.Rows
	}

	rows := make([]flow.Edge, 0, len(raw))
	for i, msg := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(msg, &fields); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON row %d", i)
		}
		err := requireKeys(func(key string) bool {
			for k := range fields {
				if strings.EqualFold(k, key) {
					return true
				}
			}
			return false
		})
		if err != nil {
			return nil, err
		}

		var e flow.Edge
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON row %d", i)
		}
		rows = append(rows, e)
	}
	return rows, nil
}

// ReadYAML decodes rows from a YAML sequence or a mapping with a rows key.
// Every row must be a mapping with from_id and to_id keys.
func ReadYAML(r io.Reader) ([]flow.Edge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}
	if len(node.Content) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty YAML input")
	}

	var items []*yaml.Node
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		items = root.Content
	} else {
		var doc struct {
			Rows []*yaml.Node `yaml:"rows"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML document")
		}
		items = doc.Rows
	}

	rows := make([]flow.Edge, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.MappingNode {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "YAML row %d is not a mapping", i)
		}
		// Mapping content alternates key and value nodes.
		err := requireKeys(func(key string) bool {
			for j := 0; j < len(item.Content); j += 2 {
				if item.Content[j].Value == key {
					return true
				}
			}
			return false
		})
		if err != nil {
			return nil, err
		}

		var e flow.Edge
		if err := item.Decode(&e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML row %d", i)
		}
		rows = append(rows, e)
	}
	return rows, nil
}

// Import reads rows from the file at path, choosing the format from its
// extension. Unknown extensions are read as CSV.
func Import(path string) ([]flow.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
