// Package attrs builds lookup tables that resolve a clicked diagram node to
// its link or annotation.
//
// A renderer may report a click by node identifier or by display label, so
// every map is keyed by all four of a row's identifiers and labels:
//
//	urls := attrs.BuildMap(rows, attrs.FieldURL)
//	urls["A"]             // by identifier
//	urls["Project Start"] // by label, same value
//
// For each key the first non-empty value wins. A key that only ever saw
// empty values maps to "". The URL placeholder "#" counts as empty, so a
// real link in a later row replaces it.
package attrs

import (
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// Field selects which row column supplies the mapped value.
type Field string

// Supported attribute fields.
const (
	FieldURL   Field = "url"
	FieldNotes Field = "notes"
)

// Map resolves a node identifier or label to an attribute value.
type Map map[string]string

// Lookup returns the value for key after trimming it, and whether key was
// seen at all.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[strings.TrimSpace(key)]
	return v, ok
}

// value extracts the field's value from a normalized row.
func (f Field) value(e flow.Edge) string {
	switch f {
	case FieldURL:
		if e.URL == flow.NoURL {
			return ""
		}
		return e.URL
	case FieldNotes:
		return e.Notes
	default:
		return ""
	}
}

// BuildMap folds rows into a Map for field.
//
// Rows are processed in order. For each of the row's trimmed from_id,
// to_id, from_label and to_label that is non-empty, the row's value is
// stored when the key is new, or when the key holds "" and the row's value
// is non-empty. Nothing else overwrites an entry.
func BuildMap(rows []flow.Edge, field Field) Map {
	m := make(Map)
	for _, r := range rows {
		e := flow.Normalize(r)
		v := field.value(e)
		for _, key := range [...]string{e.FromID, e.ToID, e.FromLabel, e.ToLabel} {
			if key == "" {
				continue
			}
			if cur, ok := m[key]; !ok || (cur == "" && v != "") {
				m[key] = v
			}
		}
	}
	return m
}

// Maps bundles the link and annotation lookups for one row sequence.
type Maps struct {
	URLs  Map `json:"urls"`
	Notes Map `json:"notes"`
}

// Build returns both attribute maps for rows.
func Build(rows []flow.Edge) Maps {
	return Maps{
		URLs:  BuildMap(rows, FieldURL),
		Notes: BuildMap(rows, FieldNotes),
	}
}
