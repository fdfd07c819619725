package flow

import "strings"

// Column names of the tabular input, as written in the template header.
const (
	ColFromID    = "From_ID"
	ColFromLabel = "From_Label"
	ColToID      = "To_ID"
	ColToLabel   = "To_Label"
	ColConnector = "Connector"
	ColTooltip   = "Tooltip"
	ColURL       = "URL"
	ColNotes     = "notes"
)

// Columns lists every known column in template order.
var Columns = []string{
	ColFromID, ColFromLabel, ColToID, ColToLabel,
	ColConnector, ColTooltip, ColURL, ColNotes,
}

// RequiredColumns must be present in every input table. Connector and notes
// are optional; rows without them use the default connector and no notes.
var RequiredColumns = []string{
	ColFromID, ColFromLabel, ColToID, ColToLabel, ColTooltip, ColURL,
}

// DefaultConnector is used when a row has no connector.
const DefaultConnector = "-->"

// NoURL is the placeholder link value meaning "no URL".
const NoURL = "#"

// Edge is one input row: a directed connection between two named nodes.
// Missing cells are represented by the empty string.
type Edge struct {
	FromID    string `json:"from_id" yaml:"from_id"`
	FromLabel string `json:"from_label" yaml:"from_label"`
	ToID      string `json:"to_id" yaml:"to_id"`
	ToLabel   string `json:"to_label" yaml:"to_label"`
	Connector string `json:"connector,omitempty" yaml:"connector,omitempty"`
	Tooltip   string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Normalize returns e with every field trimmed of surrounding whitespace.
func Normalize(e Edge) Edge {
	return Edge{
		FromID:    strings.TrimSpace(e.FromID),
		FromLabel: strings.TrimSpace(e.FromLabel),
		ToID:      strings.TrimSpace(e.ToID),
		ToLabel:   strings.TrimSpace(e.ToLabel),
		Connector: strings.TrimSpace(e.Connector),
		Tooltip:   strings.TrimSpace(e.Tooltip),
		URL:       strings.TrimSpace(e.URL),
		Notes:     strings.TrimSpace(e.Notes),
	}
}

// Escape escapes double quotes so s can sit inside a quoted diagram token.
// Backslashes are left alone, matching the renderer's own unescaping.
func Escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// ConnectorOrDefault returns the row's connector, or [DefaultConnector]
// when it is blank.
func (e Edge) ConnectorOrDefault() string {
	if c := strings.TrimSpace(e.Connector); c != "" {
		return c
	}
	return DefaultConnector
}

// URLOrPlaceholder returns the row's URL, or [NoURL] when it is blank.
func (e Edge) URLOrPlaceholder() string {
	if u := strings.TrimSpace(e.URL); u != "" {
		return u
	}
	return NoURL
}

// Node is a distinct identifier seen in a row sequence, with the label from
// the first row that mentioned it.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Nodes returns every distinct non-empty node identifier in rows, in order
// of first appearance (a row's source before its target).
func Nodes(rows []Edge) []Node {
	seen := make(map[string]bool)
	var nodes []Node
	add := func(id, label string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		nodes = append(nodes, Node{ID: id, Label: label})
	}
	for _, r := range rows {
		n := Normalize(r)
		add(n.FromID, n.FromLabel)
		add(n.ToID, n.ToLabel)
	}
	return nodes
}
