package attrs

import (
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// ClickResult is the interaction record reported by a diagram renderer.
// Absent fields are empty.
type ClickResult struct {
	EntityClicked string `json:"entity_clicked,omitempty"`
	EntityURL     string `json:"entity_url,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Clicked reports whether the result names a node.
func (c ClickResult) Clicked() bool {
	return strings.TrimSpace(c.EntityClicked) != ""
}

// Resolution is the link and note shown for a clicked node.
type Resolution struct {
	Entity string `json:"entity"`
	URL    string `json:"url"`
	Note   string `json:"note"`
}

// HasLink reports whether the resolution carries a real URL.
func (r Resolution) HasLink() bool {
	return r.URL != "" && r.URL != flow.NoURL
}

// HasNote reports whether the resolution carries a note.
func (r Resolution) HasNote() bool {
	return r.Note != "" && r.Note != flow.NoURL
}

// SafeLink returns the URL when it is a real http(s) link, or "" otherwise.
// Use it before turning a resolved URL into a clickable anchor.
func (r Resolution) SafeLink() string {
	if !r.HasLink() || errors.ValidateURL(r.URL) != nil {
		return ""
	}
	return r.URL
}

// Resolve combines a renderer's click result with the fallback maps.
// Values the renderer supplied win; missing ones are looked up by the
// clicked entity. A result without an entity resolves to the zero value.
func Resolve(click ClickResult, maps Maps) Resolution {
	if !click.Clicked() {
		return Resolution{}
	}
	entity := strings.TrimSpace(click.EntityClicked)
	res := Resolution{Entity: entity, URL: click.EntityURL, Note: click.Note}
	if res.URL == "" {
		res.URL, _ = maps.URLs.Lookup(entity)
	}
	if res.Note == "" {
		res.Note, _ = maps.Notes.Lookup(entity)
	}
	return res
}
