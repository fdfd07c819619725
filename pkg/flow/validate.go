package flow

import (
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// Field names used in MALFORMED_EDGE messages.
const (
	FieldFromID    = "from_id"
	FieldFromLabel = "from_label"
	FieldToID      = "to_id"
	FieldToLabel   = "to_label"
	FieldConnector = "connector"
	FieldTooltip   = "tooltip"
	FieldURL       = "url"
)

// ValidateID reports whether id can be emitted as a bare node token.
func ValidateID(id string) error {
	return errors.ValidateNodeID(id)
}

// Validate checks a normalized row. The returned error carries
// [errors.ErrCodeMalformedEdge] and names row index i and the first
// offending field.
func Validate(i int, e Edge) error {
	if err := ValidateID(e.FromID); err != nil {
		return errors.MalformedEdge(i, FieldFromID, errors.UserMessage(err))
	}
	if err := ValidateID(e.ToID); err != nil {
		return errors.MalformedEdge(i, FieldToID, errors.UserMessage(err))
	}
	if err := errors.ValidateConnector(e.Connector); err != nil {
		return errors.MalformedEdge(i, FieldConnector, errors.UserMessage(err))
	}
	// Labels, tooltip and link end up inside quoted tokens on a single line.
	for _, f := range []struct{ name, value string }{
		{FieldFromLabel, e.FromLabel},
		{FieldToLabel, e.ToLabel},
		{FieldTooltip, e.Tooltip},
		{FieldURL, e.URL},
	} {
		if err := errors.ValidateText(f.value); err != nil {
			return errors.MalformedEdge(i, f.name, errors.UserMessage(err))
		}
	}
	return nil
}
