package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nodeIDRegex matches identifiers that are safe as bare Mermaid flowchart
// tokens: word characters, with dots and hyphens allowed only in the middle.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_])?$`)

// maxNodeIDLength bounds identifiers; Mermaid has no limit but anything this
// long is almost certainly a mis-mapped column.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier for use as a bare token in
// Mermaid flowchart source.
//
// The validation rules:
//   - No empty identifiers
//   - Maximum length of 256 characters
//   - Only letters, digits and underscores, plus inner '.' and '-'
//   - Not the lowercase keyword "end", which closes subgraphs
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier is empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxNodeIDLength)
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "identifier %q contains characters unsafe for diagram syntax", id)
	}

	if id == "end" {
		return New(ErrCodeInvalidInput, "identifier %q is a reserved word", id)
	}

	return nil
}

// ValidateConnector rejects connectors that would break the one-edge-per-line
// structure of the diagram source. The connector vocabulary itself is left
// to the renderer.
func ValidateConnector(connector string) error {
	return validateLine("connector", connector)
}

// ValidateText rejects label, tooltip and link text that would split an
// edge or click line. Tabs are allowed.
func ValidateText(text string) error {
	return validateLine("text", text)
}

func validateLine(what, s string) error {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return New(ErrCodeInvalidInput, "%s spans multiple lines", what)
		}
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "%s contains control characters", what)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// Empty strings and the "#" placeholder are accepted as "no link".
// Anything else must use an http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" || rawURL == "#" {
		return nil
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
