package mermaid

import (
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// Theme names a Mermaid theme, embedded verbatim in the init directive.
type Theme string

// Themes offered by the configuration surfaces.
const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeNeutral Theme = "neutral"
	ThemeForest  Theme = "forest"
)

// Themes lists the supported themes in display order.
var Themes = []Theme{ThemeDefault, ThemeDark, ThemeNeutral, ThemeForest}

// Orientation is the flowchart layout direction.
type Orientation string

// Supported orientations.
const (
	TopDown   Orientation = "TD"
	LeftRight Orientation = "LR"
)

// Orientations lists the supported orientations in display order.
var Orientations = []Orientation{TopDown, LeftRight}

// Label returns a human-readable description of o.
func (o Orientation) Label() string {
	switch o {
	case TopDown:
		return "Top → Bottom (TD)"
	case LeftRight:
		return "Left → Right (LR)"
	default:
		return string(o)
	}
}

// ParseTheme validates a user-supplied theme name. Empty input yields
// [ThemeDefault]. Matching is case-insensitive.
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ThemeDefault, nil
	}
	for _, t := range Themes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidTheme,
		"unknown theme %q (must be one of default, dark, neutral, forest)", s)
}

// ParseOrientation validates a user-supplied orientation code. Empty input
// yields [TopDown]. Matching is case-insensitive.
func ParseOrientation(s string) (Orientation, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return TopDown, nil
	}
	for _, o := range Orientations {
		if string(o) == s {
			return o, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidOrientation,
		"unknown orientation %q (must be TD or LR)", s)
}

// Options configures diagram compilation.
type Options struct {
	// Theme is embedded verbatim; the compiler does not check it.
	// Empty means [ThemeDefault].
	Theme Theme

	// Orientation is the flowchart direction. Empty means [TopDown].
	Orientation Orientation

	// Strict aborts compilation on the first malformed row instead of
	// skipping it with a warning.
	Strict bool
}

func (o Options) theme() Theme {
	if o.Theme == "" {
		return ThemeDefault
	}
	return o.Theme
}

func (o Options) orientation() Orientation {
	if o.Orientation == "" {
		return TopDown
	}
	return o.Orientation
}
