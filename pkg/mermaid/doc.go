// Package mermaid compiles tabular edge lists into Mermaid flowchart source.
//
// # Overview
//
// The generated text is consumed by an external Mermaid renderer (the
// browser page served by mermaidflow serve, or any mermaid.js embedding).
// This package performs no layout or rendering.
//
// # Usage
//
//	d, err := mermaid.Compile(rows, mermaid.Options{
//	    Theme:       mermaid.ThemeNeutral,
//	    Orientation: mermaid.LeftRight,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(d.Source)
//	for _, w := range d.Warnings {
//	    log.Warn("skipped row", "err", w)
//	}
//
// # Options
//
//   - Theme: embedded verbatim in the init directive (default, dark, neutral, forest)
//   - Orientation: TD (top to bottom, the default) or LR
//   - Strict: fail on the first malformed row instead of skipping it
//
// Use [ParseTheme] and [ParseOrientation] to validate user input before
// building [Options]; the compiler itself trusts what it is given.
//
// # Click Bindings
//
// A click binding is emitted for each distinct source node whose first row
// has a URL other than "#" or a non-empty tooltip. Later rows for the same
// source node never change its binding.
package mermaid
