package mermaid

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// Diagram is the result of compiling a row sequence.
type Diagram struct {
	// Source is the Mermaid flowchart text, newline-terminated.
	Source string

	// Edges is the number of edge lines emitted.
	Edges int

	// Bindings is the number of click-binding lines emitted.
	Bindings int

	// Warnings holds one MALFORMED_EDGE error per skipped row, in row order.
	// Always empty in strict mode.
	Warnings []error
}

// Compile converts rows into Mermaid flowchart source.
//
// The output is an init directive carrying the theme, a direction line, one
// line per edge in input order, then one click binding per distinct source
// node in order of first appearance. Only the first row for a source node
// supplies its URL and tooltip; the binding is omitted when that row has no
// URL and an empty tooltip.
//
//	%%{init: {'theme': 'neutral'}}%%
//	flowchart TD
//	    A["Project Start"] --- B["Data Collection"]
//	    click A "#" "Kickoff notes"
//
// Rows that fail [flow.Validate] are skipped and reported in
// [Diagram.Warnings], or abort compilation when opts.Strict is set. Skipped
// rows never contribute a click binding.
//
// Compile is a pure function: identical inputs yield byte-identical output.
func Compile(rows []flow.Edge, opts Options) (*Diagram, error) {
	var (
		buf      bytes.Buffer
		valid    = make([]flow.Edge, 0, len(rows))
		warnings []error
	)

	fmt.Fprintf(&buf, "%%%%{init: {'theme': '%s'}}%%%%\n", opts.theme())
	fmt.Fprintf(&buf, "flowchart %s\n", opts.orientation())

	for i, r := range rows {
		e := flow.Normalize(r)
		if err := flow.Validate(i, e); err != nil {
			if opts.Strict {
				return nil, err
			}
			warnings = append(warnings, err)
			continue
		}
		valid = append(valid, e)
		fmt.Fprintf(&buf, "    %s[\"%s\"] %s %s[\"%s\"]\n",
			e.FromID, flow.Escape(e.FromLabel),
			e.ConnectorOrDefault(),
			e.ToID, flow.Escape(e.ToLabel))
	}

	bindings := writeClickBindings(&buf, valid)

	return &Diagram{
		Source:   buf.String(),
		Edges:    len(valid),
		Bindings: bindings,
		Warnings: warnings,
	}, nil
}

// writeClickBindings emits click lines for the first row of each distinct
// source node and returns how many were written.
func writeClickBindings(buf *bytes.Buffer, rows []flow.Edge) int {
	seen := make(map[string]bool, len(rows))
	n := 0
	for _, e := range rows {
		if seen[e.FromID] {
			continue
		}
		seen[e.FromID] = true

		url := e.URLOrPlaceholder()
		if url == flow.NoURL && e.Tooltip == "" {
			continue
		}
		fmt.Fprintf(buf, "    click %s \"%s\" \"%s\"\n", e.FromID, flow.Escape(url), flow.Escape(e.Tooltip))
		n++
	}
	return n
}

// defaultDirective is the direction line Compile emits for [TopDown].
const defaultDirective = "flowchart TD\n"

// Reorient rewrites the first top-down direction line of already-compiled
// source to o. Text without such a line is returned unchanged, as is any
// text when o is [TopDown] or empty.
//
// Compile emits the requested direction directly; Reorient exists for
// callers holding source they did not compile, such as an edited buffer.
func Reorient(source string, o Orientation) string {
	if o == "" || o == TopDown {
		return source
	}
	return strings.Replace(source, defaultDirective, "flowchart "+string(o)+"\n", 1)
}
