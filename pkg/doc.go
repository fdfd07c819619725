// Package pkg provides the core libraries for mermaidflow.
//
// # Overview
//
// Mermaidflow turns a table of edges into Mermaid flowchart source with
// click bindings, and answers "what does clicking this node show?" from the
// same table. The pkg directory is organized as:
//
//  1. [flow] - The row model, the sample flow and row validation
//  2. [mermaid] - Compilation to flowchart source and orientation rewriting
//  3. [attrs] - Per-node URL and notes lookup tables and click resolution
//  4. [io] - CSV, JSON and YAML import and export
//  5. [session] - Editable diagram buffers (memory, file, Redis)
//  6. [pipeline] - Orchestration (load → compile)
//  7. [errors], [observability], [metrics], [buildinfo] - Shared plumbing
//
// # Architecture
//
//	CSV / JSON / YAML rows
//	         ↓
//	    [io] package (decode, header matching)
//	         ↓
//	    [mermaid] package (flowchart source)  +  [attrs] package (lookups)
//	         ↓
//	    [session] package (editable buffer, kept until the input changes)
//
// # Quick Start
//
//	rows, err := io.Import("flow.csv")
//	if err != nil {
//	    return err
//	}
//	diagram, err := mermaid.Compile(rows, mermaid.Options{Theme: mermaid.ThemeDark})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(diagram.Source)
//
//	res := attrs.Resolve(attrs.ClickResult{EntityClicked: "A"}, attrs.Build(rows))
//	if link := res.SafeLink(); link != "" {
//	    fmt.Println("Open link:", link)
//	}
//
// Most callers use [pipeline.Runner], which applies defaults, validation,
// logging and observability hooks around the same steps.
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/flow
// [mermaid]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/mermaid
// [attrs]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/attrs
// [io]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/io
// [session]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/pipeline#Runner
// [errors]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/metrics
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/buildinfo
package pkg
