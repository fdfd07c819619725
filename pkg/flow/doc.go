// Package flow defines the tabular edge-list model behind a flowchart.
//
// # Overview
//
// Each input row is an [Edge]: a directed connection from one named node to
// another, with display labels, a connector token selecting the edge style,
// and optional click metadata (tooltip, URL, notes).
//
//	From_ID,From_Label,To_ID,To_Label,Connector,Tooltip,URL,notes
//	A,Project Start,B,Data Collection,---,Kickoff notes,#,
//
// # Normalization
//
// [Normalize] trims every field. [Escape] escapes double quotes so a label
// can be embedded in a quoted diagram token. Both are pure and idempotent
// over already-normalized input.
//
// # Validation
//
// [Validate] checks that a row's identifiers are usable as bare tokens in
// the diagram language and that its connector, labels, tooltip and URL
// stay on one line. Notes are never emitted and may span lines. Failures
// carry the MALFORMED_EDGE code and name the row index and field.
//
// # Sample Data
//
// [Sample] returns the four-row flow used as the default dataset and as the
// downloadable CSV template.
package flow
