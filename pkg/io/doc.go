// Package io reads and writes tabular edge lists.
//
// # Overview
//
// Rows can come from three formats:
//
//   - CSV with a header line (the format of the downloadable template)
//   - JSON, either an array of rows or an object with a "rows" array
//   - YAML, with the same shapes as JSON
//
// # CSV Format
//
//	From_ID,From_Label,To_ID,To_Label,Connector,Tooltip,URL,notes
//	A,Project Start,B,Data Collection,---,Kickoff notes,#,
//	A,Project Start,C,Analysis,-- some text -->,Define requirements,https://example.com/data,Note B
//
// Header names are matched case-insensitively after trimming. The columns
// From_ID, From_Label, To_ID, To_Label, Tooltip and URL are required; a
// missing one fails with MISSING_COLUMN before any row is read. Connector
// and notes are optional. Unknown columns are ignored and column order is
// free.
//
// # JSON and YAML Format
//
//	{"rows": [{"from_id": "A", "from_label": "Start", "to_id": "B", "to_label": "End"}]}
//
// Field names are the snake_case forms of the CSV columns. Every row must
// carry from_id and to_id keys; a row without one fails with MISSING_COLUMN
// naming the key. The remaining fields may be omitted, since the exporters
// drop empty values, and read as empty strings. JSON keys match
// case-insensitively, YAML keys exactly.
//
// # Import
//
// Use [Import] to read a file, choosing the format from its extension, or
// [Read] with an explicit [Format] for any io.Reader:
//
//	rows, err := io.Import("flow.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [WriteCSV] writes rows with the template header; [WriteTemplate] writes
// the sample flow users start from. [WriteJSON] and [WriteYAML] write the
// other formats.
package io
