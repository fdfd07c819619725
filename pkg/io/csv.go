package io

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// ReadCSV decodes a header-led CSV table from r.
//
// Rows may have fewer cells than the header; missing cells read as empty.
// ReadCSV returns a MISSING_COLUMN error when a required column is absent
// and an INVALID_FORMAT error when the CSV itself is malformed.
// It does not close r.
func ReadCSV(r io.Reader) ([]flow.Edge, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty CSV input")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []flow.Edge
	for {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV row %d", len(rows))
		}
		if blank(rec) {
			continue
		}
		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, flow.Edge{
			FromID:    cell(flow.ColFromID),
			FromLabel: cell(flow.ColFromLabel),
			ToID:      cell(flow.ColToID),
			ToLabel:   cell(flow.ColToLabel),
			Connector: cell(flow.ColConnector),
			Tooltip:   cell(flow.ColTooltip),
			URL:       cell(flow.ColURL),
			Notes:     cell(flow.ColNotes),
		})
	}
	return rows, nil
}

// columnIndex maps canonical column names to their position in header.
func columnIndex(header []string) (map[string]int, error) {
	canonical := make(map[string]string, len(flow.Columns))
	for _, c := range flow.Columns {
		canonical[strings.ToLower(c)] = c
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if c, ok := canonical[h]; ok {
			if _, dup := idx[c]; !dup {
				idx[c] = i
			}
		}
	}

	for _, c := range flow.RequiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, errors.MissingColumn(c)
		}
	}
	return idx, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes rows to w as CSV with the full template header.
func WriteCSV(w io.Writer, rows []flow.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flow.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range rows {
		rec := []string{e.FromID, e.FromLabel, e.ToID, e.ToLabel, e.Connector, e.Tooltip, e.URL, e.Notes}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplate writes the sample flow as a CSV template to w.
func WriteTemplate(w io.Writer) error {
	return WriteCSV(w, flow.Sample())
}
