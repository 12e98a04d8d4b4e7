package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Diagnostic describes one problem found while reading a CSV document.
// Column is 1-based and zero when the problem concerns the whole line.
type Diagnostic struct {
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Column > 0 {
		return fmt.Sprintf("line %d, column %d (%s): %s", d.Line, d.Column, d.Field, d.Reason)
	}
	return fmt.Sprintf("line %d: %s", d.Line, d.Reason)
}

// Record is one data row with the line it started on.
type Record struct {
	Line   int
	Fields []string
}

// CSVReader reads a header row followed by data rows of the same width.
type CSVReader struct {
	headers []string
}

// NewCSVReader expects exactly headers, in order, on the first row.
func NewCSVReader(headers []string) *CSVReader {
	return &CSVReader{headers: headers}
}

// Read returns every well-formed row and a diagnostic for every malformed
// one. Blank lines are skipped. A UTF-8 byte order mark is ignored.
func (r *CSVReader) Read(data []byte) ([]Record, []Diagnostic) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	var (
		records     []Record
		diagnostics []Diagnostic
		sawHeader   bool
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				diagnostics = append(diagnostics, Diagnostic{Line: parseErr.StartLine, Column: parseErr.Column, Reason: parseErr.Err.Error()})
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{Reason: err.Error()})
			break
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		if !sawHeader {
			sawHeader = true
			if d, ok := r.checkHeader(line, fields); !ok {
				diagnostics = append(diagnostics, d)
				return nil, diagnostics
			}
			continue
		}
		if len(fields) != len(r.headers) {
			diagnostics = append(diagnostics, Diagnostic{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(r.headers), len(fields)),
			})
			continue
		}
		records = append(records, Record{Line: line, Fields: fields})
	}
	if !sawHeader {
		diagnostics = append(diagnostics, Diagnostic{Line: 1, Reason: "missing header row"})
	}
	return records, diagnostics
}

func (r *CSVReader) checkHeader(line int, fields []string) (Diagnostic, bool) {
	if len(fields) != len(r.headers) {
		return Diagnostic{Line: line, Reason: fmt.Sprintf("header must be %q", strings.Join(r.headers, ","))}, false
	}
	for i, want := range r.headers {
		if strings.TrimSpace(fields[i]) != want {
			return Diagnostic{Line: line, Column: i + 1, Field: want, Reason: fmt.Sprintf("unexpected header %q", fields[i])}, false
		}
	}
	return Diagnostic{}, true
}
