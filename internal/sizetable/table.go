// Package sizetable loads and parses per-version artifact size tables.
//
// A table is one CSV file produced by the measurement pipeline for a
// (platform, version) pair: a header row with exactly one identity column and
// one or more numeric metric columns, followed by one data row per measured
// file or binary section.
package sizetable

import "strings"

// keyColumnNames is the recognized set of identity column headers, lowercase.
var keyColumnNames = map[string]struct{}{
	"file":         {},
	"filename":     {},
	"path":         {},
	"name":         {},
	"compileunits": {},
	"compile unit": {},
	"section":      {},
}

// Row is one record from a size table. Fields maps header name to the raw
// field text; numeric interpretation is left to the consumer.
type Row struct {
	Fields map[string]string
}

// Table is one parsed size table.
type Table struct {
	Headers []string
	Rows    []Row
}

// KeyColumn returns the identity column: the first header case-insensitively
// matching a recognized identity name, or the first header as a fallback.
func (t *Table) KeyColumn() string {
	for _, h := range t.Headers {
		if _, ok := keyColumnNames[strings.ToLower(h)]; ok {
			return h
		}
	}

	if len(t.Headers) > 0 {
		return t.Headers[0]
	}

	return ""
}

// MetricColumns returns all headers except the identity column, in header order.
func (t *Table) MetricColumns() []string {
	key := t.KeyColumn()

	metrics := make([]string, 0, len(t.Headers))

	for _, h := range t.Headers {
		if h != key {
			metrics = append(metrics, h)
		}
	}

	return metrics
}

// Parse parses comma-separated text into a table. The first line is the
// header. A data line must split into exactly as many fields as there are
// headers; lines that do not are dropped. A double quote toggles quoted
// state, so commas inside quoted regions do not split fields.
func Parse(text string) *Table {
	lines := strings.Split(text, "\n")

	table := &Table{}

	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		fields := splitLine(line)

		if table.Headers == nil {
			table.Headers = fields

			continue
		}

		if len(fields) != len(table.Headers) {
			continue // Malformed row, dropped.
		}

		row := Row{Fields: make(map[string]string, len(fields))}
		for j, h := range table.Headers {
			row.Fields[h] = fields[j]
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// splitLine splits one CSV line on commas, honoring double-quote regions.
// Quote characters themselves are not part of the field value.
func splitLine(line string) []string {
	var fields []string

	var field strings.Builder

	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}

	fields = append(fields, field.String())

	return fields
}
