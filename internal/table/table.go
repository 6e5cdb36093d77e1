// Package table parses a decoded delimited-text export into an immutable
// in-memory table with header-name field access.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is one file's parse result: the ordered header row plus its data
// rows. Immutable after Parse.
type Table struct {
	Headers []string
	index   map[string]int
	rows    [][]string
}

// Record is a single data row with access by header name.
type Record struct {
	t    *Table
	vals []string
}

// Parse reads delimited text into a Table. The header row is required; blank
// lines are skipped; rows may have fewer or more fields than the header.
// A zero delim sniffs between comma and tab from the header line.
func Parse(text string, delim rune) (*Table, error) {
	if delim == 0 {
		delim = Sniff(text)
	}
	text = strings.TrimPrefix(text, "\uFEFF")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{index: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{
		Headers: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	copy(t.Headers, header)
	for i, h := range t.Headers {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
		trimmed := strings.TrimSpace(h)
		if _, ok := t.index[trimmed]; !ok {
			t.index[trimmed] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+2, err)
		}
		if isBlank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// Sniff picks the delimiter from the first line of text: tab when the header
// line contains more tabs than commas, comma otherwise. TXT exports are
// usually tab-separated, CSV exports comma-separated.
func Sniff(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th data row.
func (t *Table) Row(i int) Record { return Record{t: t, vals: t.rows[i]} }

// Get returns the value under the given header name. The lookup accepts the
// raw header or its trimmed form; short rows report missing for columns past
// their end.
func (r Record) Get(col string) (string, bool) {
	i, ok := r.t.index[col]
	if !ok || i >= len(r.vals) {
		return "", false
	}
	return r.vals[i], true
}

// Map materializes the row as a header→value mapping, for retention alongside
// extracted records.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.t.Headers))
	for i, h := range r.t.Headers {
		if i < len(r.vals) {
			m[h] = r.vals[i]
		}
	}
	return m
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
