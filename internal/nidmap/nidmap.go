// Package nidmap builds a normalized-content → business-id lookup from an
// independently uploaded mapping file and left-joins it onto a risk dataset.
package nidmap

import (
	"fmt"
	"strings"

	"riskcsv/internal/columns"
	"riskcsv/internal/extract"
	"riskcsv/internal/normalize"
	"riskcsv/internal/table"
)

// Mapping maps normalized content to an external business id. Read-only after
// Build; duplicate content within the source file is last-write-wins.
type Mapping map[string]string

// Build constructs a Mapping from a parsed mapping file. Both an NID column
// and a content column must be locatable; rows with an empty key or id are
// skipped.
func Build(t *table.Table, m columns.Matcher) (Mapping, error) {
	nidCol, ok := m.NID(t.Headers)
	if !ok {
		return nil, fmt.Errorf("NID column not found; headers: %s", strings.Join(t.Headers, ", "))
	}
	contentCol, ok := m.Content(t.Headers)
	if !ok {
		return nil, fmt.Errorf("content column not found (accepts %s); headers: %s",
			strings.Join(columns.ContentAliases(), " or "), strings.Join(t.Headers, ", "))
	}

	mp := make(Mapping, t.Len())
	for i := 0; i < t.Len(); i++ {
		rec := t.Row(i)
		rawContent, _ := rec.Get(contentCol)
		key := normalize.Normalize(rawContent)
		nid, _ := rec.Get(nidCol)
		nid = strings.TrimSpace(nid)
		if key == "" || nid == "" {
			continue
		}
		mp[key] = nid
	}
	return mp, nil
}

// Join returns a copy of rows with NID filled where the mapping has the
// row's content, plus the number of rows matched. Matching is exact
// normalized-string equality; unmatched rows are copied unchanged. Zero
// matches is not an error — the caller's linked flag simply stays off.
func Join(rows []extract.RiskRow, mp Mapping) ([]extract.RiskRow, int) {
	out := make([]extract.RiskRow, len(rows))
	matched := 0
	for i, r := range rows {
		if nid, ok := mp[r.Content]; ok {
			r.NID = nid
			matched++
		}
		out[i] = r
	}
	return out, matched
}
