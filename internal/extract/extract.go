// Package extract turns parsed tables into typed records: strategy-tagged
// processed rows for the content pipeline, and risk rows for the
// risk-analysis pipeline. Column roles are resolved once per table and the
// physical header name is reused for every row.
package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"riskcsv/internal/columns"
	"riskcsv/internal/normalize"
	"riskcsv/internal/table"
)

// ProcessedRow is one retained content row. Never mutated after creation.
type ProcessedRow struct {
	Strategy string
	Content  string
}

// RiskRow is one retained risk-analysis row. ID is assigned per file at
// extraction and reassigned globally on merge. NID stays empty until a
// source mapping is joined on.
type RiskRow struct {
	ID        int
	Content   string
	RiskScore float64
	RiskType  string
	NID       string
	Original  map[string]string
}

// Stats are per-file extraction counters. TotalRows = ValidRows + SkippedRows.
type Stats struct {
	TotalRows   int
	ValidRows   int
	SkippedRows int
}

// FileResult owns one file's processed rows. Err is set when the file failed
// entirely; such a result contributes zero rows downstream.
type FileResult struct {
	ID    string
	Name  string
	Rows  []ProcessedRow
	Stats Stats
	Err   string
}

// NewFileResult allocates a result shell with a session-unique id.
func NewFileResult(name string) *FileResult {
	return &FileResult{ID: uuid.NewString(), Name: name}
}

// Processed extracts strategy-tagged rows from a table. Rows with an empty
// content cell, or whose normalized content repeats within the file, count as
// skipped. Fails when no content column is locatable.
func Processed(t *table.Table, m columns.Matcher, strategy string) ([]ProcessedRow, Stats, error) {
	col, ok := m.Content(t.Headers)
	if !ok {
		return nil, Stats{}, fmt.Errorf("content column not found (accepts %s); headers: %s",
			strings.Join(columns.ContentAliases(), " or "), strings.Join(t.Headers, ", "))
	}

	stats := Stats{TotalRows: t.Len()}
	seen := make(map[string]struct{}, t.Len())
	rows := make([]ProcessedRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		raw, _ := t.Row(i).Get(col)
		content := normalize.Normalize(raw)
		if content == "" {
			continue
		}
		if _, dup := seen[content]; dup {
			continue
		}
		seen[content] = struct{}{}
		rows = append(rows, ProcessedRow{Strategy: strategy, Content: content})
	}
	stats.ValidRows = len(rows)
	stats.SkippedRows = stats.TotalRows - stats.ValidRows
	return rows, stats, nil
}

// Risk extracts risk rows from a table. Rows whose score cell is absent,
// empty, or not a finite non-negative number are dropped silently. Content is
// the normalized content cell, falling back to the raw cell value when
// normalization empties it (the content pipeline instead skips such rows;
// the asymmetry is long-standing behavior and is kept). Fails when no score
// column is locatable.
func Risk(t *table.Table, m columns.Matcher) ([]RiskRow, error) {
	scoreCol, ok := m.Score(t.Headers)
	if !ok {
		return nil, fmt.Errorf("risk score column not found; headers: %s", strings.Join(t.Headers, ", "))
	}
	contentCol, hasContent := m.Content(t.Headers)
	typeCol, hasType := m.RiskType(t.Headers)

	var rows []RiskRow
	for i := 0; i < t.Len(); i++ {
		rec := t.Row(i)
		rawScore, _ := rec.Get(scoreCol)
		rawScore = strings.TrimSpace(rawScore)
		if rawScore == "" {
			continue
		}
		score, err := strconv.ParseFloat(rawScore, 64)
		if err != nil || math.IsInf(score, 0) || math.IsNaN(score) || score < 0 {
			continue
		}

		var content string
		if hasContent {
			raw, _ := rec.Get(contentCol)
			content = normalize.Normalize(raw)
			if content == "" {
				content = raw
			}
		}
		riskType := "N/A"
		if hasType {
			if v, ok := rec.Get(typeCol); ok && strings.TrimSpace(v) != "" {
				riskType = strings.TrimSpace(v)
			}
		}
		rows = append(rows, RiskRow{
			ID:        i,
			Content:   content,
			RiskScore: score,
			RiskType:  riskType,
			Original:  rec.Map(),
		})
	}
	return rows, nil
}
