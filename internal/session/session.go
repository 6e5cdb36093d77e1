// Package session holds the in-memory state of one processing run: per-file
// content results, the merged risk dataset, and the NID-linked flag. Files in
// a batch are extracted concurrently; the only shared-state mutation (merging
// and global re-indexing) happens after every extraction has completed, on
// the calling goroutine, so no locking is needed.
package session

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"riskcsv/internal/columns"
	"riskcsv/internal/extract"
	"riskcsv/internal/nidmap"
	"riskcsv/internal/textenc"
)

// Session is the aggregate owner of extraction results. Zero value is not
// usable; construct with New.
type Session struct {
	Strategy  string
	Matcher   columns.Matcher
	Delimiter rune

	// Files are content-processing results, in file-selection order.
	Files []*extract.FileResult
	// Rows is the merged risk dataset, ids dense 0..len-1.
	Rows []extract.RiskRow
	// Linked reports whether an NID mapping has matched at least one row.
	Linked bool
}

// RiskFile is one file's risk extraction outcome. A file either completes or
// fails entirely; Err is its error string in the latter case.
type RiskFile struct {
	Name string
	Rows []extract.RiskRow
	Err  string
}

// New builds a session with the given strategy tag, column matcher, and
// delimiter (0 sniffs per file).
func New(strategy string, m columns.Matcher, delim rune) *Session {
	return &Session{Strategy: strategy, Matcher: m, Delimiter: delim}
}

// ProcessFiles runs the content pipeline over paths, one goroutine per file,
// and appends the results to the session in path order. Per-file failures are
// recorded in the result's Err and never abort the batch.
func (s *Session) ProcessFiles(ctx context.Context, paths []string) []*extract.FileResult {
	results := make([]*extract.FileResult, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = s.processOne(path)
			return nil
		})
	}
	_ = g.Wait()
	s.Files = append(s.Files, results...)
	return results
}

func (s *Session) processOne(path string) *extract.FileResult {
	res := extract.NewFileResult(filepath.Base(path))
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	tbl, _, err := textenc.Resolve(raw, s.Delimiter, s.Matcher.HasContent)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	rows, stats, err := extract.Processed(tbl, s.Matcher, s.Strategy)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Rows = rows
	res.Stats = stats
	return res
}

// LoadRisk runs the risk pipeline over paths concurrently, merges every
// successful file's rows into the session dataset with global re-indexing,
// and returns the per-file outcomes in path order.
func (s *Session) LoadRisk(ctx context.Context, paths []string) []RiskFile {
	results := make([]RiskFile, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = s.riskOne(path)
			return nil
		})
	}
	_ = g.Wait()

	batches := make([][]extract.RiskRow, 0, len(results))
	if len(s.Rows) > 0 {
		batches = append(batches, s.Rows)
	}
	for _, r := range results {
		if r.Err == "" {
			batches = append(batches, r.Rows)
		}
	}
	s.Rows = Merge(batches...)
	return results
}

func (s *Session) riskOne(path string) RiskFile {
	res := RiskFile{Name: filepath.Base(path)}
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	tbl, _, err := textenc.Resolve(raw, s.Delimiter, s.Matcher.HasScore)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	rows, err := extract.Risk(tbl, s.Matcher)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Rows = rows
	return res
}

// Merge concatenates batches preserving batch order and each batch's internal
// order, then reassigns ids 0..total-1. Extraction-time ids collide across
// files and are discarded.
func Merge(batches ...[]extract.RiskRow) []extract.RiskRow {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	out := make([]extract.RiskRow, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	for i := range out {
		out[i].ID = i
	}
	return out
}

// ApplyMapping left-joins mp onto the session dataset, copy-on-join, and
// turns the Linked flag on when at least one row matched.
func (s *Session) ApplyMapping(mp nidmap.Mapping) int {
	rows, matched := nidmap.Join(s.Rows, mp)
	s.Rows = rows
	if matched > 0 {
		s.Linked = true
	}
	return matched
}

// Filter returns the rows with RiskScore >= min, order preserved.
func (s *Session) Filter(min float64) []extract.RiskRow {
	out := make([]extract.RiskRow, 0, len(s.Rows))
	for _, r := range s.Rows {
		if r.RiskScore >= min {
			out = append(out, r)
		}
	}
	return out
}

// Dedup drops rows whose content already appeared, keeping the first. Risk
// extraction does not deduplicate per file; the export path dedups here,
// across the merged set.
func Dedup(rows []extract.RiskRow) []extract.RiskRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]extract.RiskRow, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Content]; dup {
			continue
		}
		seen[r.Content] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RemoveFile destroys the content result with the given id. Reports whether
// anything was removed.
func (s *Session) RemoveFile(id string) bool {
	for i, f := range s.Files {
		if f.ID == id {
			s.Files = append(s.Files[:i], s.Files[i+1:]...)
			return true
		}
	}
	return false
}

// Reset drops all session state.
func (s *Session) Reset() {
	s.Files = nil
	s.Rows = nil
	s.Linked = false
}

// Summary aggregates the merged dataset for the report printed after a risk
// run.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	ByType map[string]int
}

// Summarize computes row count, score min/max/mean, and per-risk-type counts.
func Summarize(rows []extract.RiskRow) Summary {
	sum := Summary{ByType: make(map[string]int)}
	if len(rows) == 0 {
		return sum
	}
	sum.Count = len(rows)
	sum.Min = rows[0].RiskScore
	sum.Max = rows[0].RiskScore
	total := 0.0
	for _, r := range rows {
		if r.RiskScore < sum.Min {
			sum.Min = r.RiskScore
		}
		if r.RiskScore > sum.Max {
			sum.Max = r.RiskScore
		}
		total += r.RiskScore
		sum.ByType[r.RiskType]++
	}
	sum.Mean = total / float64(len(rows))
	return sum
}
