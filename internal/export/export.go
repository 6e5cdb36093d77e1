// Package export serializes extraction results into the downloadable
// artifacts: strategy-tagged TSV per file, a zip bundle for batches, and the
// risk-analysis CSV/XLSX.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"riskcsv/internal/extract"
)

// Output file names expected by downstream spreadsheet users.
const (
	ArchiveName  = "batch_processed_files.zip"
	RiskCSVName  = "risk_analysis_export.csv"
	RiskXLSXName = "risk_analysis_export.xlsx"
)

// utf8BOM lets Excel detect UTF-8 text instead of assuming the locale
// codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ProcessedName derives the per-file artifact name from the upload's base
// name.
func ProcessedName(base string) string {
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + "_processed.txt"
}

// TSV renders processed rows as tab-separated text: a strategy/content header
// line, then one line per row. Residual tabs or newlines in a value are
// replaced with a single space just before writing, even though normalization
// already stripped them.
func TSV(rows []extract.ProcessedRow) []byte {
	var b strings.Builder
	b.WriteString("strategy\tcontent\n")
	for _, r := range rows {
		b.WriteString(sanitizeTSV(r.Strategy))
		b.WriteByte('\t')
		b.WriteString(sanitizeTSV(r.Content))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func sanitizeTSV(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, v)
}

// RiskCSV renders risk rows as the export CSV, UTF-8 BOM prefixed. The
// content field is always double-quoted with embedded quotes doubled; the
// score prints as a plain decimal.
func RiskCSV(rows []extract.RiskRow) []byte {
	var b bytes.Buffer
	b.Write(utf8BOM)
	b.WriteString("nid,risk_score,risk_type,content\n")
	for _, r := range rows {
		b.WriteString(r.NID)
		b.WriteByte(',')
		b.WriteString(FormatScore(r.RiskScore))
		b.WriteByte(',')
		b.WriteString(r.RiskType)
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(r.Content, `"`, `""`))
		b.WriteString("\"\n")
	}
	return b.Bytes()
}

// FormatScore prints a risk score as its shortest plain decimal form.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Entry is one named artifact destined for the batch archive.
type Entry struct {
	Name string
	Data []byte
}

// Zip packages entries into a single archive, one entry per source file.
// Callers skip zero-row or errored files before bundling.
func Zip(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RiskXLSX renders risk rows as a single-sheet workbook with the same columns
// as RiskCSV, for users who want the export directly in Excel.
func RiskXLSX(rows []extract.RiskRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &[]any{"nid", "risk_score", "risk_type", "content"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.NID, r.RiskScore, r.RiskType, r.Content}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
