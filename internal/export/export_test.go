package export_test

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"riskcsv/internal/export"
	"riskcsv/internal/extract"
)

func TestProcessedName(t *testing.T) {
	cases := map[string]string{
		"reviews.csv": "reviews_processed.txt",
		"reviews.txt": "reviews_processed.txt",
		"a.b.csv":     "a.b_processed.txt",
		"noext":       "noext_processed.txt",
	}
	for in, want := range cases {
		if got := export.ProcessedName(in); got != want {
			t.Fatalf("ProcessedName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTSV(t *testing.T) {
	rows := []extract.ProcessedRow{
		{Strategy: "tag", Content: "hello"},
		{Strategy: "tag", Content: "a\tb\nc"},
	}
	got := string(export.TSV(rows))
	want := "strategy\tcontent\n" +
		"tag\thello\n" +
		"tag\ta b c\n"
	if got != want {
		t.Fatalf("TSV = %q, want %q", got, want)
	}
}

func TestRiskCSV(t *testing.T) {
	rows := []extract.RiskRow{
		{NID: "N001", RiskScore: 0.75, RiskType: "辱骂", Content: `He said "hi"`},
		{RiskScore: 3, RiskType: "N/A", Content: "plain"},
	}
	data := export.RiskCSV(rows)
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("missing UTF-8 BOM")
	}
	body := string(data[3:])
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	if lines[0] != "nid,risk_score,risk_type,content" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != `N001,0.75,辱骂,"He said ""hi"""` {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if lines[2] != `,3,N/A,"plain"` {
		t.Fatalf("line 2 = %q", lines[2])
	}
}

// Every exported score must parse back to the same float it came from.
func TestRiskCSVScoreRoundTrip(t *testing.T) {
	scores := []float64{0, 0.1, 0.75, 1, 2.5, 99.999, 1e6}
	rows := make([]extract.RiskRow, len(scores))
	for i, s := range scores {
		rows[i] = extract.RiskRow{RiskScore: s, RiskType: "N/A", Content: "c"}
	}
	data := export.RiskCSV(rows)

	r := csv.NewReader(bytes.NewReader(data[3:]))
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	for i, s := range scores {
		got, err := strconv.ParseFloat(recs[i+1][1], 64)
		if err != nil {
			t.Fatalf("parse score %q: %v", recs[i+1][1], err)
		}
		if got != s {
			t.Fatalf("score %v round-tripped to %v", s, got)
		}
	}
}

func TestZip(t *testing.T) {
	entries := []export.Entry{
		{Name: "a_processed.txt", Data: []byte("strategy\tcontent\n")},
		{Name: "b_processed.txt", Data: []byte("strategy\tcontent\ntag\tx\n")},
	}
	data, err := export.Zip(entries)
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries = %d", len(zr.File))
	}
	for i, e := range entries {
		f := zr.File[i]
		if f.Name != e.Name {
			t.Fatalf("entry %d name = %q", i, f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry: %v", err)
		}
		if !bytes.Equal(b, e.Data) {
			t.Fatalf("entry %d content = %q", i, b)
		}
	}
}

func TestRiskXLSX(t *testing.T) {
	rows := []extract.RiskRow{
		{NID: "N001", RiskScore: 0.75, RiskType: "辱骂", Content: "内容一"},
		{RiskScore: 2, RiskType: "N/A", Content: "two"},
	}
	data, err := export.RiskXLSX(rows)
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue("Sheet1", "A1"); v != "nid" {
		t.Fatalf("A1 = %q", v)
	}
	if v, _ := f.GetCellValue("Sheet1", "A2"); v != "N001" {
		t.Fatalf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Sheet1", "B2"); v != "0.75" {
		t.Fatalf("B2 = %q", v)
	}
	if v, _ := f.GetCellValue("Sheet1", "D3"); v != "two" {
		t.Fatalf("D3 = %q", v)
	}
}

func TestFormatScore(t *testing.T) {
	cases := map[float64]string{
		0:    "0",
		0.75: "0.75",
		3:    "3",
		2.50: "2.5",
	}
	for in, want := range cases {
		if got := export.FormatScore(in); got != want {
			t.Fatalf("FormatScore(%v) = %q, want %q", in, got, want)
		}
	}
}
