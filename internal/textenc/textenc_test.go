package textenc_test

import (
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"riskcsv/internal/columns"
	"riskcsv/internal/textenc"
)

// gbkContentHeader is "内容,score\nhello,1\n" encoded as GBK
// (内 = C4 DA, 容 = C8 DD).
var gbkContentHeader = append(
	[]byte{0xC4, 0xDA, 0xC8, 0xDD},
	[]byte(",score\nhello,1\n")...,
)

func TestResolvePrimaryGBK(t *testing.T) {
	var m columns.Matcher
	tbl, matched, err := textenc.Resolve(gbkContentHeader, ',', m.HasContent)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !matched {
		t.Fatalf("predicate failed; headers: %v", tbl.Headers)
	}
	if tbl.Headers[0] != "内容" {
		t.Fatalf("header = %q, want 内容", tbl.Headers[0])
	}
	if v, _ := tbl.Row(0).Get("内容"); v != "hello" {
		t.Fatalf("row value = %q", v)
	}
}

func TestResolveGBKRoundTrip(t *testing.T) {
	// A full Chinese export encoded as GBK must resolve on the primary
	// attempt with every header and cell intact, not just the column the
	// predicate looks at.
	text := "内容,文心安全算子V2-风险得分,一级风险类型\n你好世界,0.85,暴恐\n"
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode gbk: %v", err)
	}
	var m columns.Matcher
	tbl, matched, err := textenc.Resolve(raw, ',', m.HasScore)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !matched {
		t.Fatalf("predicate failed; headers: %v", tbl.Headers)
	}
	if tbl.Headers[0] != "内容" || tbl.Headers[2] != "一级风险类型" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	if v, _ := tbl.Row(0).Get("内容"); v != "你好世界" {
		t.Fatalf("content = %q", v)
	}
	if v, _ := tbl.Row(0).Get("一级风险类型"); v != "暴恐" {
		t.Fatalf("risk type = %q", v)
	}
}

func TestResolveFallbackUTF8(t *testing.T) {
	// A UTF-8 export: decoding these bytes as GBK garbles the Chinese
	// headers into unrelated CJK text, so the score column only shows up on
	// the second attempt. The resolver must return the UTF-8-derived table.
	raw := []byte("文心安全算子V2-风险得分,内容\n0.5,abc\n")
	var m columns.Matcher
	tbl, matched, err := textenc.Resolve(raw, ',', m.HasScore)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !matched {
		t.Fatalf("predicate failed; headers: %v", tbl.Headers)
	}
	if tbl.Headers[0] != "文心安全算子V2-风险得分" {
		t.Fatalf("header = %q", tbl.Headers[0])
	}
	if v, _ := tbl.Row(0).Get("内容"); v != "abc" {
		t.Fatalf("row value = %q", v)
	}
}

func TestResolveBothAttemptsFail(t *testing.T) {
	// ASCII decodes identically under both encodings; nothing matches, and
	// the returned table must carry the second attempt's headers so the
	// caller can report what was actually found.
	raw := []byte("id,name\n1,a\n")
	var m columns.Matcher
	tbl, matched, err := textenc.Resolve(raw, ',', m.HasScore)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if matched {
		t.Fatal("predicate unexpectedly matched")
	}
	if len(tbl.Headers) != 2 || tbl.Headers[0] != "id" || tbl.Headers[1] != "name" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
}

func TestResolveUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("内容\nabc\n")...)
	var m columns.Matcher
	tbl, matched, err := textenc.Resolve(raw, ',', m.HasContent)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !matched {
		t.Fatalf("predicate failed; headers: %v", tbl.Headers)
	}
	if tbl.Headers[0] != "内容" {
		t.Fatalf("header = %q, BOM not stripped", tbl.Headers[0])
	}
}
