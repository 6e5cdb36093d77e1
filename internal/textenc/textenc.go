// Package textenc decodes raw export bytes into a parsed table, handling the
// legacy-encoding ambiguity of user uploads. Exports arrive either GBK- or
// UTF-8-encoded with nothing in the bytes to say which; decoding with the
// wrong one yields garbled but parseable text, so the only reliable signal is
// whether the expected column shows up in the header row.
package textenc

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"riskcsv/internal/table"
)

// HeaderPredicate reports whether a header row contains the column the caller
// is after.
type HeaderPredicate func(headers []string) bool

// Resolve decodes raw with GBK and parses it; if no header satisfies pred, it
// re-decodes the same buffer as UTF-8 and re-parses. The second result is
// used regardless of whether the predicate then holds: matched=false with a
// nil error means both attempts parsed but neither exposed the wanted column,
// and t carries the headers of the UTF-8 attempt for error reporting.
//
// This is a single-retry policy, not a loop over candidate encodings.
func Resolve(raw []byte, delim rune, pred HeaderPredicate) (t *table.Table, matched bool, err error) {
	primary, err := decode(raw, simplifiedchinese.GBK)
	if err != nil {
		return nil, false, fmt.Errorf("decode gbk: %w", err)
	}
	t, err = table.Parse(primary, delim)
	if err == nil && pred(t.Headers) {
		return t, true, nil
	}

	fallback, err := decode(raw, unicode.UTF8BOM)
	if err != nil {
		return nil, false, fmt.Errorf("decode utf-8: %w", err)
	}
	t, err = table.Parse(fallback, delim)
	if err != nil {
		return nil, false, err
	}
	return t, pred(t.Headers), nil
}

func decode(raw []byte, enc encoding.Encoding) (string, error) {
	r := transform.NewReader(bytes.NewReader(raw), enc.NewDecoder())
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
