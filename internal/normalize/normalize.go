// Package normalize canonicalizes raw review content so the same logical
// record maps to the same string across files.
package normalize

import (
	"regexp"
	"strings"
)

// reviewPrefix is the boilerplate some exports prepend to the content cell.
// It may be followed by an ASCII or full-width colon.
const reviewPrefix = "用户评论文本"

var wsRun = regexp.MustCompile(`[\t\r\n]+`)

// Normalize trims the input, strips one leading occurrence of the review
// prefix, and collapses tab/newline runs into single spaces. Idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, reviewPrefix) {
		s = s[len(reviewPrefix):]
		if strings.HasPrefix(s, ":") {
			s = s[1:]
		} else {
			s = strings.TrimPrefix(s, "：")
		}
	}
	s = wsRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
