// Package columns resolves logical column roles (content, risk score, risk
// type, NID) against the header row of an uploaded export. Exports come from
// several tools that name the same column differently, so resolution runs
// exact-alias rules first and falls back to substring containment.
package columns

import "strings"

// scoreCanonical is the fully-qualified score column emitted by the scoring
// operator's own export.
const scoreCanonical = "文心安全算子V2-风险得分"

var (
	contentAliases = []string{"内容", "content"}
	scoreFragments = []string{"风险得分", "Risk Score", "安全算子"}
	nidFragments   = []string{"业务ID", "BUSINESS ID"}
)

const riskTypeFragment = "一级风险类型"

// ContentAliases returns the accepted content header names, for error
// messages.
func ContentAliases() []string {
	out := make([]string, len(contentAliases))
	copy(out, contentAliases)
	return out
}

// Matcher resolves headers for one file. The zero value uses the built-in
// aliases; ExtraScoreFragments extends the substring rules for the score
// column (config key score_aliases).
type Matcher struct {
	ExtraScoreFragments []string
}

// Content returns the header to treat as the content column: first exact
// trimmed match of 内容, then of content.
func (m Matcher) Content(headers []string) (string, bool) {
	for _, alias := range contentAliases {
		for _, h := range headers {
			if strings.TrimSpace(h) == alias {
				return h, true
			}
		}
	}
	return "", false
}

// Score returns the header to treat as the risk score column: exact match of
// the canonical operator column, then any header containing a score fragment.
func (m Matcher) Score(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.TrimSpace(h) == scoreCanonical {
			return h, true
		}
	}
	fragments := scoreFragments
	if len(m.ExtraScoreFragments) > 0 {
		fragments = append(append([]string{}, scoreFragments...), m.ExtraScoreFragments...)
	}
	for _, h := range headers {
		t := strings.TrimSpace(h)
		for _, f := range fragments {
			if f != "" && strings.Contains(t, f) {
				return h, true
			}
		}
	}
	return "", false
}

// RiskType returns the header holding the first-level risk type, if any.
func (m Matcher) RiskType(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.Contains(strings.TrimSpace(h), riskTypeFragment) {
			return h, true
		}
	}
	return "", false
}

// NID returns the header holding the external business id, if any. A header
// matches when its upper-cased trimmed text equals NID or contains a business
// id fragment.
func (m Matcher) NID(headers []string) (string, bool) {
	for _, h := range headers {
		u := strings.ToUpper(strings.TrimSpace(h))
		if u == "NID" {
			return h, true
		}
		for _, f := range nidFragments {
			if strings.Contains(u, f) {
				return h, true
			}
		}
	}
	return "", false
}

// HasContent reports whether a content column is locatable. Used as the
// encoding-fallback predicate for content processing.
func (m Matcher) HasContent(headers []string) bool {
	_, ok := m.Content(headers)
	return ok
}

// HasScore reports whether a score column is locatable. Used as the
// encoding-fallback predicate for risk processing.
func (m Matcher) HasScore(headers []string) bool {
	_, ok := m.Score(headers)
	return ok
}

// HasNID reports whether an NID column is locatable. Used as the
// encoding-fallback predicate for mapping files.
func (m Matcher) HasNID(headers []string) bool {
	_, ok := m.NID(headers)
	return ok
}
