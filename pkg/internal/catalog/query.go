package catalog

import (
	"regexp"
	"strings"

	"github.com/yeisme/mediavault/pkg/internal/model"
)

// normalizePattern strips platform mentions and collapses the punctuation
// users type interchangeably with spaces (dots, plus, minus, underscore).
var normalizePattern = regexp.MustCompile(`@\w+|[_\-.+]`)

// Normalize rewrites a file name, caption, or query the way records are
// stored: mentions removed, join punctuation replaced with spaces. Searching
// "spider-man" and "spider man" must hit the same records.
func Normalize(s string) string {
	return strings.Join(strings.Fields(normalizePattern.ReplaceAllString(s, " ")), " ")
}

// Query is a compiled search predicate.
//
// The raw query is user input, not trusted regex, but it is compiled as one:
// a single token is wrapped in boundary alternations so "her" does not match
// "mother", and spaces in multi-token queries become permissive separators so
// tokens may be joined by anything in the stored name. When the raw text does
// not compile, the query degrades to a literal equality check against the
// raw text instead of failing the search.
type Query struct {
	Raw        string
	UseCaption bool

	re       *regexp.Regexp
	literal  string
	matchAll bool
}

// NewQuery builds the predicate for a raw query string. An empty or
// whitespace-only query matches every record.
func NewQuery(raw string, useCaption bool) Query {
	q := Query{Raw: raw, UseCaption: useCaption}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		q.matchAll = true
		return q
	}

	var pattern string
	if !strings.Contains(trimmed, " ") {
		pattern = `(\b|[\.\+\-_])` + trimmed + `(\b|[\.\+\-_])`
	} else {
		pattern = strings.ReplaceAll(trimmed, " ", `.*[\s\.\+\-_]`)
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		q.literal = trimmed
		return q
	}

	q.re = re

	return q
}

// MatchAll reports whether the query matches unconditionally.
func (q Query) MatchAll() bool {
	return q.matchAll
}

// Matches reports whether a record satisfies the predicate. The file name is
// always consulted; the caption only when the query was built with the
// caption toggle on.
func (q Query) Matches(rec *model.FileRecord) bool {
	if q.matchAll {
		return true
	}

	if q.matchText(rec.FileName) {
		return true
	}

	if q.UseCaption && rec.Caption != "" {
		return q.matchText(rec.Caption)
	}

	return false
}

func (q Query) matchText(s string) bool {
	if q.re != nil {
		return q.re.MatchString(s)
	}

	return s == q.literal
}
