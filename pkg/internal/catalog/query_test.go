package catalog_test

import (
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
)

func rec(name, caption string) *model.FileRecord {
	return &model.FileRecord{FileName: name, Caption: caption}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"@moviechannel Spider-Man.2021_1080p+x264": "Spider Man 2021 1080p x264",
		"plain name":                "plain name",
		"dots.every.where":          "dots every where",
		"@mention_only":             "",
		"  padded   out  ":          "padded out",
		"":                          "",
	}

	for in, want := range cases {
		if got := catalog.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmptyQueryMatchesAll(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t"} {
		q := catalog.NewQuery(raw, false)
		if !q.MatchAll() {
			t.Errorf("NewQuery(%q) should match all", raw)
		}

		if !q.Matches(rec("anything at all", "")) {
			t.Errorf("NewQuery(%q) rejected a record", raw)
		}
	}
}

func TestSingleTokenBoundaries(t *testing.T) {
	q := catalog.NewQuery("her", false)

	matches := []string{
		"her 2022",
		"watch.her.now",
		"HER",
		"best_her_cut",
		"a+her+b",
	}
	for _, name := range matches {
		if !q.Matches(rec(name, "")) {
			t.Errorf("query %q should match %q", "her", name)
		}
	}

	rejects := []string{
		"mother india",
		"weather report",
		"herself",
	}
	for _, name := range rejects {
		if q.Matches(rec(name, "")) {
			t.Errorf("query %q should not match %q", "her", name)
		}
	}
}

func TestMultiTokenSeparators(t *testing.T) {
	q := catalog.NewQuery("dark knight", false)

	matches := []string{
		"the dark knight 2008",
		"dark.knight.1080p",
		"Dark_Knight_Rises",
		"dark sinister knight",
	}
	for _, name := range matches {
		if !q.Matches(rec(name, "")) {
			t.Errorf("query should match %q", name)
		}
	}

	if q.Matches(rec("darkknight", "")) {
		t.Error("tokens joined with nothing in between should not match")
	}

	if q.Matches(rec("knight in dark armor", "")) {
		t.Error("token order must be preserved")
	}
}

func TestInvalidRegexDegradesToLiteral(t *testing.T) {
	q := catalog.NewQuery("what(", false)

	if !q.Matches(rec("what(", "")) {
		t.Error("literal fallback should match the raw text exactly")
	}

	if q.Matches(rec("so what( now", "")) {
		t.Error("literal fallback must not match a containing name")
	}

	if q.Matches(rec("WHAT(", "")) {
		t.Error("literal fallback is an equality check, not a case fold")
	}
}

func TestCaptionToggle(t *testing.T) {
	withCaption := catalog.NewQuery("trailer", true)
	withoutCaption := catalog.NewQuery("trailer", false)

	r := rec("some file", "official trailer inside")

	if !withCaption.Matches(r) {
		t.Error("caption-enabled query should consult the caption")
	}

	if withoutCaption.Matches(r) {
		t.Error("caption-disabled query must ignore the caption")
	}
}
