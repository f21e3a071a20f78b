package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/madisonlabs/marketlens/internal/model"
)

func TestReport_KnownListSection(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"skill_gaps": []any{"X", "Y"},
	})

	out := New(80).Report(rep)
	if !strings.Contains(out, "X") || !strings.Contains(out, "Y") {
		t.Errorf("output missing list items:\n%s", out)
	}
	if !strings.Contains(out, "Skill Gaps") {
		t.Errorf("output missing section label:\n%s", out)
	}
}

func TestReport_MissingSectionsOmitted(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"market_trends": "AI hiring keeps growing.",
	})

	out := New(80).Report(rep)
	if !strings.Contains(out, "Market Trends") {
		t.Errorf("output missing present section:\n%s", out)
	}
	for _, absent := range []string{"Skill Gaps", "Recommendations", "Run Metadata"} {
		if strings.Contains(out, absent) {
			t.Errorf("output contains block for absent section %q:\n%s", absent, out)
		}
	}
}

func TestReport_Idempotent(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"market_trends": "Steady growth in workforce analytics.",
		"skill_gaps":    []any{"X", "Y"},
		"in_demand_roles": []any{
			map[string]any{"title": "Data Engineer", "count": 14.0},
			map[string]any{"title": "ML Engineer", "count": 9.0},
		},
		"metadata":      map[string]any{"jobs_scanned": 120.0, "sources": 4.0, "run": "a4"},
		"role_counts":   map[string]any{"data": 14.0, "ml": 9.0, "platform": 3.0},
		"unknown_extra": map[string]any{"deep": map[string]any{"flag": true}},
	})

	r := New(100)
	first := r.Report(rep)
	second := r.Report(rep)
	if first != second {
		t.Error("rendering the same report twice produced different output")
	}

	// A fresh renderer with the same width must also agree.
	if third := New(100).Report(rep); third != first {
		t.Error("a fresh renderer produced different output for the same report")
	}
}

func TestReport_UnknownKeysRenderedGenerically(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"surprise_blob": map[string]any{"deep": map[string]any{"value": "kept"}},
	})

	out := New(80).Report(rep)
	if !strings.Contains(out, "Surprise Blob") {
		t.Errorf("output missing humanized unknown label:\n%s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("unknown key's value was dropped:\n%s", out)
	}
}

func TestReport_RecordTable(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"in_demand_roles": []any{
			map[string]any{"title": "Data Engineer", "count": 14.0},
			map[string]any{"title": "ML Engineer", "count": 9.0},
		},
	})

	out := New(100).Report(rep)
	for _, want := range []string{"In-Demand Roles", "Data Engineer", "ML Engineer", "14", "9"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_ChartFromNumericMap(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"role_counts": map[string]any{"data engineer": 14.0, "ml engineer": 7.0},
	})

	out := New(100).Report(rep)
	if !strings.Contains(out, "█") {
		t.Errorf("expected bar glyphs in chart output:\n%s", out)
	}
	for _, want := range []string{"Data Engineer", "Ml Engineer", "14", "7"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_NarrativeFromOutputShape(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"output": []any{
			map[string]any{"content": []any{
				map[string]any{"type": "output_text", "text": "Executive summary body."},
			}},
		},
	})

	out := New(80).Report(rep)
	if !strings.Contains(out, "Executive Insight Report") {
		t.Errorf("missing narrative heading:\n%s", out)
	}
	if !strings.Contains(out, "Executive summary body.") {
		t.Errorf("missing narrative text:\n%s", out)
	}
	// The consumed key must not also render as a generic section.
	if strings.Contains(out, "\"output_text\"") {
		t.Errorf("narrative source key rendered twice:\n%s", out)
	}
}

func TestReport_MetadataBlock(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"metadata": map[string]any{"jobs_scanned": 120.0, "run_id": "a4-final"},
	})

	out := New(100).Report(rep)
	for _, want := range []string{"Run Metadata", "Jobs Scanned", "120", "a4-final"} {
		if !strings.Contains(out, want) {
			t.Errorf("metadata block missing %q:\n%s", want, out)
		}
	}
}

func TestReport_PromptTruncated(t *testing.T) {
	rep := model.NewAnalysisReport(map[string]any{
		"prompt": strings.Repeat("p", 3000),
	})

	out := New(100).Report(rep)
	if !strings.Contains(out, "Prompt") {
		t.Errorf("missing prompt block:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected truncation marker for long prompt:\n%s", out)
	}
	if strings.Count(out, "p") > 2600 {
		t.Errorf("prompt was not truncated: %d p's", strings.Count(out, "p"))
	}
}

func TestReport_PromptTruncatedMultibyte(t *testing.T) {
	// Truncation must cut on rune boundaries, never mid-character.
	rep := model.NewAnalysisReport(map[string]any{
		"prompt": strings.Repeat("é", 3000),
	})

	out := New(100).Report(rep)
	if !utf8.ValidString(out) {
		t.Errorf("truncated output is not valid UTF-8:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected truncation marker for long prompt:\n%s", out)
	}
}

func TestReport_Empty(t *testing.T) {
	out := New(80).Report(model.NewAnalysisReport(nil))
	if !strings.Contains(out, "nothing to show") {
		t.Errorf("unexpected empty-report output:\n%s", out)
	}
	if out != New(80).Report(model.NewAnalysisReport(map[string]any{})) {
		t.Error("empty report rendering not stable")
	}
}

func TestHumanize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"skill_gaps", "Skill Gaps"},
		{"market-trends", "Market Trends"},
		{"already Label", "Already Label"},
		{"single", "Single"},
		{"marchés_émergents", "Marchés Émergents"},
	}
	for _, tc := range cases {
		if got := humanize(tc.in); got != tc.want {
			t.Errorf("humanize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four five", 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("wordWrap = %q, want %q", got, want)
	}
}
