package report

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Kind
	}{
		{"string", "a narrative paragraph", KindNarrative},
		{"string slice", []string{"Go", "SQL"}, KindBullets},
		{"scalar list", []any{"one", "two"}, KindBullets},
		{"mixed scalar list", []any{"one", 2.0, true}, KindBullets},
		{"record list", []any{
			map[string]any{"title": "Data Engineer", "count": 14.0},
			map[string]any{"title": "ML Engineer", "count": 9.0},
		}, KindTable},
		{"mixed list", []any{"one", map[string]any{"a": 1.0}}, KindGeneric},
		{"empty list", []any{}, KindGeneric},
		{"numeric map", map[string]any{"roles": 14.0, "skills": 9.0}, KindChart},
		{"scalar map", map[string]any{"run": "a4", "version": 2.0}, KindKeyValues},
		{"nested map", map[string]any{"inner": map[string]any{"a": 1.0}}, KindGeneric},
		{"empty map", map[string]any{}, KindGeneric},
		{"number", 42.0, KindGeneric},
		{"bool", true, KindGeneric},
		{"nil", nil, KindGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.in); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
