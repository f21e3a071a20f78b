package model

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AnalysisRequest is the (brand, goal) pair submitted by the user.
// Validated before send, immutable, discarded after the request completes.
type AnalysisRequest struct {
	Brand string `json:"brand"`
	Goal  string `json:"goal"`
}

// Validate rejects empty or whitespace-only fields.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Brand) == "" {
		return &ValidationError{Field: "brand", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.Goal) == "" {
		return &ValidationError{Field: "goal", Reason: "must not be empty"}
	}
	return nil
}

// Known section keys produced by the analysis workflow. Advisory only: none
// is mandatory, and payloads may carry keys not listed here.
var KnownSections = []string{
	"market_trends",
	"value_propositions",
	"in_demand_roles",
	"skills_analysis",
	"skill_gaps",
	"recommendations",
}

// AnalysisReport is the loosely-typed result of one analysis run. It wraps the
// raw JSON object and exposes typed accessors that report absence instead of
// failing, so callers never have to guess the workflow's exact schema.
type AnalysisReport struct {
	fields map[string]any
}

// NewAnalysisReport wraps an already-decoded JSON object.
func NewAnalysisReport(fields map[string]any) *AnalysisReport {
	if fields == nil {
		fields = map[string]any{}
	}
	return &AnalysisReport{fields: fields}
}

// Len returns the number of top-level keys.
func (r *AnalysisReport) Len() int {
	return len(r.fields)
}

// Fields returns the underlying object. Callers must not mutate it.
func (r *AnalysisReport) Fields() map[string]any {
	return r.fields
}

// Raw returns the value for key and whether it exists.
func (r *AnalysisReport) Raw(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Text returns the value for key if it is a non-blank string.
func (r *AnalysisReport) Text(key string) (string, bool) {
	s, ok := r.fields[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// StringList returns the value for key if it is a list of scalars, rendered
// as strings. Returns false for empty lists and lists holding nested objects.
func (r *AnalysisReport) StringList(key string) ([]string, bool) {
	v, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	return ScalarList(v)
}

// Records returns the value for key if it is a list of JSON objects.
func (r *AnalysisReport) Records(key string) ([]map[string]any, bool) {
	v, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	return RecordList(v)
}

// NumericMap returns the value for key if it is an object whose values are all
// numbers, e.g. {"data engineer": 14, "ml engineer": 9}.
func (r *AnalysisReport) NumericMap(key string) (map[string]float64, bool) {
	v, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	return NumberMap(v)
}

// Keys returns all top-level keys in a stable order: known sections first (in
// their canonical order), then everything else sorted alphabetically.
func (r *AnalysisReport) Keys() []string {
	known := make(map[string]bool, len(KnownSections))
	var keys []string
	for _, k := range KnownSections {
		if _, ok := r.fields[k]; ok {
			keys = append(keys, k)
			known[k] = true
		}
	}
	var rest []string
	for k := range r.fields {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// ScalarList converts a JSON list of scalars ([]any or []string) into display
// strings. Returns false if the list is empty or contains nested structures.
func ScalarList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		if len(list) == 0 {
			return nil, false
		}
		return list, true
	case []any:
		if len(list) == 0 {
			return nil, false
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := ScalarString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// RecordList converts a JSON list into objects. Returns false if the list is
// empty or any item is not an object.
func RecordList(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		records = append(records, rec)
	}
	return records, true
}

// NumberMap converts a JSON object into name→number pairs. Returns false if
// the object is empty or any value is not a number.
func NumberMap(v any) (map[string]float64, bool) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	out := make(map[string]float64, len(obj))
	for k, val := range obj {
		n, ok := AsNumber(val)
		if !ok {
			return nil, false
		}
		out[k] = n
	}
	return out, true
}

// ScalarString renders a JSON scalar as a display string.
func ScalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		if s {
			return "true", true
		}
		return "false", true
	case float64:
		return FormatNumber(s), true
	case int:
		return FormatNumber(float64(s)), true
	case nil:
		return "", true
	}
	return "", false
}

// AsNumber reports whether v is a JSON number and returns it as float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// FormatNumber renders a float without a decimal tail when it is whole.
func FormatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ReportRecord is one saved report in the history store.
type ReportRecord struct {
	ID         int64
	Brand      string
	Goal       string
	ReceivedAt time.Time
	Payload    []byte // raw normalized JSON object
}

// ReportSource produces an AnalysisReport, either from the webhook or from an
// uploaded file.
type ReportSource interface {
	Fetch(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error)
}

// ReportStore persists received reports for later re-rendering.
type ReportStore interface {
	Save(rec ReportRecord) (int64, error)
	List(limit int) ([]ReportRecord, error)
	Get(id int64) (ReportRecord, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}
