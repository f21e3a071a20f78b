package report

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/madisonlabs/marketlens/internal/model"
)

// Decode parses raw JSON bytes into an AnalysisReport, normalizing the
// envelope shapes the n8n engine is known to produce. source names where the
// bytes came from ("webhook" or a file path) for error messages.
func Decode(data []byte, source string) (*model.AnalysisReport, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &model.ParseError{Source: source, Reason: "invalid JSON", Err: err}
	}

	payload := normalize(raw)
	if payload == nil {
		return nil, &model.ParseError{Source: source, Reason: "payload is not a JSON object"}
	}

	// A common user mistake: exporting the workflow definition instead of the
	// workflow's output file.
	if isWorkflowDefinition(payload) {
		return nil, &model.ParseError{
			Source: source,
			Reason: "this looks like the n8n workflow definition (nodes + connections), not a workflow output",
		}
	}

	return model.NewAnalysisReport(payload), nil
}

// LoadFile reads and decodes a JSON report from disk (the upload path).
func LoadFile(path string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ParseError{Source: path, Reason: "read file", Err: err}
	}
	return Decode(data, path)
}

// normalize collapses the known n8n envelope shapes to a single object:
// a plain object, [{"json": {...}}, ...], or [{...}, ...]. Returns nil when
// the payload is not object-shaped at all.
func normalize(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return nil
		}
		if inner, ok := first["json"].(map[string]any); ok {
			return inner
		}
		return first
	}
	return nil
}

func isWorkflowDefinition(payload map[string]any) bool {
	_, hasNodes := payload["nodes"]
	_, hasConnections := payload["connections"]
	return hasNodes && hasConnections
}

// deepGet walks obj along path, where each element is a string (object key)
// or an int (list index). Returns false as soon as the path diverges.
func deepGet(obj any, path ...any) (any, bool) {
	cur := obj
	for _, p := range path {
		switch key := p.(type) {
		case int:
			list, ok := cur.([]any)
			if !ok || key < 0 || key >= len(list) {
				return nil, false
			}
			cur = list[key]
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = m[key]
			if !ok {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

// Metadata returns the run metadata object, probing "metadata" at the top
// level and under "json". The bool also covers "present but not an object".
func Metadata(r *model.AnalysisReport) (map[string]any, bool) {
	if md, ok := r.Fields()["metadata"].(map[string]any); ok && len(md) > 0 {
		return md, true
	}
	if v, ok := deepGet(r.Fields(), "json", "metadata"); ok {
		if md, ok := v.(map[string]any); ok && len(md) > 0 {
			return md, true
		}
	}
	return nil, false
}

// Prompt returns the prompt the workflow's input builder produced, if saved.
func Prompt(r *model.AnalysisReport) (string, bool) {
	if p, ok := r.Text("prompt"); ok {
		return p, true
	}
	if v, ok := deepGet(r.Fields(), "json", "prompt"); ok {
		if p, ok := v.(string); ok && strings.TrimSpace(p) != "" {
			return strings.TrimSpace(p), true
		}
	}
	return "", false
}

// textCandidatePaths are tried in order for the report narrative when the
// n8n output shape is absent. Covers OpenAI and LangChain response layouts.
var textCandidatePaths = [][]any{
	{"text"},
	{"content"},
	{"response"},
	{"result"},
	{"message", "content"},
	{"choices", 0, "message", "content"},
	{"choices", 0, "text"},
	{"data", "text"},
	{"data", "content"},
	{"data", "output"},
}

// minFallbackTextLen is the threshold for the longest-string fallback: short
// strings are more likely labels than a report body.
const minFallbackTextLen = 200

// NarrativeText extracts the main report narrative. It returns the text and
// the top-level key it was found under, so the renderer can skip that key
// when walking the remaining sections.
//
// Lookup order: the n8n agent shape
// {"output":[{"content":[{"type":"output_text","text":...}]}]}, then the
// candidate paths, then the longest top-level string over minFallbackTextLen.
func NarrativeText(r *model.AnalysisReport) (text, key string, ok bool) {
	fields := r.Fields()

	if out, isList := fields["output"].([]any); isList {
		var parts []string
		for _, msg := range out {
			content, _ := deepGet(msg, "content")
			items, isItems := content.([]any)
			if !isItems {
				continue
			}
			for _, c := range items {
				typ, _ := deepGet(c, "type")
				txt, _ := deepGet(c, "text")
				if typ == "output_text" {
					if s, isStr := txt.(string); isStr && strings.TrimSpace(s) != "" {
						parts = append(parts, strings.TrimSpace(s))
					}
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n"), "output", true
		}
	}

	for _, path := range textCandidatePaths {
		if v, found := deepGet(fields, path...); found {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), path[0].(string), true
			}
		}
	}

	// Fallback: the longest long string field wins.
	var bestKey, bestText string
	for k, v := range fields {
		s, isStr := v.(string)
		if !isStr {
			continue
		}
		s = strings.TrimSpace(s)
		if len(s) <= minFallbackTextLen {
			continue
		}
		// Ties break on key so the result never depends on map order.
		if len(s) > len(bestText) || (len(s) == len(bestText) && k < bestKey) {
			bestKey, bestText = k, s
		}
	}
	if bestText != "" {
		return bestText, bestKey, true
	}

	return "", "", false
}
