package report

import (
	"github.com/madisonlabs/marketlens/internal/model"
)

// Kind describes how a section's value should be presented.
type Kind int

const (
	// KindNarrative is free text rendered as wrapped paragraphs.
	KindNarrative Kind = iota
	// KindBullets is a list of scalars rendered as a bulleted list.
	KindBullets
	// KindTable is a list of objects rendered as a table.
	KindTable
	// KindChart is a name→number object rendered as a bar chart.
	KindChart
	// KindKeyValues is a name→scalar object rendered as a two-column table.
	KindKeyValues
	// KindGeneric is anything else, rendered as label + raw JSON so nothing
	// is silently dropped.
	KindGeneric
)

// Classify inspects a decoded JSON value and picks a presentation kind. The
// workflow's schema is advisory only, so this is shape-driven rather than
// key-driven.
func Classify(v any) Kind {
	switch val := v.(type) {
	case string:
		return KindNarrative

	case []string:
		if len(val) == 0 {
			return KindGeneric
		}
		return KindBullets

	case []any:
		if len(val) == 0 {
			return KindGeneric
		}
		if _, ok := model.ScalarList(val); ok {
			return KindBullets
		}
		if _, ok := model.RecordList(val); ok {
			return KindTable
		}
		return KindGeneric

	case map[string]any:
		if len(val) == 0 {
			return KindGeneric
		}
		if _, ok := model.NumberMap(val); ok {
			return KindChart
		}
		if allScalars(val) {
			return KindKeyValues
		}
		return KindGeneric
	}
	return KindGeneric
}

func allScalars(obj map[string]any) bool {
	for _, v := range obj {
		if _, ok := model.ScalarString(v); !ok {
			return false
		}
	}
	return true
}
