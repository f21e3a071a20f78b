package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/madisonlabs/marketlens/internal/model"
)

const (
	maxChartLabelWidth = 24
	minChartBarWidth   = 10
)

// chart renders a name→number map as a horizontal bar chart, largest value
// first (ties alphabetical). Bars are scaled to the widest value; zero and
// negative values get no bar, just the number.
func (r *Renderer) chart(data map[string]float64) string {
	type entry struct {
		name  string
		value float64
	}
	entries := make([]entry, 0, len(data))
	maxVal := 0.0
	labelWidth := 0
	for k, v := range data {
		entries = append(entries, entry{name: k, value: v})
		if v > maxVal {
			maxVal = v
		}
		if w := lipgloss.Width(humanize(k)); w > labelWidth {
			labelWidth = w
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].name < entries[j].name
	})

	if labelWidth > maxChartLabelWidth {
		labelWidth = maxChartLabelWidth
	}
	barWidth := r.width - labelWidth - 12
	if barWidth < minChartBarWidth {
		barWidth = minChartBarWidth
	}

	var b strings.Builder
	for _, e := range entries {
		label := humanize(e.name)
		if lipgloss.Width(label) > labelWidth {
			label = truncate(label, labelWidth)
		}

		bar := ""
		if maxVal > 0 && e.value > 0 {
			n := int(math.Round(e.value / maxVal * float64(barWidth)))
			if n < 1 {
				n = 1
			}
			bar = strings.Repeat("█", n)
		}

		b.WriteString("  " + keyStyle.Render(padRight(label, labelWidth)) + "  ")
		if bar != "" {
			b.WriteString(barStyle.Render(bar) + " ")
		}
		b.WriteString(numberStyle.Render(model.FormatNumber(e.value)) + "\n")
	}
	return b.String()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
