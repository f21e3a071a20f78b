package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/report"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")) // bright blue

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dim gray

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	keyStyle = lipgloss.NewStyle().
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))
)

// Friendlier labels for the advisory section keys; everything else is
// humanized mechanically.
var sectionLabels = map[string]string{
	"market_trends":      "Market Trends",
	"value_propositions": "Value Propositions",
	"in_demand_roles":    "In-Demand Roles",
	"skills_analysis":    "Skills Analysis",
	"skill_gaps":         "Skill Gaps",
	"recommendations":    "Recommendations",
	"metadata":           "Run Metadata",
	"prompt":             "Prompt",
}

// narrativeLabel heads the extracted report text, whatever key it came from.
const narrativeLabel = "Executive Insight Report"

// promptTruncateAt caps how much of the saved prompt is shown.
const promptTruncateAt = 2500

// Renderer turns an AnalysisReport into styled terminal output. Rendering is
// pure: the report is never mutated and the same report always yields the
// same string.
type Renderer struct {
	width int
}

// New returns a Renderer targeting the given display width.
func New(width int) *Renderer {
	if width <= 0 {
		width = 100
	}
	if width < 40 {
		width = 40
	}
	return &Renderer{width: width}
}

// Report renders every part of the report as labeled blocks: run metadata,
// the extracted narrative, each recognized section by shape, and unknown keys
// generically so no information is silently lost. Absent sections are simply
// omitted.
func (r *Renderer) Report(rep *model.AnalysisReport) string {
	if rep == nil || rep.Len() == 0 {
		return noticeStyle.Render("The report is empty — nothing to show.") + "\n"
	}

	consumed := make(map[string]bool)
	var blocks []string

	if md, ok := report.Metadata(rep); ok {
		blocks = append(blocks, r.metadataBlock(md))
		consumed["metadata"] = true
	}

	if text, key, ok := report.NarrativeText(rep); ok {
		blocks = append(blocks, r.section(narrativeLabel, r.narrative(text)))
		consumed[key] = true
	}

	for _, key := range rep.Keys() {
		if consumed[key] || key == "prompt" {
			continue
		}
		v, _ := rep.Raw(key)
		blocks = append(blocks, r.section(sectionLabel(key), r.value(v)))
	}

	if prompt, ok := report.Prompt(rep); ok {
		blocks = append(blocks, r.section(sectionLabels["prompt"], r.promptBlock(prompt)))
	}

	if len(blocks) == 0 {
		return noticeStyle.Render("The report is empty — nothing to show.") + "\n"
	}
	return strings.Join(blocks, "\n") + "\n"
}

// RawJSON pretty-prints the underlying payload for the debug view. Key order
// is deterministic (encoding/json sorts map keys).
func RawJSON(rep *model.AnalysisReport) string {
	data, err := json.MarshalIndent(rep.Fields(), "", "  ")
	if err != nil {
		return fmt.Sprintf("(%v)", err)
	}
	return string(data)
}

// section renders a header rule followed by the body.
func (r *Renderer) section(label, body string) string {
	head := sectionHeaderStyle.Render(label)
	fill := r.width - lipgloss.Width(head) - 4
	if fill < 3 {
		fill = 3
	}
	rule := ruleStyle.Render("── ") + head + " " + ruleStyle.Render(strings.Repeat("─", fill))
	return rule + "\n" + body
}

// value picks a presentation by shape.
func (r *Renderer) value(v any) string {
	switch report.Classify(v) {
	case report.KindNarrative:
		s, _ := v.(string)
		return r.narrative(s)
	case report.KindBullets:
		items, _ := model.ScalarList(v)
		return r.bullets(items)
	case report.KindTable:
		records, _ := model.RecordList(v)
		return r.recordTable(records)
	case report.KindChart:
		data, _ := model.NumberMap(v)
		return r.chart(data)
	case report.KindKeyValues:
		obj, _ := v.(map[string]any)
		return r.keyValues(obj)
	default:
		return r.generic(v)
	}
}

func (r *Renderer) narrative(text string) string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		wrapped = append(wrapped, bodyStyle.Render(wordWrap(p, r.width-2)))
	}
	return strings.Join(wrapped, "\n\n") + "\n"
}

func (r *Renderer) bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		lines := strings.Split(wordWrap(item, r.width-4), "\n")
		b.WriteString("  " + bulletStyle.Render("•") + " " + bodyStyle.Render(lines[0]) + "\n")
		for _, line := range lines[1:] {
			b.WriteString("    " + bodyStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

// recordTable renders a list of objects as a table. Columns are the sorted
// union of keys so output never depends on map iteration order.
func (r *Renderer) recordTable(records []map[string]any) string {
	colSet := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = humanize(c)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Width(min(r.width, 8+len(cols)*20)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...)

	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cellString(rec[c])
		}
		t.Row(row...)
	}
	return t.Render() + "\n"
}

// keyValues renders a name→scalar object as aligned label/value lines,
// sorted by name.
func (r *Renderer) keyValues(obj map[string]any) string {
	keys := make([]string, 0, len(obj))
	labelWidth := 0
	for k := range obj {
		keys = append(keys, k)
		if w := lipgloss.Width(humanize(k)); w > labelWidth {
			labelWidth = w
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		val, _ := model.ScalarString(obj[k])
		label := keyStyle.Render(padRight(humanize(k), labelWidth))
		b.WriteString("  " + label + "  " + bodyStyle.Render(val) + "\n")
	}
	return b.String()
}

// generic is the no-information-lost fallback: the raw value as indented JSON.
func (r *Renderer) generic(v any) string {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return dimStyle.Render(fmt.Sprintf("  %v", v)) + "\n"
	}
	return dimStyle.Render("  "+string(data)) + "\n"
}

func (r *Renderer) promptBlock(prompt string) string {
	if runes := []rune(prompt); len(runes) > promptTruncateAt {
		prompt = string(runes[:promptTruncateAt]) + "\n..."
	}
	return dimStyle.Render(wordWrap(prompt, r.width-2)) + "\n"
}

// metadataBlock shows the run metadata as key/values plus a bar chart of its
// numeric entries, mirroring the workflow dashboard's metadata panel.
func (r *Renderer) metadataBlock(md map[string]any) string {
	body := r.value(md)

	numeric := make(map[string]float64)
	for k, v := range md {
		if n, ok := model.AsNumber(v); ok {
			numeric[k] = n
		}
	}
	// Only add the chart when the key/values view didn't already draw one.
	if len(numeric) > 0 && len(numeric) < len(md) {
		body += "\n" + r.chart(numeric)
	}
	return r.section(sectionLabels["metadata"], body)
}

func sectionLabel(key string) string {
	if label, ok := sectionLabels[key]; ok {
		return label
	}
	return humanize(key)
}

// humanize turns "skill_gaps" into "Skill Gaps".
func humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := model.ScalarString(v); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func wordWrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
