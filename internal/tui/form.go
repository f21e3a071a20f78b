package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/madisonlabs/marketlens/internal/model"
)

var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 0, 2)

	formCaptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 1, 2)

	formLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 0, 0, 2)

	focusedLabelStyle = formLabelStyle.
				Foreground(lipgloss.Color("39"))

	formInputStyle = lipgloss.NewStyle().
			Padding(0, 0, 1, 2)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 0, 1, 2)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1).
			MarginLeft(2).
			MarginBottom(1)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

const (
	fieldBrand = iota
	fieldGoal
	fieldCount
)

type formModel struct {
	inputs    [fieldCount]textinput.Model
	focus     int
	banner    string // recoverable error from the previous attempt
	errMsg    string // inline validation error
	submitted bool
}

func newFormModel(banner string) formModel {
	brand := textinput.New()
	brand.Placeholder = "e.g. Madison Apparel"
	brand.Prompt = "> "
	brand.CharLimit = 120
	brand.Width = 48
	brand.Focus()

	goal := textinput.New()
	goal.Placeholder = "e.g. grow DTC revenue with a stronger data team"
	goal.Prompt = "> "
	goal.CharLimit = 240
	goal.Width = 48

	return formModel{
		inputs: [fieldCount]textinput.Model{fieldBrand: brand, fieldGoal: goal},
		banner: banner,
	}
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil

		case "enter":
			if m.focus < fieldCount-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			req := m.request()
			if err := req.Validate(); err != nil {
				var verr *model.ValidationError
				if errors.As(err, &verr) {
					m.errMsg = verr.Error()
					m.setFocus(fieldIndex(verr.Field))
				} else {
					m.errMsg = err.Error()
				}
				return m, nil
			}
			m.errMsg = ""
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *formModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m formModel) request() model.AnalysisRequest {
	return model.AnalysisRequest{
		Brand: strings.TrimSpace(m.inputs[fieldBrand].Value()),
		Goal:  strings.TrimSpace(m.inputs[fieldGoal].Value()),
	}
}

func fieldIndex(name string) int {
	if name == "goal" {
		return fieldGoal
	}
	return fieldBrand
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(formTitleStyle.Render("MarketLens") + "\n")
	b.WriteString(formCaptionStyle.Render("Market + workforce insight reports, rendered for humans") + "\n")

	if m.banner != "" {
		b.WriteString(bannerStyle.Render(m.banner) + "\n")
	}

	labels := [fieldCount]string{fieldBrand: "Brand", fieldGoal: "Analysis goal"}
	for i := 0; i < fieldCount; i++ {
		style := formLabelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(labels[i]) + "\n")
		b.WriteString(formInputStyle.Render(m.inputs[i].View()) + "\n")
	}

	if m.errMsg != "" {
		b.WriteString(formErrorStyle.Render("⚠ "+m.errMsg) + "\n")
	}

	b.WriteString(formHintStyle.Render("tab/↑/↓ switch field  enter submit  esc quit"))
	return b.String()
}

// RunForm shows the two-field input form. banner, when non-empty, is a
// recoverable error from the previous attempt shown above the fields. The
// bool is false if the user quit instead of submitting.
func RunForm(banner string) (model.AnalysisRequest, bool, error) {
	p := tea.NewProgram(newFormModel(banner))
	result, err := p.Run()
	if err != nil {
		return model.AnalysisRequest{}, false, err
	}
	final := result.(formModel)
	if !final.submitted {
		return model.AnalysisRequest{}, false, nil
	}
	return final.request(), true, nil
}
