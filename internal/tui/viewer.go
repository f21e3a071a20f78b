package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/render"
)

var (
	viewerBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	viewerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

type viewerModel struct {
	title    string
	rep      *model.AnalysisReport
	onSave   func() error // nil when history is unavailable
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	showRaw  bool
	saved    bool
	saveNote string
	wantQuit bool
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Title (1) + border (2) + status bar (1).
		vpWidth := max(m.width-2, 20)
		vpHeight := max(m.height-4, 5)
		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.wantQuit = true
			return m, tea.Quit
		case "esc", "backspace":
			m.wantQuit = false
			return m, tea.Quit
		case "r":
			m.showRaw = !m.showRaw
			m.viewport.SetContent(m.content())
			m.viewport.SetYOffset(0)
			return m, nil
		case "s":
			if m.onSave == nil || m.saved {
				return m, nil
			}
			if err := m.onSave(); err != nil {
				m.saveNote = fmt.Sprintf("save failed: %v", err)
			} else {
				m.saved = true
				m.saveNote = "saved to history"
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) content() string {
	if m.showRaw {
		return render.RawJSON(m.rep)
	}
	return render.New(m.viewport.Width - 2).Report(m.rep)
}

func (m viewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := viewerTitleStyle.Render(m.title)
	if m.showRaw {
		title += "  (raw JSON)"
	}

	body := viewerBorderStyle.Width(m.width - 2).Render(m.viewport.View())

	statusText := " ↑/↓ scroll  r raw JSON"
	if m.showRaw {
		statusText = " ↑/↓ scroll  r formatted"
	}
	if m.onSave != nil && !m.saved {
		statusText += "  s save"
	}
	statusText += "  esc new analysis  q quit"
	if m.saveNote != "" {
		statusText += "  · " + m.saveNote
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + body + "\n" + statusBar
}

// RunViewer shows the rendered report in a scrollable alt-screen view.
// When onSave is non-nil the s key stores the report through it, once.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to go back to the form.
func RunViewer(title string, rep *model.AnalysisReport, onSave func() error) (bool, error) {
	m := viewerModel{
		title:  title,
		rep:    rep,
		onSave: onSave,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(viewerModel)
	return final.wantQuit, nil
}
