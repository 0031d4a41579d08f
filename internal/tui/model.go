package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finsight-ai/finsight/internal/domain"
)

const (
	headerHeight = 1
	statusHeight = 1

	defaultStatus = "Enter to ask, Ctrl+S to toggle sources, Ctrl+C to quit."
	waitingStatus = "Thinking..."
)

// ChatPort is the subset of the analyzer the terminal client needs.
type ChatPort interface {
	Chat(ctx context.Context, sessionID, prompt string) (*domain.Answer, error)
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer *domain.Answer
}

// errMsg carries a failed question back into the update loop.
type errMsg struct {
	err error
}

// Model is the interactive chat screen for one analysis session.
type Model struct {
	service ChatPort

	sessionID     string
	title         string
	messages      []domain.Message
	initialCharts []domain.Chart

	input    textinput.Model
	viewport viewport.Model

	status      string
	showSources bool
	waiting     bool
	ready       bool
}

// New builds the chat screen seeded with the session's stored transcript.
func New(service ChatPort, sess *domain.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the report..."
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		service:       service,
		sessionID:     sess.ID,
		title:         sess.Title,
		messages:      append([]domain.Message(nil), sess.Messages...),
		initialCharts: sess.InitialCharts,
		input:         ti,
		viewport:      viewport.New(0, 0),
		status:        defaultStatus,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		frameW, frameH := boxStyle.GetFrameSize()
		inputH := inputStyle.GetVerticalFrameSize() + 1

		width := max(msg.Width-frameW, 20)
		height := max(msg.Height-frameH-inputH-headerHeight-statusHeight, 5)

		m.viewport.Width = width
		m.viewport.Height = height
		m.input.Width = width - 4
		m.ready = true

		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "ctrl+s":
			m.showSources = !m.showSources
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, nil

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.waiting {
				return m, nil
			}
			m.messages = append(m.messages, domain.Message{
				Role:    domain.RoleUser,
				Content: prompt,
			})
			m.input.Reset()
			m.waiting = true
			m.status = waitingStatus
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.askCmd(prompt)
		}

	case answerMsg:
		m.messages = append(m.messages, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   msg.answer.Text,
			Sources:   msg.answer.Sources,
			ChartData: msg.answer.Charts,
		})
		m.waiting = false
		m.status = defaultStatus
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case errMsg:
		m.waiting = false
		m.status = "Error: " + msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("FinSight") + " " + titleStyle.Render(m.title)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		boxStyle.Width(m.viewport.Width).Render(m.viewport.View()),
		inputStyle.Width(m.viewport.Width).Render(m.input.View()),
		statusStyle.Render(m.status),
	)
}

// askCmd runs the question against the analyzer off the update loop.
func (m Model) askCmd(prompt string) tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		answer, err := service.Chat(context.Background(), sessionID, prompt)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (m Model) renderTranscript() string {
	var sb strings.Builder

	if len(m.initialCharts) > 0 {
		sb.WriteString(chartStyle.Render("Summary charts"))
		for _, chart := range m.initialCharts {
			sb.WriteString("\n" + chartLine(chart))
		}
	}

	if len(m.messages) == 0 && len(m.initialCharts) == 0 {
		return "Ask a question about the uploaded reports."
	}

	for _, msg := range m.messages {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			sb.WriteString(userStyle.Render("You") + "\n" + msg.Content)
		case domain.RoleAssistant:
			sb.WriteString(assistantStyle.Render("Analyst") + "\n" + msg.Content)
			for _, chart := range msg.ChartData {
				sb.WriteString("\n" + chartLine(chart))
			}
			sb.WriteString(m.renderSources(msg.Sources))
		default:
			sb.WriteString(msg.Content)
		}
	}

	return lipgloss.NewStyle().Width(m.viewport.Width).Render(sb.String())
}

func (m Model) renderSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	if !m.showSources {
		return "\n" + sourceStyle.Render(fmt.Sprintf("(%d source passages, Ctrl+S to show)", len(sources)))
	}

	var sb strings.Builder
	sb.WriteString("\n" + sourceStyle.Render("Sources:"))
	for _, src := range sources {
		sb.WriteString("\n" + sourceStyle.Render(src))
	}
	return sb.String()
}

func chartLine(chart domain.Chart) string {
	return chartStyle.Render(fmt.Sprintf("[%s chart] %s (%d points)", chart.Type, chart.Title, len(chart.Data)))
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	chartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
