package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
	"docchat/internal/orchestrator"
)

// ChatPort is the TUI-facing subset of the orchestrator.
type ChatPort interface {
	Submit(ctx context.Context, text string) (domain.Message, error)
	SwitchMode(ctx context.Context, mode domain.Mode)
	SetVariant(v domain.Variant)
	Reset(mode domain.Mode)
	Messages() []domain.Message
	Session() domain.Session
}

// StatusPort is the TUI-facing subset of the availability monitor.
type StatusPort interface {
	Status(service domain.Mode) domain.ServiceStatus
}

type queryDoneMsg struct {
	err error
}

type modeSwitchedMsg struct{}

type statusTickMsg time.Time

// Model is the Bubble Tea model for the chat application.
type Model struct {
	chat         ChatPort
	statuses     StatusPort
	input        textinput.Model
	viewport     viewport.Model
	spin         spinner.Model
	quickQueries []string
	quickIdx     int
	sending      bool
	pending      string
	ready        bool
	status       string
}

// New creates a new TUI model instance.
func New(chat ChatPort, statuses StatusPort, quickQueries []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		chat:         chat,
		statuses:     statuses,
		input:        ti,
		viewport:     vp,
		spin:         sp,
		quickQueries: quickQueries,
		status:       "Ready. Tab switches backend, Ctrl+V cycles KAG variant, Ctrl+N starts over.",
	}
}

// Init starts the cursor blink and the status refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, statusTick())
}

func statusTick() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg { return statusTickMsg(t) })
}

// Update handles key, tick and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status line, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.refreshLog()
		return m, nil

	case statusTickMsg:
		return m, statusTick()

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case queryDoneMsg:
		m.sending = false
		m.pending = ""
		switch {
		case msg.err == nil:
			m.status = "Done."
		case errors.Is(msg.err, orchestrator.ErrStale):
			m.status = "Discarded a reply from the previous conversation."
		case errors.Is(msg.err, orchestrator.ErrBusy):
			m.status = "Still waiting for the current reply."
		default:
			m.status = "Error: " + msg.err.Error()
		}
		m.refreshLog()
		m.viewport.GotoBottom()
		return m, nil

	case modeSwitchedMsg:
		m.status = fmt.Sprintf("Switched to %s mode. Conversation cleared.", strings.ToUpper(string(m.chat.Session().Mode)))
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.sending {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(q)
		case "tab":
			if m.sending {
				return m, nil
			}
			next := domain.ModeKAG
			if m.chat.Session().Mode == domain.ModeKAG {
				next = domain.ModeRAG
			}
			return m, switchModeCmd(m.chat, next)
		case "ctrl+v":
			m.chat.SetVariant(nextVariant(m.chat.Session().Variant))
			m.status = fmt.Sprintf("KAG variant: %s", m.chat.Session().Variant)
			return m, nil
		case "ctrl+n":
			if m.sending {
				return m, nil
			}
			m.chat.Reset(m.chat.Session().Mode)
			m.status = "Started a new conversation."
			m.refreshLog()
			return m, nil
		case "ctrl+t":
			if len(m.quickQueries) > 0 {
				m.input.SetValue(m.quickQueries[m.quickIdx])
				m.input.CursorEnd()
				m.quickIdx = (m.quickIdx + 1) % len(m.quickQueries)
			}
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			// With an empty input, digits pick a suggested follow-up.
			if m.input.Value() == "" && !m.sending {
				if q, ok := m.followup(msg.String()); ok {
					return m.submit(q)
				}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.sending = true
	m.pending = text
	m.status = "Thinking..."
	cmd := submitCmd(m.chat, text)
	// Submit appends the user message asynchronously; render the pending
	// text until the reply lands.
	m.refreshLog()
	return m, tea.Batch(m.spin.Tick, cmd)
}

func submitCmd(chat ChatPort, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := chat.Submit(context.Background(), text)
		return queryDoneMsg{err: err}
	}
}

func switchModeCmd(chat ChatPort, mode domain.Mode) tea.Cmd {
	return func() tea.Msg {
		chat.SwitchMode(context.Background(), mode)
		return modeSwitchedMsg{}
	}
}

// followup resolves a digit key to one of the last assistant message's
// suggested questions.
func (m Model) followup(digit string) (string, bool) {
	n, err := strconv.Atoi(digit)
	if err != nil {
		return "", false
	}
	log := m.chat.Messages()
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Role != domain.RoleAssistant {
			continue
		}
		if n >= 1 && n <= len(log[i].Followups) {
			return log[i].Followups[n-1], true
		}
		return "", false
	}
	return "", false
}

func nextVariant(v domain.Variant) domain.Variant {
	switch v {
	case domain.VariantStandard:
		return domain.VariantSimplified
	case domain.VariantSimplified:
		return domain.VariantText
	default:
		return domain.VariantStandard
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docchat") + "  " + m.modeBadge() + "  " + m.serviceBadges()
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.sending {
		status = m.spin.View() + " " + status
	}
	return header + "\n" +
		chatBoxStyle.Render(m.viewport.View()) + "\n" +
		input + "\n" +
		statusStyle.Render(status)
}

func (m *Model) refreshLog() {
	m.viewport.SetContent(renderLog(m.chat.Messages(), m.pending))
}

func (m Model) modeBadge() string {
	sess := m.chat.Session()
	label := strings.ToUpper(string(sess.Mode))
	if sess.Mode == domain.ModeKAG {
		label += "/" + string(sess.Variant)
	}
	return modeStyle.Render(label)
}

func (m Model) serviceBadges() string {
	parts := make([]string, 0, 2)
	for _, svc := range []domain.Mode{domain.ModeRAG, domain.ModeKAG} {
		st := m.statuses.Status(svc)
		style := checkingStyle
		switch st.State {
		case domain.AvailabilityConnected:
			style = connectedStyle
		case domain.AvailabilityError:
			style = errorStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s:%s", svc, st.State)))
	}
	return strings.Join(parts, " ")
}

func renderLog(log []domain.Message, pending string) string {
	if len(log) == 0 && pending == "" {
		return "No messages yet. Ask something about your documents."
	}
	var b strings.Builder
	for i, msg := range log {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: ") + msg.Content)
		default:
			if msg.AutoFallback {
				b.WriteString(fallbackStyle.Render("(switched backend automatically: the previous one was unavailable)") + "\n")
			}
			b.WriteString(assistantStyle.Render("Assistant: ") + msg.Content)
			for j, q := range msg.Followups {
				b.WriteString(fmt.Sprintf("\n%s", followupStyle.Render(fmt.Sprintf("  [%d] %s", j+1, q))))
			}
		}
	}
	if pending != "" {
		if len(log) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(userStyle.Render("You: ") + pending)
		b.WriteString("\n\n" + assistantStyle.Render("Assistant: ") + "…")
	}
	return b.String()
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	modeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	followupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fallbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	checkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
