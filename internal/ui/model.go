package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gennadis/chatwidget/internal/chat"
	"github.com/gennadis/chatwidget/internal/widget"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
	// border, title and input rows around the transcript
	chromeHeight = 5
)

var (
	launcherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	botStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	messageStyle = lipgloss.NewStyle().MarginBottom(1)
)

// replyMsg carries a resolved reply back into the update loop.
type replyMsg struct {
	ticket  widget.Ticket
	message chat.Message
}

type Model struct {
	ctx      context.Context
	widget   *widget.Widget
	input    textinput.Model
	viewport viewport.Model
	inFlight int
	width    int
	height   int
}

func NewModel(ctx context.Context, w *widget.Widget) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "

	// letters belong to the input, so the transcript only scrolls by page
	vp := viewport.New(defaultWidth-2, defaultHeight-chromeHeight)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	m := Model{
		ctx:      ctx,
		widget:   w,
		input:    ti,
		viewport: vp,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	if w.Display() == widget.DisplayFlex {
		m.input.Focus()
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+t":
			if m.widget.Toggle() == widget.DisplayFlex {
				return m, m.input.Focus()
			}
			m.input.Blur()
			return m, nil
		case "enter":
			if m.widget.Display() != widget.DisplayFlex {
				return m, nil
			}
			return m.submit()
		}

	case replyMsg:
		m.inFlight--
		if m.widget.Deliver(msg.ticket, msg.message) > 0 {
			m.refresh()
		}
		return m, nil
	}

	if m.widget.Display() != widget.DisplayFlex {
		return m, nil
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.widget.SetInput(m.input.Value())
	ticket, ok := m.widget.Submit()
	if !ok {
		return m, nil
	}
	m.input.SetValue(m.widget.Input())
	m.inFlight++
	m.refresh()

	ctx, w := m.ctx, m.widget
	return m, func() tea.Msg {
		return replyMsg{ticket: ticket, message: w.Reply(ctx, ticket)}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = max(width-2, 1)
	m.viewport.Height = max(height-chromeHeight, 1)
	m.input.Width = max(width-6, 1)
	m.refresh()
}

// refresh re-renders the transcript and keeps the newest message in view.
func (m *Model) refresh() {
	width := max(m.viewport.Width, 1)
	blocks := make([]string, 0, m.widget.Transcript().Len())
	for _, msg := range m.widget.Transcript().Messages() {
		blocks = append(blocks, renderMessage(msg, width))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n"))
	m.viewport.GotoBottom()
}

func renderMessage(msg chat.Message, width int) string {
	label := userStyle
	if msg.Role == chat.RoleBot {
		label = botStyle
	}
	text := label.Render(widget.Sanitize(string(msg.Role))+":") + " " + widget.Sanitize(msg.Content)
	return messageStyle.Width(width).Render(text)
}

func (m Model) View() string {
	if m.widget.Display() != widget.DisplayFlex {
		return launcherStyle.Render("💬 Chat (ctrl+t)")
	}

	title := titleStyle.Render("Chat")
	if m.inFlight > 0 {
		title += " " + pendingStyle.Render(fmt.Sprintf("(waiting for %d)", m.inFlight))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		m.input.View(),
	)
	return panelStyle.Width(max(m.width-2, 1)).Render(body)
}

// Transcript exposes the rendered lines, mostly for tests and dumps.
func (m Model) Transcript() []string {
	return m.widget.Transcript().Lines()
}
