package main

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/proplist/internal/shell"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	listStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const scrollback = 500

type lineKind int

const (
	lineCommand lineKind = iota
	lineOutput
	lineError
)

type line struct {
	text string
	kind lineKind
}

type interactiveModel struct {
	ctx     context.Context
	app     *app
	sh      *shell.Shell
	out     *bytes.Buffer
	input   textinput.Model
	lines   []line
	history []string
	histIdx int
	height  int
}

func newInteractiveModel(ctx context.Context, a *app) *interactiveModel {
	out := &bytes.Buffer{}

	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Focus()

	return &interactiveModel{
		ctx:    ctx,
		app:    a,
		sh:     a.newShell(out, false),
		out:    out,
		input:  ti,
		height: 24,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitDone)
}

type doneMsg struct{}

// waitDone turns cancellation of the process context into a quit.
func (m *interactiveModel) waitDone() tea.Msg {
	<-m.ctx.Done()
	return doneMsg{}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd == "quit" || cmd == "exit" {
				return m, tea.Quit
			}
			m.exec(cmd)
			return m, nil

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else {
				m.histIdx = len(m.history)
				m.input.SetValue("")
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case doneMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) exec(cmd string) {
	if cmd == "" {
		return
	}
	m.history = append(m.history, cmd)
	m.histIdx = len(m.history)
	m.append(line{text: cmd, kind: lineCommand})

	m.out.Reset()
	if err := m.sh.Exec(cmd); err != nil {
		m.sh.Report(err)
	}
	for _, text := range strings.Split(strings.TrimRight(m.out.String(), "\n"), "\n") {
		if text == "" {
			continue
		}
		kind := lineOutput
		if strings.HasPrefix(text, "error:") {
			kind = lineError
		}
		m.append(line{text: text, kind: kind})
	}
}

func (m *interactiveModel) append(l line) {
	m.lines = append(m.lines, l)
	if len(m.lines) > scrollback {
		m.lines = m.lines[len(m.lines)-scrollback:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Property Lists"))
	b.WriteString(" ")
	if cur := m.sh.Current(); cur != "" {
		b.WriteString(listStyle.Render(cur))
	} else {
		b.WriteString(helpStyle.Render("no list"))
	}
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(describe(m.app)))
	b.WriteString("\n\n")

	// title, blank, input, blank, help
	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if len(m.lines) > visible {
		start = len(m.lines) - visible
	}
	for _, l := range m.lines[start:] {
		switch l.kind {
		case lineCommand:
			b.WriteString(commandStyle.Render("> " + l.text))
		case lineError:
			b.WriteString(errorStyle.Render(l.text))
		default:
			b.WriteString(resultStyle.Render(l.text))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • esc quit"))

	return b.String()
}

func runInteractive(ctx context.Context, a *app) error {
	m := newInteractiveModel(ctx, a)
	defer m.sh.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
