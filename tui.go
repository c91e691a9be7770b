package main

import (
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type LinesMsg struct{ Older, Current string }
type StatusMsg struct{ Text string }
type ErrorMsg struct{ Text string }
type tickMsg time.Time

// errorHold is how long a transient error line stays on screen.
const errorHold = 5 * time.Second

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	olderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	copiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type tuiModel struct {
	older    string
	current  string
	status   string
	errText  string
	errSince time.Time
	copied   bool
	width    int
	height   int

	onClear  func()
	copyLast func() string
}

func NewTUIProgram(status string, onClear func(), copyLast func() string) *tea.Program {
	m := tuiModel{status: status, onClear: onClear, copyLast: copyLast}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c":
			if m.onClear != nil {
				m.onClear()
			}
		case "y":
			if m.copyLast != nil {
				if text := m.copyLast(); text != "" {
					if err := clipboard.WriteAll(text); err == nil {
						m.copied = true
					}
				}
			}
		}

	case tickMsg:
		if m.errText != "" && time.Since(m.errSince) > errorHold {
			m.errText = ""
		}
		return m, tuiTick()

	case LinesMsg:
		m.older = msg.Older
		m.current = msg.Current
		m.copied = false

	case StatusMsg:
		m.status = msg.Text

	case ErrorMsg:
		m.errText = msg.Text
		m.errSince = time.Now()
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	wrapWidth := m.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var b strings.Builder
	b.WriteString(statusStyle.Render(m.status) + "\n\n")

	if m.older == "" && m.current == "" {
		b.WriteString(helpStyle.Render("(listening)") + "\n")
	} else {
		for _, line := range wrapText(m.older, wrapWidth) {
			b.WriteString(olderStyle.Render(line) + "\n")
		}
		lines := wrapText(m.current, wrapWidth)
		for i, line := range lines {
			b.WriteString(currentStyle.Render(line))
			if i == len(lines)-1 && m.copied {
				b.WriteString(" " + copiedStyle.Render("[copied]"))
			}
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+m.errText) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("c clear · y copy last · q quit"))
	return b.String()
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return nil
	}
	if width <= 0 {
		width = 1
	}

	// Split on runes so umlauts are never cut in half at the wrap point.
	runes := []rune(text)
	var lines []string
	for len(runes) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, string(runes[:splitAt]))
		runes = runes[splitAt:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

// tuiSink forwards pipeline events into the Bubble Tea program.
type tuiSink struct{}

func (tuiSink) Lines(older, current string) {
	tuiSend(LinesMsg{Older: older, Current: current})
}

func (tuiSink) Status(text string) {
	tuiSend(StatusMsg{Text: text})
}

func (tuiSink) Error(text string) {
	tuiSend(ErrorMsg{Text: text})
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}
