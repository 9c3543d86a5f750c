package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type EngagedMsg struct{ Mode string }
type DisengagedMsg struct{ Held time.Duration }
type TapErrorMsg struct{ Text string }
type ModeLineMsg struct{ Text string } // hotkey, mode and target
type tickMsg time.Time

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateEngaged
)

const maxHistory = 5

type tuiModel struct {
	state         tuiState
	mode          string
	frame         int
	engagedAt     time.Time
	width, height int
	modeLine      string
	count         int
	history       []time.Duration // most recent hold durations, newest first
	lastError     string
}

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	tuiReady     = make(chan struct{})
	tuiReadyOnce sync.Once
)

// Pulse ramp for the engaged indicator, pre-rendered once.
var (
	pulseColors = []string{"196", "160", "124", "88", "124", "160"}
	pulseStyles []lipgloss.Style

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

func init() {
	for _, c := range pulseColors {
		pulseStyles = append(pulseStyles, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true))
	}
}

func NewTUIProgram() *tea.Program {
	return tea.NewProgram(tuiModel{}, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	tuiReadyOnce.Do(func() { close(tuiReady) })
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case EngagedMsg:
		m.state = tuiStateEngaged
		m.mode = msg.Mode
		m.engagedAt = time.Now()

	case DisengagedMsg:
		m.state = tuiStateIdle
		m.count++
		m.history = append([]time.Duration{msg.Held}, m.history...)
		if len(m.history) > maxHistory {
			m.history = m.history[:maxHistory]
		}

	case TapErrorMsg:
		m.lastError = msg.Text

	case ModeLineMsg:
		m.modeLine = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, titleStyle.Render("keytap"))
	if m.modeLine != "" {
		lines = append(lines, dimStyle.Render(m.modeLine))
	}
	lines = append(lines, "")

	if m.state == tuiStateEngaged {
		style := pulseStyles[m.frame%len(pulseStyles)]
		held := time.Since(m.engagedAt).Seconds()
		lines = append(lines, style.Render(fmt.Sprintf("● ENGAGED (%s) %.1fs", m.mode, held)))
	} else {
		lines = append(lines, idleStyle.Render("○ idle"))
	}

	if m.count > 0 {
		held := make([]string, len(m.history))
		for i, d := range m.history {
			held[i] = fmt.Sprintf("%dms", d.Milliseconds())
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("presses: %d  last: %s", m.count, strings.Join(held, " "))))
	}
	if m.lastError != "" {
		lines = append(lines, errorStyle.Render("⚠ "+m.lastError))
	}
	lines = append(lines, "", dimStyle.Render("q to quit"))

	box := boxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}
