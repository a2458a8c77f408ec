// ABOUTME: Live reduction progress view fed by the reduce trace bus
// ABOUTME: Display-only bubbletea model; quits when the event stream closes

package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mauromedda/docreduce-go/pkg/reduce"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type eventMsg reduce.Event

type streamClosedMsg struct{}

type tickMsg time.Time

// Model renders reduction progress. It owns no reduction state beyond what
// arrives on the event channel.
type Model struct {
	events <-chan reduce.Event

	width    int
	frame    int
	finished bool

	round     int
	documents int
	cost      int
	groups    int
	collapsed int
	preview   string
}

// New creates a progress model reading from events. The channel must be
// closed when the reduction finishes so the program can quit.
func New(events <-chan reduce.Event) Model {
	return Model{events: events, width: 80}
}

// Init starts the event pump and the spinner ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitEvent(m.events), tick())
}

func waitEvent(events <-chan reduce.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(evt)
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update folds trace events into the displayed counters.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.finished = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.frame++
		return m, tick()

	case eventMsg:
		m.apply(reduce.Event(msg))
		return m, waitEvent(m.events)

	case streamClosedMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// apply updates counters for one trace event.
func (m *Model) apply(evt reduce.Event) {
	switch evt.Type {
	case reduce.EventRoundStart:
		m.round = evt.Round + 1
		m.documents = evt.Documents
		m.cost = evt.Cost
		m.groups = 0
		m.collapsed = 0
	case reduce.EventGroupStart:
		m.groups = evt.Groups
		m.preview = evt.Preview
	case reduce.EventGroupEnd:
		m.groups = evt.Groups
		m.collapsed++
	case reduce.EventRoundEnd:
		m.documents = evt.Documents
		m.cost = evt.Cost
	case reduce.EventFinalize:
		m.preview = ""
	}
}

// View renders one status line plus a dimmed preview of the group in
// flight.
func (m Model) View() string {
	if m.finished {
		return ""
	}

	spinner := spinnerFrames[m.frame%len(spinnerFrames)]
	status := fmt.Sprintf("%s %s round %s · groups %s · %s docs · cost %s",
		spinner,
		labelStyle.Render("reducing"),
		countStyle.Render(fmt.Sprintf("%d", m.round)),
		countStyle.Render(fmt.Sprintf("%d/%d", m.collapsed, m.groups)),
		countStyle.Render(fmt.Sprintf("%d", m.documents)),
		countStyle.Render(fmt.Sprintf("%d", m.cost)),
	)

	if m.preview == "" {
		return status + "\n"
	}

	preview := runewidth.Truncate(m.preview, max(m.width-4, 10), "…")
	return status + "\n  " + previewStyle.Render(preview) + "\n"
}
