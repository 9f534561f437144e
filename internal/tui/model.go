// Package tui implements tsh-watch, a terminal monitor for a running shell's
// job table.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/tsh/internal/api"
	"github.com/mattjoyce/tsh/internal/events"
	"github.com/mattjoyce/tsh/internal/jobs"
)

const (
	pollInterval   = time.Second
	reconnectDelay = 3 * time.Second
	maxEventLog    = 10
)

type (
	jobsMsg            api.JobsResponse
	healthMsg          api.HealthzResponse
	tickMsg            time.Time
	eventMsg           events.Event
	errMsg             struct{ err error }
	sseDisconnectedMsg struct{ err error }
	reconnectMsg       struct{}
)

func (e errMsg) Error() string { return e.err.Error() }

// Model is the BubbleTea model for tsh-watch.
type Model struct {
	client *Client

	width  int
	height int

	table    table.Model
	jobs     []jobs.Job
	capacity int
	health   api.HealthzResponse

	connected   bool
	lastError   string
	streamError string

	eventLog  []events.Event
	lastEvent int64
	hubEvents chan events.Event

	theme Theme
}

// New creates a monitor reading from client.
func New(client *Client) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "JID", Width: 4},
			{Title: "PID", Width: 8},
			{Title: "State", Width: 10},
			{Title: "Command", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		client:    client,
		table:     t,
		hubEvents: make(chan events.Event, 64),
		theme:     NewDefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchJobs(),
		m.fetchHealth(),
		m.subscribe(0),
		receiveNextEvent(m.hubEvents),
		tick(),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 14 - maxEventLog; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchJobs(), m.fetchHealth(), tick())

	case jobsMsg:
		m.jobs = msg.Jobs
		m.capacity = msg.Capacity
		m.table.SetRows(jobRows(msg.Jobs))
		m.connected = true
		m.lastError = ""
		return m, nil

	case healthMsg:
		m.health = api.HealthzResponse(msg)
		return m, nil

	case eventMsg:
		ev := events.Event(msg)
		m.eventLog = append([]events.Event{ev}, m.eventLog...)
		if len(m.eventLog) > maxEventLog {
			m.eventLog = m.eventLog[:maxEventLog]
		}
		if ev.ID > m.lastEvent {
			m.lastEvent = ev.ID
		}
		m.streamError = ""
		return m, receiveNextEvent(m.hubEvents)

	case sseDisconnectedMsg:
		m.streamError = ""
		if msg.err != nil {
			m.streamError = fmt.Sprintf("event stream: %v (retrying in %s)", msg.err, reconnectDelay)
		}
		return m, tea.Tick(reconnectDelay, func(time.Time) tea.Msg { return reconnectMsg{} })

	case reconnectMsg:
		return m, m.subscribe(m.lastEvent)

	case errMsg:
		m.connected = false
		m.lastError = msg.Error()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Connecting..."
	}
	innerWidth := m.width - 4

	jobsBox := m.theme.Border.Width(innerWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.theme.Title.Render("JOBS"), m.table.View()),
	)

	parts := []string{m.renderHeader(innerWidth), jobsBox, m.renderEvents(innerWidth)}
	if m.lastError != "" {
		parts = append(parts, m.theme.Failed.Render(" ! "+m.lastError))
	}
	if m.streamError != "" {
		parts = append(parts, m.theme.Failed.Render(" ! "+m.streamError))
	}
	parts = append(parts, m.theme.Dim.Render(" [q] Quit • [↑/↓] Select"))

	return lipgloss.NewStyle().Margin(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderHeader(width int) string {
	status := m.theme.StateRunning.Render("CONNECTED")
	if !m.connected {
		status = m.theme.Failed.Render("DISCONNECTED")
	}

	var fg, running, stopped int
	for _, j := range m.jobs {
		switch j.State {
		case jobs.Foreground:
			fg++
		case jobs.Background:
			running++
		case jobs.Stopped:
			stopped++
		}
	}

	title := fmt.Sprintf(" TSH WATCH  %s  up %s", status, formatDuration(time.Duration(m.health.UptimeSeconds)*time.Second))
	counts := fmt.Sprintf(" %d/%d jobs  %s  %s  %s",
		len(m.jobs), m.capacity,
		m.theme.StateStyle(jobs.Foreground).Render(fmt.Sprintf("%d foreground", fg)),
		m.theme.StateStyle(jobs.Background).Render(fmt.Sprintf("%d running", running)),
		m.theme.StateStyle(jobs.Stopped).Render(fmt.Sprintf("%d stopped", stopped)),
	)
	lines := []string{title, counts}
	if m.health.Session != "" {
		lines = append(lines, m.theme.Dim.Render(fmt.Sprintf(" session %s  %d watching", m.health.Session, m.health.Watchers)))
	}
	return m.theme.Border.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderEvents(width int) string {
	lines := []string{m.theme.Title.Render("EVENTS")}
	if len(m.eventLog) == 0 {
		lines = append(lines, m.theme.Dim.Render("  Waiting for events..."))
	}
	for _, ev := range m.eventLog {
		lines = append(lines, fmt.Sprintf(" %s %-15s %s",
			m.theme.Dim.Render(ev.At.Local().Format("15:04:05")), ev.Type, string(ev.Data)))
	}
	return m.theme.Border.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func jobRows(list []jobs.Job) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, j := range list {
		rows = append(rows, table.Row{
			strconv.Itoa(j.JID),
			strconv.Itoa(j.PID),
			j.State.String(),
			strings.TrimSpace(j.CommandLine),
		})
	}
	return rows
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetchJobs() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Jobs(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return jobsMsg(resp)
	}
}

func (m Model) fetchHealth() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Health(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return healthMsg(resp)
	}
}

// subscribe streams /events into hubEvents and reports when, and why, the
// stream ended.
func (m Model) subscribe(lastID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.client.Stream(context.Background(), lastID, m.hubEvents)
		return sseDisconnectedMsg{err: err}
	}
}

func receiveNextEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
