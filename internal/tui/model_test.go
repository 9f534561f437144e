package tui

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/tsh/internal/api"
	"github.com/mattjoyce/tsh/internal/events"
	"github.com/mattjoyce/tsh/internal/jobs"
)

func startAPI(t *testing.T, token string) (*httptest.Server, *jobs.Table, *events.Hub) {
	t.Helper()
	tbl := jobs.NewTable(4)
	hub := events.NewHub(8)
	srv := api.New(api.Config{Token: token, Session: "s-1"}, tbl, hub, slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tbl, hub
}

func TestClientJobsAndHealth(t *testing.T) {
	ts, tbl, _ := startAPI(t, "tok")
	require.NoError(t, tbl.Update(func(tx *jobs.Tx) error {
		_, err := tx.Add(4242, jobs.Background, "/bin/sleep 30 &\n")
		return err
	}))

	c := NewClient(ts.URL+"/", "tok")
	resp, err := c.Jobs(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, 4242, resp.Jobs[0].PID)
	assert.Equal(t, 4, resp.Capacity)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s-1", h.Session)
}

func TestClientReportsAuthFailure(t *testing.T) {
	ts, _, _ := startAPI(t, "tok")

	_, err := NewClient(ts.URL, "wrong").Jobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestClientStream(t *testing.T) {
	ts, _, hub := startAPI(t, "")
	hub.Publish("job.started", time.Time{}, map[string]int{"jid": 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan events.Event, 4)
	go func() { _ = NewClient(ts.URL, "").Stream(ctx, 0, ch) }()

	select {
	case ev := <-ch:
		assert.Equal(t, int64(1), ev.ID)
		assert.Equal(t, "job.started", ev.Type)
		assert.JSONEq(t, `{"jid":1}`, string(ev.Data))
	case <-time.After(3 * time.Second):
		t.Fatal("no event streamed")
	}
}

func TestUpdateJobsFillsTable(t *testing.T) {
	m := New(NewClient("http://unused", ""))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next, _ = next.Update(jobsMsg{
		Jobs: []jobs.Job{
			{PID: 10, JID: 1, State: jobs.Background, CommandLine: "sleep 10 &\n"},
			{PID: 11, JID: 2, State: jobs.Stopped, CommandLine: "sleep 20\n"},
		},
		Count:    2,
		Capacity: 16,
	})
	model := next.(Model)

	rows := model.table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "10", "Running", "sleep 10 &"}, []string(rows[0]))
	assert.Equal(t, "Stopped", rows[1][2])
	assert.True(t, model.connected)

	view := model.View()
	assert.Contains(t, view, "TSH WATCH")
	assert.Contains(t, view, "2/16 jobs")
	assert.Contains(t, view, "sleep 20")
}

func TestUpdateErrorMarksDisconnected(t *testing.T) {
	m := New(NewClient("http://unused", ""))
	m.connected = true

	next, _ := m.Update(errMsg{assert.AnError})
	model := next.(Model)

	assert.False(t, model.connected)
	assert.Equal(t, assert.AnError.Error(), model.lastError)
}

func TestUpdateEventLogIsBounded(t *testing.T) {
	var m tea.Model = New(NewClient("http://unused", ""))
	for i := 1; i <= maxEventLog+5; i++ {
		m, _ = m.Update(eventMsg{ID: int64(i), Type: "job.started"})
	}
	model := m.(Model)

	require.Len(t, model.eventLog, maxEventLog)
	assert.Equal(t, int64(maxEventLog+5), model.eventLog[0].ID, "newest first")
	assert.Equal(t, int64(maxEventLog+5), model.lastEvent)
}

func TestStreamFailureIsShown(t *testing.T) {
	ts, _, _ := startAPI(t, "tok")
	m := New(NewClient(ts.URL, "wrong"))

	msg := m.subscribe(0)()
	disc, ok := msg.(sseDisconnectedMsg)
	require.True(t, ok, "got %T", msg)
	require.Error(t, disc.err)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, cmd = next.Update(disc)
	require.NotNil(t, cmd, "reconnect is scheduled")
	model := next.(Model)
	assert.Contains(t, model.streamError, "401")
	assert.Contains(t, model.View(), "event stream")

	next, _ = model.Update(eventMsg{ID: 1, Type: "job.started"})
	assert.Empty(t, next.(Model).streamError)
}

func TestQuitKey(t *testing.T) {
	m := New(NewClient("http://unused", ""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h 1m", formatDuration(61*time.Minute))
}
