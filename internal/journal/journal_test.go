package journal

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openTest(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, j.Record(ctx, Entry{JID: 1, PID: 100, Event: EventStarted, Command: "/bin/sleep 5 &\n", At: base}))
	require.NoError(t, j.Record(ctx, Entry{JID: 1, PID: 100, Event: EventStopped, Signal: 20, Command: "/bin/sleep 5 &\n", At: base.Add(time.Second)}))
	require.NoError(t, j.Record(ctx, Entry{JID: 1, PID: 100, Event: EventTerminated, Signal: 2, Command: "/bin/sleep 5 &\n", At: base.Add(2 * time.Second)}))

	got, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventStopped, got[0].Event)
	assert.Equal(t, 20, got[0].Signal)
	assert.Equal(t, EventTerminated, got[1].Event)
	assert.Equal(t, j.Session(), got[1].SessionID)
	assert.Equal(t, "/bin/sleep 5 &", got[1].Command)
	assert.True(t, strings.HasPrefix(got[1].CommandHash, "blake3:"))
	assert.True(t, got[1].At.Equal(base.Add(2*time.Second)))
	assert.NotEmpty(t, got[1].ID)
}

func TestRecentWithoutSignalStoresNull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openTest(t)

	require.NoError(t, j.Record(ctx, Entry{JID: 2, PID: 7, Event: EventExited, Command: "true"}))

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Signal)

	var isNull bool
	require.NoError(t, j.db.QueryRow(`SELECT signal IS NULL FROM job_journal`).Scan(&isNull))
	assert.True(t, isNull)
}

func TestRecentZero(t *testing.T) {
	t.Parallel()
	j := openTest(t)

	got, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordRequiresEvent(t *testing.T) {
	t.Parallel()
	j := openTest(t)

	assert.Error(t, j.Record(context.Background(), Entry{JID: 1, PID: 1, Command: "x"}))
}

func TestRunsCountsStartsAcrossSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, Entry{JID: 1, PID: 10, Event: EventStarted, Command: "/bin/sleep 1\n"}))
	require.NoError(t, first.Record(ctx, Entry{JID: 1, PID: 10, Event: EventExited, Command: "/bin/sleep 1\n"}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	assert.NotEqual(t, first.Session(), second.Session())
	require.NoError(t, second.Record(ctx, Entry{JID: 1, PID: 11, Event: EventStarted, Command: "/bin/sleep   1"}))
	require.NoError(t, second.Record(ctx, Entry{JID: 2, PID: 12, Event: EventStarted, Command: "/bin/sleep 2"}))

	n, err := second.Runs(ctx, "/bin/sleep 1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = second.Runs(ctx, "/bin/true")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommandHashNormalizesWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CommandHash("sleep 5"), CommandHash("  sleep\t5 \n"))
	assert.NotEqual(t, CommandHash("sleep 5"), CommandHash("sleep 6"))
}

func TestEntryFormat(t *testing.T) {
	t.Parallel()

	e := Entry{JID: 3, PID: 44, Event: EventTerminated, Signal: 2, Command: "/bin/sleep 9", At: time.Now()}
	line := e.Format()
	assert.Contains(t, line, "[3] (44) terminated")
	assert.Contains(t, line, "/bin/sleep 9 (signal 2)")
}
