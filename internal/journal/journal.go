// Package journal persists job lifecycle events to SQLite so past sessions
// can be inspected with tsh -history.
package journal

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/mattjoyce/tsh/internal/storage"
)

// Event names a lifecycle transition.
type Event string

const (
	EventStarted    Event = "started"
	EventExited     Event = "exited"
	EventTerminated Event = "terminated"
	EventStopped    Event = "stopped"
	EventContinued  Event = "continued"
	EventForeground Event = "foreground"
)

// timeLayout is fixed width so the at column sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one journal row.
type Entry struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	JID         int       `json:"jid"`
	PID         int       `json:"pid"`
	Event       Event     `json:"event"`
	Signal      int       `json:"signal,omitempty"`
	Command     string    `json:"command"`
	CommandHash string    `json:"command_hash"`
	At          time.Time `json:"at"`
}

// Journal records entries for one shell session.
type Journal struct {
	db      *sql.DB
	session string
}

// Open opens or creates the journal database at path and starts a new session.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := storage.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{db: db, session: uuid.NewString()}, nil
}

// Session returns the id stamped on entries recorded by this Journal.
func (j *Journal) Session() string {
	return j.session
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends e, filling in its id, session, digest and timestamp when unset.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.Event == "" {
		return fmt.Errorf("journal entry has no event")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SessionID == "" {
		e.SessionID = j.session
	}
	e.Command = normalize(e.Command)
	if e.CommandHash == "" {
		e.CommandHash = CommandHash(e.Command)
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	var signal any
	if e.Signal != 0 {
		signal = e.Signal
	}

	_, err := j.db.ExecContext(ctx, `
INSERT INTO job_journal(id, session_id, jid, pid, event, signal, command, command_hash, at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);
`, e.ID, e.SessionID, e.JID, e.PID, string(e.Event), signal, e.Command, e.CommandHash, e.At.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// Recent returns the last n entries across all sessions, oldest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := j.db.QueryContext(ctx, `
SELECT id, session_id, jid, pid, event, signal, command, command_hash, at
FROM job_journal
ORDER BY at DESC, rowid DESC
LIMIT ?;
`, n)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			event  string
			signal sql.NullInt64
			atS    string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.JID, &e.PID, &event, &signal, &e.Command, &e.CommandHash, &atS); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Event = Event(event)
		if signal.Valid {
			e.Signal = int(signal.Int64)
		}
		if t, err := time.Parse(timeLayout, atS); err == nil {
			e.At = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}

	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// Runs counts how many times command has been started, in any session.
func (j *Journal) Runs(ctx context.Context, command string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM job_journal WHERE command_hash = ? AND event = ?;
`, CommandHash(command), string(EventStarted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// CommandHash is the blake3 digest of a command line with whitespace
// collapsed, so "sleep  5\n" and "sleep 5" share a digest.
func CommandHash(command string) string {
	sum := blake3.Sum256([]byte(normalize(command)))
	return "blake3:" + hex.EncodeToString(sum[:])
}

func normalize(command string) string {
	return strings.Join(strings.Fields(command), " ")
}

// Format renders an entry as one history line.
func (e Entry) Format() string {
	line := fmt.Sprintf("%s [%d] (%d) %-10s %s", e.At.Local().Format("2006-01-02 15:04:05"), e.JID, e.PID, e.Event, e.Command)
	if e.Signal != 0 {
		line += fmt.Sprintf(" (signal %d)", e.Signal)
	}
	return line
}
