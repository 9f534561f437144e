package jobs

import (
	"context"
	"fmt"
	"sync"
)

// DefaultCapacity is the table size used when the config does not set one.
const DefaultCapacity = 16

// Table is the shell's registry of live child processes.
//
// The table's mutex is the notification-suppression primitive: the main flow
// performs every read-modify-write inside Update, and the notification
// handler drains child status changes inside Update too, so neither side can
// observe a half-applied change. Every Update wakes goroutines blocked in
// WaitWhileForeground.
type Table struct {
	mu      sync.Mutex
	changed *sync.Cond
	slots   []Job
	nextJID int
}

// NewTable creates a table with room for capacity jobs.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Table{
		slots:   make([]Job, capacity),
		nextJID: 1,
	}
	t.changed = sync.NewCond(&t.mu)
	return t
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Update runs fn with exclusive access to the table. The Tx is only valid
// for the duration of fn.
func (t *Table) Update(fn func(tx *Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx := &Tx{t: t}
	defer func() {
		tx.t = nil
		t.changed.Broadcast()
	}()
	return fn(tx)
}

// ByPID returns a copy of the job with the given pid.
func (t *Table) ByPID(pid int) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byPIDLocked(pid)
}

// ByJID returns a copy of the job with the given jid.
func (t *Table) ByJID(jid int) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byJIDLocked(jid)
}

// Foreground returns the single foreground job, if any.
func (t *Table) Foreground() (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.foregroundLocked()
}

// Snapshot returns copies of all live jobs in slot order.
func (t *Table) Snapshot() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Job, 0, len(t.slots))
	for _, j := range t.slots {
		if j.PID != 0 {
			out = append(out, j)
		}
	}
	return out
}

// Len returns the number of live jobs.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lenLocked()
}

// WaitWhileForeground blocks until pid is no longer the foreground job:
// it was removed, stopped, or moved to the background. It returns ctx's
// error if ctx ends first.
func (t *Table) WaitWhileForeground(ctx context.Context, pid int) error {
	stop := context.AfterFunc(ctx, func() {
		t.mu.Lock()
		t.changed.Broadcast()
		t.mu.Unlock()
	})
	defer stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	for t.isForegroundLocked(pid) {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.changed.Wait()
	}
	return nil
}

func (t *Table) isForegroundLocked(pid int) bool {
	j, ok := t.foregroundLocked()
	return ok && j.PID == pid
}

func (t *Table) byPIDLocked(pid int) (Job, bool) {
	if pid < 1 {
		return Job{}, false
	}
	for _, j := range t.slots {
		if j.PID == pid {
			return j, true
		}
	}
	return Job{}, false
}

func (t *Table) byJIDLocked(jid int) (Job, bool) {
	if jid < 1 {
		return Job{}, false
	}
	for _, j := range t.slots {
		if j.PID != 0 && j.JID == jid {
			return j, true
		}
	}
	return Job{}, false
}

func (t *Table) foregroundLocked() (Job, bool) {
	for _, j := range t.slots {
		if j.PID != 0 && j.State == Foreground {
			return j, true
		}
	}
	return Job{}, false
}

func (t *Table) lenLocked() int {
	n := 0
	for _, j := range t.slots {
		if j.PID != 0 {
			n++
		}
	}
	return n
}

func (t *Table) maxJIDLocked() int {
	highest := 0
	for _, j := range t.slots {
		if j.PID != 0 && j.JID > highest {
			highest = j.JID
		}
	}
	return highest
}

// allocJIDLocked hands out the next jid, wrapping to 1 past capacity and
// skipping jids that are still live. Callers must have checked for a free slot.
func (t *Table) allocJIDLocked() int {
	for range len(t.slots) + 1 {
		if t.nextJID > len(t.slots) {
			t.nextJID = 1
		}
		jid := t.nextJID
		t.nextJID++
		if _, live := t.byJIDLocked(jid); !live {
			return jid
		}
	}
	panic("jobs: no free jid in a non-full table")
}

// Tx is exclusive access to a Table, handed out by Update.
type Tx struct {
	t *Table
}

func (tx *Tx) table() *Table {
	if tx.t == nil {
		panic("jobs: Tx used outside Update")
	}
	return tx.t
}

// Full reports whether Add would fail with ErrTableFull.
func (tx *Tx) Full() bool {
	t := tx.table()
	return t.lenLocked() == len(t.slots)
}

// Add registers a freshly spawned child in the lowest free slot and returns its jid.
func (tx *Tx) Add(pid int, state State, commandLine string) (int, error) {
	t := tx.table()

	if pid < 1 {
		return 0, fmt.Errorf("add pid %d: %w", pid, ErrInvalidPID)
	}
	if state != Foreground && state != Background {
		return 0, fmt.Errorf("add pid %d as %s: %w", pid, state, ErrInvalidState)
	}
	if _, ok := t.byPIDLocked(pid); ok {
		return 0, fmt.Errorf("add pid %d: %w", pid, ErrDuplicatePID)
	}
	if state == Foreground {
		if fg, ok := t.foregroundLocked(); ok {
			return 0, fmt.Errorf("add pid %d (foreground pid %d): %w", pid, fg.PID, ErrForegroundBusy)
		}
	}

	for i := range t.slots {
		if t.slots[i].PID != 0 {
			continue
		}
		jid := t.allocJIDLocked()
		t.slots[i] = Job{
			PID:         pid,
			JID:         jid,
			State:       state,
			CommandLine: commandLine,
		}
		return jid, nil
	}
	return 0, ErrTableFull
}

// Remove frees the slot holding pid. It is a no-op when pid is absent.
func (tx *Tx) Remove(pid int) (Job, bool) {
	t := tx.table()
	if pid < 1 {
		return Job{}, false
	}
	for i, j := range t.slots {
		if j.PID != pid {
			continue
		}
		t.slots[i] = Job{}
		t.nextJID = t.maxJIDLocked() + 1
		return j, true
	}
	return Job{}, false
}

// SetState moves a live job to a new state, keeping at most one job in the foreground.
func (tx *Tx) SetState(pid int, state State) error {
	t := tx.table()
	if state != Foreground && state != Background && state != Stopped {
		return fmt.Errorf("set pid %d to %s: %w", pid, state, ErrInvalidState)
	}
	for i, j := range t.slots {
		if j.PID == 0 || j.PID != pid {
			continue
		}
		if state == Foreground {
			if fg, ok := t.foregroundLocked(); ok && fg.PID != pid {
				return fmt.Errorf("set pid %d foreground (foreground pid %d): %w", pid, fg.PID, ErrForegroundBusy)
			}
		}
		t.slots[i].State = state
		return nil
	}
	return fmt.Errorf("set pid %d to %s: %w", pid, state, ErrNoSuchJob)
}

// ByPID is Table.ByPID for use inside Update.
func (tx *Tx) ByPID(pid int) (Job, bool) {
	return tx.table().byPIDLocked(pid)
}

// ByJID is Table.ByJID for use inside Update.
func (tx *Tx) ByJID(jid int) (Job, bool) {
	return tx.table().byJIDLocked(jid)
}

// Foreground is Table.Foreground for use inside Update.
func (tx *Tx) Foreground() (Job, bool) {
	return tx.table().foregroundLocked()
}
