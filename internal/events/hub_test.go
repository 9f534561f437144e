package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAssignsIDsAndEncodesData(t *testing.T) {
	h := NewHub(4)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	ev := h.Publish("job.started", at, map[string]int{"pid": 42})
	assert.Equal(t, int64(1), ev.ID)
	assert.Equal(t, at.UTC(), ev.At)
	assert.JSONEq(t, `{"pid":42}`, string(ev.Data))

	ev = h.Publish("job.exited", time.Time{}, nil)
	assert.Equal(t, int64(2), ev.ID)
	assert.False(t, ev.At.IsZero())
	assert.Equal(t, `{}`, string(ev.Data))
}

func TestRingKeepsNewest(t *testing.T) {
	h := NewHub(3)
	for range 5 {
		h.Publish("job.started", time.Time{}, nil)
	}

	all := h.SnapshotSince(0)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{all[0].ID, all[1].ID, all[2].ID})

	since := h.SnapshotSince(4)
	require.Len(t, since, 1)
	assert.Equal(t, int64(5), since[0].ID)
	assert.Empty(t, h.SnapshotSince(5))
}

func TestSubscribeReceivesAndCancelCloses(t *testing.T) {
	h := NewHub(4)
	ch, cancel := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	h.Publish("job.stopped", time.Time{}, nil)
	select {
	case ev := <-ch:
		assert.Equal(t, "job.stopped", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(4)
	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for range subscriberBuffer * 2 {
			h.Publish("job.started", time.Time{}, nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestEventJSON(t *testing.T) {
	h := NewHub(1)
	ev := h.Publish("job.terminated", time.Time{}, map[string]any{"jid": 1})

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":{"jid":1}`)
}
