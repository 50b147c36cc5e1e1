package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleel-sa/daleel-backend/internal/models"
	"github.com/daleel-sa/daleel-backend/internal/services"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
	"github.com/daleel-sa/daleel-backend/pkg/metrics"
)

type recordingMessenger struct {
	mu   sync.Mutex
	sent map[string]int
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{sent: make(map[string]int)}
}

func (r *recordingMessenger) SendMessage(to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[to]++
	return nil
}

func (r *recordingMessenger) SendMediaMessage(to, mediaURL, caption string) error {
	return r.SendMessage(to, caption)
}

func (r *recordingMessenger) count(to string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[to]
}

func TestReminderJobNudgesStaleSessionsOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	messenger := newRecordingMessenger()
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test")

	require.NoError(t, store.SaveSession("idle", models.StateName, models.SessionData{}))
	require.NoError(t, store.SaveSession("fresh", models.StateName, models.SessionData{}))
	store.Backdate("idle", time.Hour)

	job := NewReminderJob(store, messenger, 10*time.Millisecond, 30*time.Minute, logger.NewNopLogger(), m)
	job.Start()

	assert.Eventually(t, func() bool {
		return messenger.count("idle") == 1
	}, time.Second, 5*time.Millisecond, "stale session gets the nudge")

	// let several more ticks pass; the flag keeps the session out of the scan
	time.Sleep(50 * time.Millisecond)
	job.Stop()

	assert.Equal(t, 1, messenger.count("idle"), "at most one nudge per session")
	assert.Zero(t, messenger.count("fresh"))

	session, err := store.GetSession("idle")
	require.NoError(t, err)
	assert.True(t, session.ReminderSent)
	assert.Equal(t, models.StateName, session.State, "nudge leaves the flow intact")
}

func TestReminderJobStops(t *testing.T) {
	store := storage.NewMemoryStore()
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test")

	job := NewReminderJob(store, newRecordingMessenger(), 5*time.Millisecond, time.Minute, logger.NewNopLogger(), m)
	job.Start()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

var _ services.Messenger = (*recordingMessenger)(nil)
