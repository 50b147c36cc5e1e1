package jobs

import (
	"time"

	"github.com/daleel-sa/daleel-backend/internal/services"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
	"github.com/daleel-sa/daleel-backend/pkg/metrics"
)

// ReminderJob periodically nudges users who started a flow and went quiet.
// Each session is nudged at most once; the flag resets when the session is
// cleared or progresses.
type ReminderJob struct {
	store     storage.Store
	messenger services.Messenger
	log       logger.Logger
	metrics   *metrics.Metrics

	interval  time.Duration
	threshold time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewReminderJob creates the reminder scanner. interval is how often the
// store is scanned; threshold is how long a session must be idle first.
func NewReminderJob(store storage.Store, messenger services.Messenger, interval, threshold time.Duration, log logger.Logger, m *metrics.Metrics) *ReminderJob {
	return &ReminderJob{
		store:     store,
		messenger: messenger,
		log:       log,
		metrics:   m,
		interval:  interval,
		threshold: threshold,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the scan loop in its own goroutine
func (r *ReminderJob) Start() {
	r.log.Info("starting reminder job", "interval", r.interval, "threshold", r.threshold)
	go r.run()
}

// Stop halts the scan loop and waits for the in-flight scan to finish
func (r *ReminderJob) Stop() {
	close(r.stop)
	<-r.done
	r.log.Info("reminder job stopped")
}

func (r *ReminderJob) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.scan()
		}
	}
}

// scan finds stale sessions, sends the nudge, and marks each one so it is
// never nudged twice. Marking happens only after a successful send, so a
// transport failure retries on the next tick.
func (r *ReminderJob) scan() {
	sessions, err := r.store.FindStaleSessions(r.threshold)
	if err != nil {
		r.log.Error("stale session scan failed", "error", err)
		r.metrics.ErrorsCount.WithLabelValues("reminder_scan").Inc()
		return
	}
	if len(sessions) == 0 {
		return
	}

	r.log.Info("stale sessions found", "count", len(sessions))
	for _, session := range sessions {
		if err := r.messenger.SendMessage(session.UserID, services.ReminderText); err != nil {
			r.log.Error("reminder send failed", "user", session.UserID, "error", err)
			r.metrics.ErrorsCount.WithLabelValues("reminder_send").Inc()
			continue
		}
		if err := r.store.MarkReminded(session.UserID); err != nil {
			r.log.Error("mark reminded failed", "user", session.UserID, "error", err)
			r.metrics.ErrorsCount.WithLabelValues("reminder_mark").Inc()
			continue
		}
		r.metrics.RemindersSent.Inc()
	}
}
