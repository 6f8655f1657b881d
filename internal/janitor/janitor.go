// Package janitor runs the retention background loop from spec §4.12:
// a fixed-interval tick that purges old incoming-update snapshots and
// trims each chat's message log down to its configured cap. Exceptions
// are caught and logged; the loop only exits on shutdown-cancel.
package janitor

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/config"
	"github.com/rubikabot/ingestcore/internal/store"
)

// DefaultInterval is the spec's default tick period.
const DefaultInterval = 600 * time.Second

// Janitor owns the retention sweep loop.
type Janitor struct {
	store     *store.Store
	interval  time.Duration
	retention config.RetentionConfig
	log       *logrus.Entry

	stopOnce sync.Once
	done     chan struct{}
	stopCh   chan struct{}
}

// New builds a Janitor that will sweep every interval (DefaultInterval
// when zero) until Stop is called.
func New(s *store.Store, interval time.Duration, retention config.RetentionConfig, log *logrus.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Janitor{
		store:     s,
		interval:  interval,
		retention: retention,
		log:       log.WithField("component", "JANITOR"),
		done:      make(chan struct{}),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (j *Janitor) Start() {
	go j.run()
}

func (j *Janitor) run() {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopCh:
			return
		}
	}
}

// sweep runs one retention pass. A failure in either half is logged and
// does not stop the loop (spec §4.12 "exceptions are caught and logged").
func (j *Janitor) sweep() {
	if j.retention.IncomingUpdatesEnabled {
		cutoff := time.Now().Add(-time.Duration(j.retention.IncomingUpdatesRetention) * time.Hour)
		n, err := j.store.PurgeIncomingUpdatesOlderThan(cutoff)
		if err != nil {
			j.log.WithError(err).Error("purge incoming_updates failed")
		} else if n > 0 {
			j.log.WithField("rows", n).Info("purged stale incoming_updates")
		}
	}

	chats, err := j.store.DistinctMessageChats()
	if err != nil {
		j.log.WithError(err).Error("list message chats failed")
		return
	}
	for _, chatID := range chats {
		n, err := j.store.TrimMessages(chatID, j.retention.MessagesKeepPerChat)
		if err != nil {
			j.log.WithError(err).WithField("chat_id", chatID).Error("trim messages failed")
			continue
		}
		if n > 0 {
			j.log.WithFields(logrus.Fields{"chat_id": chatID, "rows": n}).Debug("trimmed messages")
		}
	}
}

// Stop cancels the loop and waits for the current sweep, if any, to finish
// (spec §4.13 "cancel & await janitor").
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopCh)
		<-j.done
	})
}
