package plugin

import (
	"encoding/json"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// IncomingSnapshot persists a per-job record when snapshotting is enabled
// and never short-circuits, so even a message a later plugin deletes is
// recorded (spec §4.9, §4.10).
type IncomingSnapshot struct{}

func (IncomingSnapshot) Name() string { return "incoming_snapshot" }

func (IncomingSnapshot) Handle(pc *Context) (bool, error) {
	if !pc.Retention.IncomingUpdatesEnabled {
		return false, nil
	}

	var raw string
	if pc.Retention.IncomingUpdatesStoreRaw {
		if b, err := json.Marshal(pc.Job.RawPayload); err == nil {
			raw = string(b)
		}
	}

	err := pc.Store.SaveIncomingUpdate(domain.IncomingUpdate{
		JobID:      pc.Job.JobID,
		ReceivedAt: pc.Job.ReceivedAt,
		ChatID:     pc.Job.ChatID,
		MessageID:  pc.Job.MessageID,
		SenderID:   pc.Job.SenderID,
		UpdateType: pc.Job.UpdateType,
		Text:       pc.Job.Text,
		RawPayload: raw,
	})
	return false, err
}
