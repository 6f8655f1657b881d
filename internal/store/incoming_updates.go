package store

import (
	"fmt"
	"time"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// SaveIncomingUpdate persists a per-job snapshot written by the
// incoming_snapshot plugin when snapshotting is enabled (spec §3, §4.9).
// RawPayload is left empty by the caller unless store-raw is enabled
// (spec §5 "Retention" config).
func (s *Store) SaveIncomingUpdate(u domain.IncomingUpdate) error {
	_, err := s.db.Exec(`
		INSERT INTO incoming_updates
			(job_id, received_at, chat_id, message_id, sender_id, update_type, text, raw_payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.JobID, u.ReceivedAt, u.ChatID, u.MessageID, u.SenderID, u.UpdateType,
		u.Text, u.RawPayload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save_incoming_update %s: %w", u.JobID, err)
	}
	return nil
}

// PurgeIncomingUpdatesOlderThan deletes snapshot rows older than cutoff,
// the incoming_updates half of the retention janitor's sweep (spec §4.12).
func (s *Store) PurgeIncomingUpdatesOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM incoming_updates WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge_incoming_updates: %w", err)
	}
	return res.RowsAffected()
}
