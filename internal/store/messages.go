package store

import (
	"fmt"
	"time"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// LogMessage appends a message-log entry (spec §4.4 log_message, written
// by the message_logging plugin for every dispatched job that carries a
// message id).
func (s *Store) LogMessage(m domain.MessageLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (chat_id, message_id, sender_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ChatID, m.MessageID, m.SenderID, m.Text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("log_message %s/%s: %w", m.ChatID, m.MessageID, err)
	}
	return nil
}

// RecentMessages returns the last limit messages logged for chatID, most
// recent first (spec §4.4 recent_messages, used by bulk-delete commands).
func (s *Store) RecentMessages(chatID string, limit int) ([]domain.MessageLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, message_id, sender_id, text, created_at
		FROM messages WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent_messages %s: %w", chatID, err)
	}
	defer rows.Close()

	var out []domain.MessageLogEntry
	for rows.Next() {
		var m domain.MessageLogEntry
		if err := rows.Scan(&m.ID, &m.ChatID, &m.MessageID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TrimMessages deletes all but the keepPerChat most recent messages for
// chatID, the per-chat half of the retention janitor's sweep (spec §4.12).
func (s *Store) TrimMessages(chatID string, keepPerChat int) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM messages WHERE chat_id = ? AND id NOT IN (
			SELECT id FROM messages WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?
		)`, chatID, chatID, keepPerChat)
	if err != nil {
		return 0, fmt.Errorf("trim_messages %s: %w", chatID, err)
	}
	return res.RowsAffected()
}

// DistinctMessageChats returns every chat_id with at least one logged
// message, so the janitor can iterate per-chat trimming (spec §4.12).
func (s *Store) DistinctMessageChats() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT chat_id FROM messages`)
	if err != nil {
		return nil, fmt.Errorf("distinct_message_chats: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var chatID string
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("scan chat_id: %w", err)
		}
		out = append(out, chatID)
	}
	return out, rows.Err()
}
