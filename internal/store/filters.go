package store

import (
	"fmt"
	"time"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// AddFilter inserts or replaces a blacklist/whitelist word entry for chatID
// (spec §4.4 add_filter, invoked by the filters plugin's admin commands).
func (s *Store) AddFilter(f domain.Filter) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO filters (chat_id, word, is_whitelist, regex_enabled, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id, word) DO UPDATE SET
			is_whitelist = excluded.is_whitelist,
			regex_enabled = excluded.regex_enabled`,
		f.ChatID, f.Word, f.IsWhitelist, f.RegexEnabled, now)
	if err != nil {
		return fmt.Errorf("add_filter %s/%s: %w", f.ChatID, f.Word, err)
	}
	return nil
}

// RemoveFilter deletes a word entry from chatID's filter list.
func (s *Store) RemoveFilter(chatID, word string) error {
	_, err := s.db.Exec(`DELETE FROM filters WHERE chat_id = ? AND word = ?`, chatID, word)
	if err != nil {
		return fmt.Errorf("remove_filter %s/%s: %w", chatID, word, err)
	}
	return nil
}

// ListFilters returns every filter entry for chatID (spec §4.4 list_filters,
// consulted by the filters plugin on each message).
func (s *Store) ListFilters(chatID string) ([]domain.Filter, error) {
	rows, err := s.db.Query(`
		SELECT chat_id, word, is_whitelist, regex_enabled, created_at
		FROM filters WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list_filters %s: %w", chatID, err)
	}
	defer rows.Close()

	var out []domain.Filter
	for rows.Next() {
		var f domain.Filter
		if err := rows.Scan(&f.ChatID, &f.Word, &f.IsWhitelist, &f.RegexEnabled, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
