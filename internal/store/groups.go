package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// GetGroup returns chatID's settings, synthesizing an in-memory default
// the first time a chat is seen, without writing a row (spec §4.4
// get_group: "synthesizes default record when row absent, without
// writing" — the row is only ever persisted by upsert_group or
// set_group_flag).
func (s *Store) GetGroup(chatID string) (domain.GroupSettings, error) {
	row := s.db.QueryRow(`
		SELECT chat_id, title, anti_link, anti_flood, anti_spam, anti_badwords,
		       anti_forward, flood_limit, created_at, updated_at
		FROM group_settings WHERE chat_id = ?`, chatID)

	var g domain.GroupSettings
	err := row.Scan(&g.ChatID, &g.Title, &g.AntiLink, &g.AntiFlood, &g.AntiSpam,
		&g.AntiBadwords, &g.AntiForward, &g.FloodLimit, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.DefaultGroupSettings(chatID), nil
	}
	if err != nil {
		return domain.GroupSettings{}, fmt.Errorf("get_group %s: %w", chatID, err)
	}
	return g, nil
}

// groupFlagColumns maps a set_group_flag key to its column, the only
// columns callers may target one at a time (spec §4.4 set_group_flag).
var groupFlagColumns = map[string]string{
	"anti_link":     "anti_link",
	"anti_flood":    "anti_flood",
	"anti_spam":     "anti_spam",
	"anti_badwords": "anti_badwords",
	"anti_forward":  "anti_forward",
}

// SetGroupFlag flips a single moderation flag, creating the row with
// schema defaults for every other column if chatID hasn't been seen yet.
// Touching only one column, rather than reading the full row and writing
// it back, keeps two concurrent toggles on different flags for the same
// chat from clobbering each other (spec §4.4 set_group_flag).
func (s *Store) SetGroupFlag(chatID, key string, value bool) error {
	column, ok := groupFlagColumns[key]
	if !ok {
		return fmt.Errorf("set_group_flag %s: unknown flag %q", chatID, key)
	}
	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO group_settings (chat_id, %s, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			%s = excluded.%s,
			updated_at = excluded.updated_at`, column, column, column)
	if _, err := s.db.Exec(query, chatID, value, now, now); err != nil {
		return fmt.Errorf("set_group_flag %s.%s: %w", chatID, key, err)
	}
	return nil
}

// UpsertGroup updates the chat's title, creating the row with schema
// defaults for every other column if chatID hasn't been seen yet (spec
// §4.4 upsert_group(chat_id, title), invoked from message handling so a
// chat's title stays current).
func (s *Store) UpsertGroup(chatID, title string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO group_settings (chat_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at`,
		chatID, title, now, now)
	if err != nil {
		return fmt.Errorf("upsert_group %s: %w", chatID, err)
	}
	return nil
}
