package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetSetting returns a process-wide key's value, and false if unset
// (spec §4.4 get_setting).
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get_setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a process-wide key/value pair (spec §4.4 set_setting).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set_setting %s: %w", key, err)
	}
	return nil
}
