package store

import (
	"fmt"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// IsAdmin reports whether userID holds elevated role in chatID (spec §4.4
// is_admin, consulted by moderation commands before acting).
func (s *Store) IsAdmin(chatID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM admins WHERE chat_id = ? AND user_id = ?`,
		chatID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is_admin %s/%s: %w", chatID, userID, err)
	}
	return n > 0, nil
}

// AddAdmin grants userID the given role in chatID.
func (s *Store) AddAdmin(chatID, userID, role string) error {
	_, err := s.db.Exec(`
		INSERT INTO admins (chat_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT(chat_id, user_id) DO UPDATE SET role = excluded.role`,
		chatID, userID, role)
	if err != nil {
		return fmt.Errorf("add_admin %s/%s: %w", chatID, userID, err)
	}
	return nil
}

// RemoveAdmin revokes userID's elevated role in chatID.
func (s *Store) RemoveAdmin(chatID, userID string) error {
	_, err := s.db.Exec(`DELETE FROM admins WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		return fmt.Errorf("remove_admin %s/%s: %w", chatID, userID, err)
	}
	return nil
}

// ListAdmins returns every admin row for chatID.
func (s *Store) ListAdmins(chatID string) ([]domain.Admin, error) {
	rows, err := s.db.Query(`SELECT chat_id, user_id, role FROM admins WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list_admins %s: %w", chatID, err)
	}
	defer rows.Close()

	var out []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.ChatID, &a.UserID, &a.Role); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
