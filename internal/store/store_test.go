package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetGroup_SynthesizesDefaultsWithoutWriting(t *testing.T) {
	s := openTestStore(t)

	g, err := s.GetGroup("chat-1")
	require.NoError(t, err)
	assert.True(t, g.AntiLink)
	assert.Equal(t, 6, g.FloodLimit)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM group_settings WHERE chat_id = ?`, "chat-1").Scan(&count))
	assert.Equal(t, 0, count, "get_group must not persist the synthesized default row")

	g2, err := s.GetGroup("chat-1")
	require.NoError(t, err)
	assert.Equal(t, g.ChatID, g2.ChatID)
}

func TestSetGroupFlag_CreatesRowAndFlipsOnlyThatColumn(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetGroupFlag("chat-1", "anti_flood", true))

	got, err := s.GetGroup("chat-1")
	require.NoError(t, err)
	assert.True(t, got.AntiFlood)
	assert.True(t, got.AntiLink, "unrelated flags keep their schema default")
	assert.Equal(t, 6, got.FloodLimit)
}

func TestSetGroupFlag_UnknownKeyErrors(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SetGroupFlag("chat-1", "not_a_flag", true))
}

func TestUpsertGroup_SetsTitleWithoutTouchingFlags(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetGroupFlag("chat-1", "anti_flood", true))
	require.NoError(t, s.UpsertGroup("chat-1", "My Group"))

	got, err := s.GetGroup("chat-1")
	require.NoError(t, err)
	assert.Equal(t, "My Group", got.Title)
	assert.True(t, got.AntiFlood)
}

func TestAdmins_GrantCheckRevoke(t *testing.T) {
	s := openTestStore(t)

	ok, err := s.IsAdmin("chat-1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AddAdmin("chat-1", "user-1", "admin"))
	ok, err = s.IsAdmin("chat-1", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveAdmin("chat-1", "user-1"))
	ok, err = s.IsAdmin("chat-1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilters_AddListRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.AddFilter(domain.Filter{ChatID: "chat-1", Word: "badword"}))
	filters, err := s.ListFilters("chat-1")
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "badword", filters[0].Word)

	require.NoError(t, s.RemoveFilter("chat-1", "badword"))
	filters, err = s.ListFilters("chat-1")
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestMessages_LogRecentAndTrim(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.LogMessage(domain.MessageLogEntry{
			ChatID: "chat-1", MessageID: "m", SenderID: "u", Text: "hi",
		}))
	}

	recent, err := s.RecentMessages("chat-1", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 5)

	n, err := s.TrimMessages("chat-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	recent, err = s.RecentMessages("chat-1", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestIncomingUpdates_SaveAndPurge(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveIncomingUpdate(domain.IncomingUpdate{
		JobID: "job-1", ReceivedAt: time.Now().Add(-48 * time.Hour),
		ChatID: "chat-1", UpdateType: "message",
	}))

	n, err := s.PurgeIncomingUpdatesOlderThan(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSettings_GetSetAndUpsert(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetSetting("maintenance_mode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("maintenance_mode", "false"))
	v, ok, err := s.GetSetting("maintenance_mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "false", v)

	require.NoError(t, s.SetSetting("maintenance_mode", "true"))
	v, _, err = s.GetSetting("maintenance_mode")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}
