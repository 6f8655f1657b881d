package janitor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/config"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSweep_TrimsMessagesPerChatAndPurgesFreshRowsSurvive(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveIncomingUpdate(domain.IncomingUpdate{
		JobID:      "fresh-1",
		ReceivedAt: time.Now(),
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.LogMessage(domain.MessageLogEntry{
			ChatID:    "chat-1",
			MessageID: "m" + string(rune('0'+i)),
		}))
	}

	retention := config.RetentionConfig{
		IncomingUpdatesEnabled:   true,
		IncomingUpdatesRetention: 48,
		MessagesKeepPerChat:      2,
	}
	j := New(s, time.Hour, retention, logrus.New())
	j.sweep()

	// A row inserted moments ago is well within a 48h retention window.
	n, err := s.PurgeIncomingUpdatesOlderThan(time.Now().Add(-48 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	chats, err := s.DistinctMessageChats()
	require.NoError(t, err)
	require.Contains(t, chats, "chat-1")

	recent, err := s.RecentMessages("chat-1", 100)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestSweep_SkipsPurgeWhenIncomingUpdatesDisabled(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveIncomingUpdate(domain.IncomingUpdate{
		JobID:      "old-1",
		ReceivedAt: time.Now(),
	}))

	retention := config.RetentionConfig{
		IncomingUpdatesEnabled: false,
		MessagesKeepPerChat:    10000,
	}
	j := New(s, time.Hour, retention, logrus.New())
	j.sweep()
}

func TestStartStop_RunsWithoutPanicking(t *testing.T) {
	s := openTestStore(t)
	retention := config.RetentionConfig{
		IncomingUpdatesEnabled:   true,
		IncomingUpdatesRetention: 48,
		MessagesKeepPerChat:      1000,
	}
	j := New(s, 10*time.Millisecond, retention, logrus.New())
	j.Start()
	time.Sleep(30 * time.Millisecond)
	j.Stop()
}
