package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/domain"
)

func TestGetOrLoad_CachesAfterFirstLoad(t *testing.T) {
	c, err := New(100, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	load := func(chatID string) (domain.GroupSettings, error) {
		calls++
		return domain.GroupSettings{ChatID: chatID, FloodLimit: 6}, nil
	}

	got, err := c.GetOrLoad("chat-1", load)
	require.NoError(t, err)
	assert.Equal(t, "chat-1", got.ChatID)
	assert.Equal(t, 1, calls)

	got2, err := c.GetOrLoad("chat-1", load)
	require.NoError(t, err)
	assert.Equal(t, got, got2)
	assert.Equal(t, 1, calls, "second call should hit cache, not loader")
}

func TestGetOrLoad_PropagatesLoaderError(t *testing.T) {
	c, err := New(100, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	boom := errors.New("store unavailable")
	_, err = c.GetOrLoad("chat-1", func(string) (domain.GroupSettings, error) {
		return domain.GroupSettings{}, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	c, err := New(100, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	load := func(chatID string) (domain.GroupSettings, error) {
		calls++
		return domain.GroupSettings{ChatID: chatID, FloodLimit: calls}, nil
	}

	_, err = c.GetOrLoad("chat-1", load)
	require.NoError(t, err)
	c.Invalidate("chat-1")

	got, err := c.GetOrLoad("chat-1", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, got.FloodLimit)
}
