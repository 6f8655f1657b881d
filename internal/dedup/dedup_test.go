package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenOrRecord_FirstSeenThenDuplicate(t *testing.T) {
	s := New(50 * time.Millisecond)
	defer s.Close()

	assert.False(t, s.SeenOrRecord("job-1"))
	assert.True(t, s.SeenOrRecord("job-1"))
	assert.Equal(t, 1, s.Len())
}

func TestSeenOrRecord_ExpiresAfterTTL(t *testing.T) {
	s := New(10 * time.Millisecond)
	defer s.Close()

	assert.False(t, s.SeenOrRecord("job-1"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, s.SeenOrRecord("job-1"))
}

func TestSeenOrRecord_DistinctKeysIndependent(t *testing.T) {
	s := New(time.Minute)
	defer s.Close()

	assert.False(t, s.SeenOrRecord("a"))
	assert.False(t, s.SeenOrRecord("b"))
	assert.Equal(t, 2, s.Len())
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	s := New(5 * time.Millisecond)
	defer s.Close()

	s.SeenOrRecord("stale")
	// The sweep ticker never fires more often than once a second.
	time.Sleep(1500 * time.Millisecond)

	s.mu.Lock()
	n := len(s.entries)
	s.mu.Unlock()
	assert.Equal(t, 0, n)
}
