package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngressLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewIngressLimiter(3, time.Minute)

	assert.True(t, l.Allow("chat-1"))
	assert.True(t, l.Allow("chat-1"))
	assert.True(t, l.Allow("chat-1"))
	assert.False(t, l.Allow("chat-1"))
}

func TestIngressLimiter_WindowSlides(t *testing.T) {
	l := NewIngressLimiter(1, 20*time.Millisecond)

	assert.True(t, l.Allow("chat-1"))
	assert.False(t, l.Allow("chat-1"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("chat-1"))
}

func TestIngressLimiter_ChatsIndependent(t *testing.T) {
	l := NewIngressLimiter(1, time.Minute)

	assert.True(t, l.Allow("chat-1"))
	assert.True(t, l.Allow("chat-2"))
	assert.False(t, l.Allow("chat-1"))
}

func TestOutboundLimiter_PerMethodIndependence(t *testing.T) {
	o := NewOutboundLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, o.Wait(ctx, "sendText"))
	// sendFile has its own bucket and should not be blocked by sendText's.
	require.NoError(t, o.Wait(ctx, "sendFile"))
}

func TestOutboundLimiter_RespectsContextCancellation(t *testing.T) {
	o := NewOutboundLimiter(1, 1)
	ctx := context.Background()
	require.NoError(t, o.Wait(ctx, "sendText"))

	shortCtx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := o.Wait(shortCtx, "sendText")
	assert.Error(t, err)
}
