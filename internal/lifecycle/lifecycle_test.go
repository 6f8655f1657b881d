package lifecycle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/config"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/queue"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Bot:      config.BotConfig{Token: "t", OwnerID: "owner-1"},
		Database: config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(dir, "test.db")},
		API: config.APIConfig{
			BaseURL: "http://127.0.0.1:0", TimeoutSeconds: 1,
			RetryAttempts: 0, RetryBackoff: 0.01, RateLimitPerSec: 1000,
		},
		Worker:    config.WorkerConfig{Concurrency: 2},
		Queue:     config.QueueConfig{MaxSize: 10, FullPolicy: "reject"},
		Ingress:   config.IngressConfig{RateLimitPerMinute: 100},
		Dedup:     config.DedupConfig{TTLSeconds: 60},
		Cache:     config.CacheConfig{TTLSeconds: 60, MaxSize: 100},
		Retention: config.RetentionConfig{IncomingUpdatesEnabled: true, MessagesKeepPerChat: 1000},
		LogLevel:  "INFO",
	}
}

func TestBuildStartShutdown(t *testing.T) {
	cfg := testConfig(t)
	log := logrus.New()

	app, err := Build(cfg, log)
	require.NoError(t, err)

	app.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))
}

func TestBuild_EnqueueProcessesThroughPluginChain(t *testing.T) {
	cfg := testConfig(t)
	log := logrus.New()

	app, err := Build(cfg, log)
	require.NoError(t, err)
	app.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
	}()

	job := domain.Job{
		JobID:      "j1",
		ChatID:     "c1",
		MessageID:  "m1",
		SenderID:   "u1",
		UpdateType: "message",
		Text:       "/ping",
		DedupKey:   "c1:m1:message",
		Priority:   domain.PriorityNormal,
	}
	res := app.Queue.Enqueue(job)
	assert.Equal(t, queue.Enqueued, res)

	require.Eventually(t, func() bool {
		return !app.Stats.Snapshot().LastDispatchAt.IsZero()
	}, time.Second, 10*time.Millisecond)
}
