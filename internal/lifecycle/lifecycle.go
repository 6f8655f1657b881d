// Package lifecycle wires every component spec §4.13 names into one
// running process and tears it back down, the way the teacher's cmd/root.go
// initApp/StopApp pair wires the bot engine, workspace manager, and
// subsystems into rootCmd.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/apiclient"
	"github.com/rubikabot/ingestcore/internal/cache"
	"github.com/rubikabot/ingestcore/internal/config"
	"github.com/rubikabot/ingestcore/internal/dedup"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/janitor"
	"github.com/rubikabot/ingestcore/internal/plugin"
	"github.com/rubikabot/ingestcore/internal/queue"
	"github.com/rubikabot/ingestcore/internal/ratelimit"
	"github.com/rubikabot/ingestcore/internal/stats"
	"github.com/rubikabot/ingestcore/internal/store"
	"github.com/rubikabot/ingestcore/internal/webhook"
	"github.com/rubikabot/ingestcore/internal/workerpool"
)

// App bundles every running subsystem so Shutdown can unwind them in the
// reverse order they were started (spec §4.13 "shutdown: stop workers,
// cancel/await janitor").
type App struct {
	Config *config.Config
	Log    *logrus.Logger

	Store   *store.Store
	Client  *apiclient.Client
	Cache   *cache.SettingsCache
	Stats   *stats.Collector
	Dedup   *dedup.Set
	Queue   *queue.Queue
	Pool    *workerpool.Pool
	Janitor *janitor.Janitor
	Router  *webhook.Router
	Fiber   *fiber.App
	Metrics *prometheus.Registry
}

// defaultOutboundBurst is the outbound token bucket's starting capacity
// (spec §4.6 "capacity=burst (default 5)"). There is no env var for this
// in spec §6, so it is a fixed internal default rather than derived from
// the configured rate.
const defaultOutboundBurst = 5

// Build constructs every subsystem but does not yet accept traffic or
// start background goroutines; call Start to do that (spec §4.13 steps
// "resolve DB path -> ensure schema -> construct store -> ... -> build
// plugin registry").
func Build(cfg *config.Config, log *logrus.Logger) (*App, error) {
	st, err := store.Open(cfg.SQLitePath(), log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := apiclient.New(apiclient.Config{
		BaseURL:         cfg.API.BaseURL,
		Token:           cfg.Bot.Token,
		Timeout:         time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RetryAttempts:   cfg.API.RetryAttempts,
		RetryBackoff:    time.Duration(cfg.API.RetryBackoff * float64(time.Second)),
		RateLimitPerSec: cfg.API.RateLimitPerSec,
		RateLimitBurst:  defaultOutboundBurst,
	}, log)

	settingsCache, err := cache.New(cfg.Cache.MaxSize, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build settings cache: %w", err)
	}

	collector := stats.New()
	metrics := prometheus.NewRegistry()
	_ = stats.NewPrometheusExporter(collector, metrics)

	registry := plugin.NewCommandRegistry()
	plugin.RegisterBuiltins(registry)

	chain := plugin.NewRegistry([]plugin.Plugin{
		plugin.IncomingSnapshot{},
		plugin.MessageLogging{},
		plugin.AntiLink{},
		plugin.NewAntiFlood(),
		plugin.Filters{},
		plugin.Commands{},
		plugin.Panel{},
	}, log)

	dedupSet := dedup.New(time.Duration(cfg.Dedup.TTLSeconds) * time.Second)
	q := queue.New(cfg.Queue.MaxSize, fullPolicy(cfg.Queue.FullPolicy), dedupSet)

	handler := buildHandler(st, client, settingsCache, registry, chain, collector, cfg)
	pool := workerpool.New(cfg.Worker.Concurrency, q, handler, collector, log)

	jan := janitor.New(st, janitor.DefaultInterval, cfg.Retention, log)

	ingress := ratelimit.NewIngressLimiter(cfg.Ingress.RateLimitPerMinute, time.Minute)
	router := webhook.New(cfg.Webhook.Secret, ingress, q, collector, pool, cfg.Queue.MaxSize, log)

	fiberApp := fiber.New()
	fiberApp.Use(webhook.Recovery())
	router.Register(fiberApp)
	router.RegisterStream(fiberApp)
	webhook.RegisterMetrics(fiberApp, metrics)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Client:  client,
		Cache:   settingsCache,
		Stats:   collector,
		Dedup:   dedupSet,
		Queue:   q,
		Pool:    pool,
		Janitor: jan,
		Router:  router,
		Fiber:   fiberApp,
		Metrics: metrics,
	}, nil
}

// Start launches the worker pool and janitor loop (spec §4.13
// "start workers -> spawn janitor"). It does not block; call Fiber.Listen
// separately to serve traffic.
func (a *App) Start() {
	a.Pool.Start()
	a.Janitor.Start()
	a.Log.Info("[LIFECYCLE] worker pool and janitor started")
}

// Shutdown unwinds every subsystem in reverse dependency order: stop
// accepting new jobs, drain workers, stop the janitor, close the store
// (spec §4.13). The API client is not closed.
func (a *App) Shutdown(ctx context.Context) error {
	a.Log.Info("[LIFECYCLE] shutting down")

	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		a.Log.WithError(err).Error("[LIFECYCLE] fiber shutdown error")
	}

	a.Pool.Stop()
	a.Janitor.Stop()
	a.Dedup.Close()
	a.Cache.Close()
	a.Queue.Close()

	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	a.Log.Info("[LIFECYCLE] shutdown complete")
	return nil
}

func fullPolicy(s string) queue.FullPolicy {
	if s == "drop_oldest" {
		return queue.PolicyDropOldest
	}
	return queue.PolicyReject
}

// buildHandler closes over every collaborator a job dispatch needs and
// adapts them into the workerpool.Handler shape: load settings from the
// cache (falling back to the store) and run the job through the plugin
// chain; a returned error is counted by the worker pool (spec §4.9, §4.10).
func buildHandler(st *store.Store, client *apiclient.Client, settingsCache *cache.SettingsCache, commands *plugin.CommandRegistry, chain *plugin.Registry, collector *stats.Collector, cfg *config.Config) workerpool.Handler {
	return func(job domain.Job) error {
		settings, err := settingsCache.GetOrLoad(job.ChatID, st.GetGroup)
		if err != nil {
			return fmt.Errorf("load group settings for %s: %w", job.ChatID, err)
		}

		pc := &plugin.Context{
			Ctx:               context.Background(),
			Store:             st,
			Client:            client,
			Cache:             settingsCache,
			CommandRegistry:   commands,
			OwnerID:           cfg.Bot.OwnerID,
			ReportAntiActions: true,
			Settings:          settings,
			Stats:             collector,
			Job:               job,
			Retention:         cfg.Retention,
		}

		return chain.Dispatch(pc)
	}
}
