// Package plugin implements the ordered, short-circuiting dispatch chain
// from spec §4.9/§4.10: incoming_snapshot, message_logging, anti_link,
// anti_flood, filters, commands, panel. Each plugin's Handle reports
// whether it claimed the update; a true short-circuits the remainder of
// the chain for that job.
package plugin

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/apiclient"
	"github.com/rubikabot/ingestcore/internal/cache"
	"github.com/rubikabot/ingestcore/internal/config"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/stats"
	"github.com/rubikabot/ingestcore/internal/store"
)

// Context bundles every collaborator a plugin may need (spec §4.10
// "context carries repo, client, command_registry, owner_id,
// report_anti_actions, settings, stats, and job").
type Context struct {
	Ctx               context.Context
	Store             *store.Store
	Client            *apiclient.Client
	Cache             *cache.SettingsCache
	CommandRegistry   *CommandRegistry
	OwnerID           string
	ReportAntiActions bool
	Settings          domain.GroupSettings
	Stats             *stats.Collector
	Job               domain.Job
	Retention         config.RetentionConfig
}

// Plugin is one stage of the dispatch chain.
type Plugin interface {
	Name() string
	Handle(pc *Context) (handled bool, err error)
}

// Registry holds the canonical ordered chain and dispatches each job
// through it (spec §4.9).
type Registry struct {
	plugins []Plugin
	log     *logrus.Entry
}

// NewRegistry builds the registry, running plugins in the order given.
// lifecycle.Build passes the canonical order: incoming snapshot, message
// logging, anti-link, anti-flood, filters, commands, panel — it encodes the
// rationale in spec §4.9 (snapshot/logging before moderation can delete,
// moderation before commands, commands before panel).
func NewRegistry(plugins []Plugin, log *logrus.Logger) *Registry {
	return &Registry{plugins: plugins, log: log.WithField("component", "PLUGIN")}
}

// Dispatch runs pc.Job through every plugin in order until one returns
// true or returns an error. An error propagates to the caller (the
// worker), which records it; the remainder of the chain does not run
// for that job (spec §4.9).
func (r *Registry) Dispatch(pc *Context) error {
	for _, p := range r.plugins {
		handled, err := p.Handle(pc)
		if err != nil {
			return err
		}
		if handled {
			r.log.WithFields(logrus.Fields{
				"plugin": p.Name(),
				"job_id": pc.Job.JobID,
			}).Debug("plugin claimed job")
			return nil
		}
	}
	return nil
}

// now is overridable in tests that need deterministic flood-window timing.
var now = time.Now
