// Package domain holds the value types shared across the ingestion core:
// a Job's shape, a chat's moderation settings, the persisted entities the
// store owns, and the process-wide counters the stats collector exposes.
// None of these types carry behavior; see the package that owns each
// concern (queue, store, stats, ...) for operations on them.
package domain

import "time"

// Priority is the queue's dequeue-precedence class (spec §3, §4.7).
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Job is the internal envelope around an inbound update once ingress has
// classified it. Immutable after construction (spec §3).
type Job struct {
	JobID      string
	ReceivedAt time.Time
	ChatID     string
	ChatType   string
	ChatTitle  string
	MessageID  string
	SenderID   string
	UpdateType string
	Text       string
	ButtonID   string
	IsCallback bool
	CallbackData string
	RawPayload map[string]any
	DedupKey   string
	Priority   Priority
}

// GroupSettings is the per-chat moderation configuration (spec §3).
type GroupSettings struct {
	ChatID       string
	Title        string
	AntiLink     bool
	AntiFlood    bool
	AntiSpam     bool
	AntiBadwords bool
	AntiForward  bool
	FloodLimit   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultGroupSettings is synthesized by the store when a chat_id has never
// been seen (spec §4.4 get_group).
func DefaultGroupSettings(chatID string) GroupSettings {
	return GroupSettings{
		ChatID:     chatID,
		AntiLink:   true,
		FloodLimit: 6,
	}
}

// Admin is chat-scoped elevated membership (spec §3).
type Admin struct {
	ChatID string
	UserID string
	Role   string
}

// Filter is a chat-scoped blacklist/whitelist word entry (spec §3).
type Filter struct {
	ChatID       string
	Word         string
	IsWhitelist  bool
	RegexEnabled bool
	CreatedAt    time.Time
}

// MessageLogEntry is an append-only record used for history and bulk delete
// (spec §3).
type MessageLogEntry struct {
	ID        int64
	ChatID    string
	MessageID string
	SenderID  string
	Text      string
	CreatedAt time.Time
}

// IncomingUpdate is the per-job snapshot persisted by the incoming_snapshot
// plugin, when snapshots are enabled (spec §3).
type IncomingUpdate struct {
	ID         int64
	JobID      string
	ReceivedAt time.Time
	ChatID     string
	MessageID  string
	SenderID   string
	UpdateType string
	Text       string
	RawPayload string // serialized JSON, empty unless store-raw is enabled
	CreatedAt  time.Time
}

// Setting is a process-wide key/value pair (spec §3).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// WorkerStatus is the worker pool's per-worker mutable record (spec §3).
type WorkerStatus struct {
	ID           int
	StartedAt    time.Time
	LastJobAt    time.Time
	LastError    string
	LastErrorAt  time.Time
	Processed    int64
	Alive        bool
}

// Stats is the process-global set of counters the stats collector owns
// (spec §3, §4.5).
type Stats struct {
	TotalUpdates       int64
	TotalErrors        int64
	TotalEnqueued      int64
	TotalDropped       int64
	TotalDeduped       int64
	CumulativeDispatch int64 // milliseconds
	LastDispatchMs     int64
	LastQueueSize      int
	LastEnqueueAt      time.Time
	LastDispatchAt     time.Time
	LastErrorAt        time.Time
	StartedAt          time.Time
}

func (s Stats) AverageDispatchMs() float64 {
	if s.TotalUpdates == 0 {
		return 0
	}
	return float64(s.CumulativeDispatch) / float64(s.TotalUpdates)
}

func (s Stats) UptimeSeconds(now time.Time) float64 {
	return now.Sub(s.StartedAt).Seconds()
}
