package plugin

import (
	"sync"
	"time"
)

const floodWindow = 8 * time.Second

// AntiFlood tracks a sliding window of message timestamps per
// (chat_id, sender_id) and bans a sender exceeding flood_limit within
// floodWindow, deleting the message that tipped it over (spec §4.10).
type AntiFlood struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewAntiFlood builds a ready-to-use AntiFlood plugin.
func NewAntiFlood() *AntiFlood {
	return &AntiFlood{hits: make(map[string][]time.Time)}
}

func (AntiFlood) Name() string { return "anti_flood" }

func (a *AntiFlood) Handle(pc *Context) (bool, error) {
	if !pc.Settings.AntiFlood {
		return false, nil
	}
	if pc.Job.SenderID == "" {
		return false, nil
	}

	isAdmin, err := pc.Store.IsAdmin(pc.Job.ChatID, pc.Job.SenderID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return false, nil
	}

	key := pc.Job.ChatID + ":" + pc.Job.SenderID
	t := now()
	cutoff := t.Add(-floodWindow)

	a.mu.Lock()
	times := a.hits[key]
	kept := times[:0]
	for _, x := range times {
		if x.After(cutoff) {
			kept = append(kept, x)
		}
	}
	kept = append(kept, t)
	a.hits[key] = kept
	count := len(kept)
	a.mu.Unlock()

	limit := pc.Settings.FloodLimit
	if limit <= 0 {
		limit = 6
	}
	if count <= limit {
		return false, nil
	}

	if pc.Job.MessageID != "" {
		pc.Client.DeleteMessage(pc.Ctx, pc.Job.ChatID, pc.Job.MessageID)
	}
	pc.Client.BanChatMember(pc.Ctx, pc.Job.ChatID, pc.Job.SenderID)
	return true, nil
}
