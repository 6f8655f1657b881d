package plugin

import "github.com/rubikabot/ingestcore/internal/domain"

// MessageLogging appends the message to the log for history/bulk-delete
// and never short-circuits (spec §4.10). It upserts the chat's settings
// row (so title stays current) only when the job carries a chat title;
// without one, no row is written for the chat.
type MessageLogging struct{}

func (MessageLogging) Name() string { return "message_logging" }

func (MessageLogging) Handle(pc *Context) (bool, error) {
	if pc.Job.MessageID == "" {
		return false, nil
	}

	if pc.Job.ChatTitle != "" {
		if err := pc.Store.UpsertGroup(pc.Job.ChatID, pc.Job.ChatTitle); err != nil {
			return false, err
		}
		pc.Cache.Invalidate(pc.Job.ChatID)
	}

	err := pc.Store.LogMessage(domain.MessageLogEntry{
		ChatID:    pc.Job.ChatID,
		MessageID: pc.Job.MessageID,
		SenderID:  pc.Job.SenderID,
		Text:      pc.Job.Text,
	})
	return false, err
}
