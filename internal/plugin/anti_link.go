package plugin

import "regexp"

var linkPattern = regexp.MustCompile(`(?i)(https?://|www\.|t\.me/|rubika\.ir/)`)

var groupChatTypes = map[string]bool{
	"Group": true, "group": true,
	"Supergroup": true,
	"Channel":    true, "channel": true,
}

// AntiLink deletes messages containing a link and bans the sender, unless
// the sender is an admin, for group-like chats with anti_link enabled
// (spec §4.10).
type AntiLink struct{}

func (AntiLink) Name() string { return "anti_link" }

func (AntiLink) Handle(pc *Context) (bool, error) {
	if !groupChatTypes[pc.Job.ChatType] {
		return false, nil
	}
	if !pc.Settings.AntiLink {
		return false, nil
	}
	if !linkPattern.MatchString(pc.Job.Text) {
		return false, nil
	}

	isAdmin, err := pc.Store.IsAdmin(pc.Job.ChatID, pc.Job.SenderID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return false, nil
	}

	if pc.Job.MessageID != "" {
		pc.Client.DeleteMessage(pc.Ctx, pc.Job.ChatID, pc.Job.MessageID)
	}
	if pc.Job.SenderID != "" {
		pc.Client.BanChatMember(pc.Ctx, pc.Job.ChatID, pc.Job.SenderID)
	}
	if pc.ReportAntiActions {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "Link detected, message removed and sender banned.")
	}
	return true, nil
}
