package plugin

import (
	"fmt"
	"strings"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// panelFlags is the ordered set of toggleable GroupSettings booleans the
// inline keypad renders one row per flag for (supplemented from
// original_source/app/services/plugins/panel.py's later inline-keypad
// revision, §1 SPEC_FULL "Panel keypad affordances").
var panelFlags = []string{"anti_link", "anti_flood", "anti_spam", "anti_badwords", "anti_forward"}

// Panel renders and drives the settings inline keypad: /panel from a
// message shows current flags; a callback_query with data "panel:<flag>"
// toggles that flag and refreshes the keypad (spec §4.10).
type Panel struct{}

func (Panel) Name() string { return "panel" }

func (Panel) Handle(pc *Context) (bool, error) {
	if pc.Job.IsCallback && strings.HasPrefix(pc.Job.CallbackData, "panel:") {
		return handlePanelCallback(pc)
	}

	name, _, ok := parseCommand(pc.Job.Text)
	if !ok || name != "panel" {
		return false, nil
	}

	isAdmin, err := pc.Store.IsAdmin(pc.Job.ChatID, pc.Job.SenderID)
	if err != nil {
		return false, err
	}
	if !isAdmin && pc.Job.SenderID != pc.OwnerID {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "You are not allowed to open the panel.")
		return true, nil
	}

	settings, err := pc.Store.GetGroup(pc.Job.ChatID)
	if err != nil {
		return false, err
	}
	pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "Moderation panel:")
	pc.Client.EditInlineKeypad(pc.Ctx, pc.Job.ChatID, pc.Job.MessageID, renderKeypad(settings))
	return true, nil
}

func handlePanelCallback(pc *Context) (bool, error) {
	field := strings.TrimPrefix(pc.Job.CallbackData, "panel:")

	switch field {
	case "filter":
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "Use /filter add|remove|list <word> to manage filters.")
		return true, nil
	case "delete":
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "Use /del <message_id> to delete a message.")
		return true, nil
	}

	if !isPanelFlag(field) {
		return false, nil
	}

	settings, err := pc.Store.GetGroup(pc.Job.ChatID)
	if err != nil {
		return false, err
	}
	newValue := !flagValue(settings, field)
	if err := pc.Store.SetGroupFlag(pc.Job.ChatID, field, newValue); err != nil {
		return false, err
	}
	pc.Cache.Invalidate(pc.Job.ChatID)

	toggleFlag(&settings, field)
	pc.Client.EditInlineKeypad(pc.Ctx, pc.Job.ChatID, pc.Job.MessageID, renderKeypad(settings))
	return true, nil
}

func isPanelFlag(field string) bool {
	for _, f := range panelFlags {
		if f == field {
			return true
		}
	}
	return false
}

func toggleFlag(s *domain.GroupSettings, field string) {
	switch field {
	case "anti_link":
		s.AntiLink = !s.AntiLink
	case "anti_flood":
		s.AntiFlood = !s.AntiFlood
	case "anti_spam":
		s.AntiSpam = !s.AntiSpam
	case "anti_badwords":
		s.AntiBadwords = !s.AntiBadwords
	case "anti_forward":
		s.AntiForward = !s.AntiForward
	}
}

func renderKeypad(s domain.GroupSettings) map[string]any {
	rows := make([]map[string]any, 0, len(panelFlags)+2)
	for _, f := range panelFlags {
		rows = append(rows, map[string]any{
			"buttons": []map[string]string{{
				"id":   "panel:" + f,
				"type": "Simple",
				"button_text": fmt.Sprintf("%s: %v", f, flagValue(s, f)),
			}},
		})
	}
	rows = append(rows,
		map[string]any{"buttons": []map[string]string{{"id": "panel:filter", "type": "Simple", "button_text": "Filters"}}},
		map[string]any{"buttons": []map[string]string{{"id": "panel:delete", "type": "Simple", "button_text": "Delete"}}},
	)
	return map[string]any{"rows": rows}
}

func flagValue(s domain.GroupSettings, field string) bool {
	switch field {
	case "anti_link":
		return s.AntiLink
	case "anti_flood":
		return s.AntiFlood
	case "anti_spam":
		return s.AntiSpam
	case "anti_badwords":
		return s.AntiBadwords
	case "anti_forward":
		return s.AntiForward
	}
	return false
}
