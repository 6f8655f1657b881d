package plugin

import (
	"fmt"
	"strings"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// RegisterBuiltins wires the moderation/admin command set spec §4.11's
// priority classifier names (ban, unban, del, antilink, filter, settings,
// admins, setcmd) plus a plain /ping liveness check. /panel is not
// registered here; the Panel plugin handles it.
func RegisterBuiltins(r *CommandRegistry) {
	r.Register(Command{Name: "ping", Handler: cmdPing})
	r.Register(Command{Name: "ban", AdminOnly: true, Handler: cmdBan})
	r.Register(Command{Name: "unban", AdminOnly: true, Handler: cmdUnban})
	r.Register(Command{Name: "del", AdminOnly: true, Handler: cmdDel})
	r.Register(Command{Name: "antilink", AdminOnly: true, Handler: cmdAntiLink})
	r.Register(Command{Name: "filter", AdminOnly: true, Handler: cmdFilter})
	r.Register(Command{Name: "settings", AdminOnly: true, Handler: cmdSettings})
	r.Register(Command{Name: "admins", AdminOnly: true, Handler: cmdAdmins})
	r.Register(Command{Name: "setcmd", AdminOnly: true, Handler: cmdSetCmd})
}

func cmdPing(pc *Context, args []string) error {
	pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "pong")
	return nil
}

func cmdBan(pc *Context, args []string) error {
	if len(args) == 0 {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "usage: /ban <user_id>")
		return nil
	}
	pc.Client.BanChatMember(pc.Ctx, pc.Job.ChatID, args[0])
	return nil
}

func cmdUnban(pc *Context, args []string) error {
	if len(args) == 0 {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "usage: /unban <user_id>")
		return nil
	}
	pc.Client.UnbanChatMember(pc.Ctx, pc.Job.ChatID, args[0])
	return nil
}

func cmdDel(pc *Context, args []string) error {
	if len(args) == 0 {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "usage: /del <message_id>")
		return nil
	}
	pc.Client.DeleteMessage(pc.Ctx, pc.Job.ChatID, args[0])
	return nil
}

func cmdAntiLink(pc *Context, args []string) error {
	var newValue bool
	if len(args) > 0 {
		newValue = strings.EqualFold(args[0], "on")
	} else {
		settings, err := pc.Store.GetGroup(pc.Job.ChatID)
		if err != nil {
			return err
		}
		newValue = !settings.AntiLink
	}
	if err := pc.Store.SetGroupFlag(pc.Job.ChatID, "anti_link", newValue); err != nil {
		return err
	}
	pc.Cache.Invalidate(pc.Job.ChatID)
	pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, fmt.Sprintf("anti_link is now %v", newValue))
	return nil
}

func cmdFilter(pc *Context, args []string) error {
	if len(args) >= 1 && strings.EqualFold(args[0], "list") {
		filters, err := pc.Store.ListFilters(pc.Job.ChatID)
		if err != nil {
			return err
		}
		words := make([]string, len(filters))
		for i, f := range filters {
			words[i] = f.Word
		}
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "filters: "+strings.Join(words, ", "))
		return nil
	}
	if len(args) < 2 {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "usage: /filter <add|remove|list> [word]")
		return nil
	}
	switch strings.ToLower(args[0]) {
	case "add":
		return pc.Store.AddFilter(domain.Filter{ChatID: pc.Job.ChatID, Word: strings.ToLower(args[1])})
	case "remove":
		return pc.Store.RemoveFilter(pc.Job.ChatID, args[1])
	}
	return nil
}

func cmdSettings(pc *Context, args []string) error {
	settings, err := pc.Store.GetGroup(pc.Job.ChatID)
	if err != nil {
		return err
	}
	pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, fmt.Sprintf(
		"anti_link=%v anti_flood=%v anti_spam=%v anti_badwords=%v anti_forward=%v flood_limit=%d",
		settings.AntiLink, settings.AntiFlood, settings.AntiSpam,
		settings.AntiBadwords, settings.AntiForward, settings.FloodLimit))
	return nil
}

func cmdAdmins(pc *Context, args []string) error {
	admins, err := pc.Store.ListAdmins(pc.Job.ChatID)
	if err != nil {
		return err
	}
	ids := make([]string, len(admins))
	for i, a := range admins {
		ids[i] = a.UserID
	}
	pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "admins: "+strings.Join(ids, ", "))
	return nil
}

func cmdSetCmd(pc *Context, args []string) error {
	if len(args) < 2 {
		pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "usage: /setcmd <add|remove> <user_id>")
		return nil
	}
	switch strings.ToLower(args[0]) {
	case "add":
		return pc.Store.AddAdmin(pc.Job.ChatID, args[1], "admin")
	case "remove":
		return pc.Store.RemoveAdmin(pc.Job.ChatID, args[1])
	}
	return nil
}
