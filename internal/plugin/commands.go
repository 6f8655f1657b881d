package plugin

import "strings"

// CommandHandler runs a parsed /command invocation.
type CommandHandler func(pc *Context, args []string) error

// Command is one registered slash command (spec §4.10 "Commands: parses
// leading /name, looks up in registry").
type Command struct {
	Name      string
	AdminOnly bool
	Handler   CommandHandler
}

// CommandRegistry is a simple name->Command lookup table, the registry
// the Commands plugin consults and that the lifecycle orchestrator builds
// at startup (spec §4.13).
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry builds an empty registry; callers Register the
// built-in set (spec's admin/moderation commands named in §4.10) plus
// any extensions.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]Command)}
}

func (r *CommandRegistry) Register(cmd Command) {
	r.commands[strings.ToLower(cmd.Name)] = cmd
}

func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Commands parses a leading /name token, enforces admin_only, and
// dispatches to the registered handler (spec §4.10).
type Commands struct{}

func (Commands) Name() string { return "commands" }

func (Commands) Handle(pc *Context) (bool, error) {
	name, args, ok := parseCommand(pc.Job.Text)
	if !ok {
		return false, nil
	}

	cmd, ok := pc.CommandRegistry.Lookup(name)
	if !ok {
		return false, nil
	}

	if cmd.AdminOnly {
		allowed := pc.Job.SenderID == pc.OwnerID
		if !allowed {
			isAdmin, err := pc.Store.IsAdmin(pc.Job.ChatID, pc.Job.SenderID)
			if err != nil {
				return false, err
			}
			allowed = isAdmin
		}
		if !allowed {
			pc.Client.SendMessage(pc.Ctx, pc.Job.ChatID, "You are not allowed to run this command.")
			return true, nil
		}
	}

	if err := cmd.Handler(pc, args); err != nil {
		return false, err
	}
	return true, nil
}

// parseCommand extracts the lowercased command token and its arguments
// from a leading "/name arg1 arg2" message (spec §4.11 "first /-prefixed
// word, lowercased").
func parseCommand(text string) (name string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
