package session

import (
	"context"
	"strings"
)

// Command executes a slash command with its whitespace-delimited arguments.
type Command interface {
	Execute(ctx context.Context, chatID int64, args []string) Reply
}

type registration struct {
	command      Command
	requiredArgs int
}

// CommandRouter maps slash-command keywords to handlers and their
// required argument counts. The mapping is built once at startup and
// only consulted from the initial conversation state.
type CommandRouter struct {
	commands map[string]registration
}

// NewCommandRouter creates an empty command router.
func NewCommandRouter() *CommandRouter {
	return &CommandRouter{commands: make(map[string]registration)}
}

// Register adds or overwrites the mapping for a command keyword.
func (r *CommandRouter) Register(keyword string, command Command, requiredArgs int) {
	r.commands[normalizeKeyword(keyword)] = registration{command: command, requiredArgs: requiredArgs}
}

// CanHandle reports whether the first whitespace-delimited token of the
// message matches a registered keyword and the remaining token count
// satisfies that keyword's required argument count. It is the strict
// matching predicate for callers that need the full keyword-plus-arity
// check; dispatch itself uses Resolve.
func (r *CommandRouter) CanHandle(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	reg, ok := r.commands[normalizeKeyword(fields[0])]
	return ok && len(fields)-1 >= reg.requiredArgs
}

// Resolve looks up the command by the message's first token only,
// deliberately ignoring the argument count: a command invoked with its
// arguments missing still executes, so it can prompt for what it needs
// instead of reading as an unknown command.
func (r *CommandRouter) Resolve(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, false
	}
	reg, ok := r.commands[normalizeKeyword(fields[0])]
	if !ok {
		return nil, false
	}
	return reg.command, true
}

// normalizeKeyword lowercases a command token and strips the @botname
// suffix Telegram appends in group chats.
func normalizeKeyword(token string) string {
	token = strings.ToLower(token)
	if idx := strings.Index(token, "@"); idx != -1 {
		token = token[:idx]
	}
	return token
}
