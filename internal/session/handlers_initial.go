package session

import (
	"context"
	"strings"
)

// initialHandler dispatches messages received in the initial state through
// the command router. Unknown input yields a fixed reply with no state change.
type initialHandler struct{ m *Manager }

func (h initialHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	command, ok := h.m.router.Resolve(text)
	if !ok {
		return Reply{Text: h.m.msgs.UnknownCommand}
	}

	fields := strings.Fields(text)
	return command.Execute(ctx, chatID, fields[1:])
}

// isCancel reports whether the message aborts the current flow. Cancel is
// reachable from every waiting state, both as a typed command and as a
// callback token.
func isCancel(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	token := normalizeKeyword(fields[0])
	return token == "/cancel" || token == "cancel"
}
