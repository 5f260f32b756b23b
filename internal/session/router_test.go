package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherbot/internal/session"
)

type staticCommand struct{ text string }

func (c staticCommand) Execute(_ context.Context, _ int64, _ []string) session.Reply {
	return session.Reply{Text: c.text}
}

func TestCommandRouterCanHandle(t *testing.T) {
	t.Parallel()

	r := session.NewCommandRouter()
	r.Register("/today", staticCommand{"today"}, 1)
	r.Register("/help", staticCommand{"help"}, 0)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"keyword with required arg", "/today London", true},
		{"keyword with extra args", "/today New York", true},
		{"keyword missing required arg", "/today", false},
		{"zero-arg keyword alone", "/help", true},
		{"zero-arg keyword with surplus args", "/help me please", true},
		{"unknown keyword", "/forecast London", false},
		{"keyword not in first position", "tell me /today London", false},
		{"mixed case keyword", "/TODAY London", true},
		{"group-chat bot suffix", "/today@SomeBot London", true},
		{"empty message", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, r.CanHandle(tc.text))
		})
	}
}

func TestCommandRouterResolve(t *testing.T) {
	t.Parallel()

	r := session.NewCommandRouter()
	r.Register("/today", staticCommand{"today"}, 1)

	// Resolve matches on the first token only; the argument count is the
	// command's own concern.
	cmd, ok := r.Resolve("/today")
	require.True(t, ok)
	assert.Equal(t, "today", cmd.Execute(context.Background(), 1, nil).Text)

	_, ok = r.Resolve("/unknown")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}

func TestCommandRouterRegisterOverwrites(t *testing.T) {
	t.Parallel()

	r := session.NewCommandRouter()
	r.Register("/today", staticCommand{"first"}, 0)
	r.Register("/today", staticCommand{"second"}, 0)

	cmd, ok := r.Resolve("/today")
	require.True(t, ok)
	assert.Equal(t, "second", cmd.Execute(context.Background(), 1, nil).Text)
}
