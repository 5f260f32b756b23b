package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestDeferredHandlerForwardsOnceTargetIsSet(t *testing.T) {
	t.Parallel()

	var target bot.HandlerFunc
	h := NewDeferredHandler(&target)

	update := &models.Update{ID: 1}

	// No target yet: the update is dropped, not panicked on.
	h(context.Background(), nil, update)

	var got *models.Update
	target = func(_ context.Context, _ *bot.Bot, u *models.Update) { got = u }
	h(context.Background(), nil, update)
	assert.Same(t, update, got)
}

func TestExtractInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		update     *models.Update
		wantChatID int64
		wantText   string
		wantOK     bool
	}{
		{
			name: "text message",
			update: &models.Update{
				Message: &models.Message{
					Chat: models.Chat{ID: 42},
					Text: "/today London",
				},
			},
			wantChatID: 42,
			wantText:   "/today London",
			wantOK:     true,
		},
		{
			name: "callback query with accessible message",
			update: &models.Update{
				CallbackQuery: &models.CallbackQuery{
					Data: "tomorrow",
					Message: models.MaybeInaccessibleMessage{
						Message: &models.Message{Chat: models.Chat{ID: 7}},
					},
				},
			},
			wantChatID: 7,
			wantText:   "tomorrow",
			wantOK:     true,
		},
		{
			name: "callback query with inaccessible message",
			update: &models.Update{
				CallbackQuery: &models.CallbackQuery{
					Data: "week",
					Message: models.MaybeInaccessibleMessage{
						InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: 9}},
					},
				},
			},
			wantChatID: 9,
			wantText:   "week",
			wantOK:     true,
		},
		{
			name:   "update without message or callback",
			update: &models.Update{},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			chatID, text, ok := extractInput(tc.update)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantChatID, chatID)
				assert.Equal(t, tc.wantText, text)
			}
		})
	}
}
