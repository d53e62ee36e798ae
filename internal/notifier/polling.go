package notifier

import (
	"context"
	"log"
	"strings"
	"time"
)

// Chat identifies a conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is the subset of a Telegram message the bot reads.
type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// CallbackQuery is an inline keyboard button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

// Update represents a Telegram update from long polling.
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// UpdateHandler is called for every received update, one at a time.
type UpdateHandler func(ctx context.Context, update Update)

// StartPolling begins long-polling for updates. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler UpdateHandler) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		var updates []Update
		err := t.call(ctx, "getUpdates", map[string]any{
			"offset":          offset,
			"timeout":         30,
			"allowed_updates": []string{"message", "callback_query"},
		}, &updates)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message != nil {
				update.Message.Text = strings.TrimSpace(update.Message.Text)
				if update.Message.Text == "" {
					continue
				}
				log.Printf("[INFO] received command: %s", update.Message.Text)
			}
			if update.CallbackQuery != nil {
				log.Printf("[INFO] received callback: %s", update.CallbackQuery.Data)
			}
			handler(ctx, update)
		}
	}
}
