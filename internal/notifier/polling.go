package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

// StartPolling long-polls for bot commands from the configured chat and
// replies with the handler's answer. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("telegram polling stopped")
			return
		default:
		}

		next, err := t.poll(ctx, offset, 30, handler)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("telegram polling: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		offset = next
	}
}

// poll fetches one batch of updates and returns the next offset.
func (t *TelegramNotifier) poll(ctx context.Context, offset, timeoutSec int, handler CommandHandler) (int, error) {
	pollCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second+pollGrace)
	defer cancel()

	var result updatesResponse
	resp, err := t.PollClient.R().
		SetContext(pollCtx).
		SetQueryParam("offset", fmt.Sprint(offset)).
		SetQueryParam("timeout", fmt.Sprint(timeoutSec)).
		SetResult(&result).
		Get(t.methodURL("getUpdates"))
	if err != nil {
		return offset, fmt.Errorf("get updates: %w", err)
	}
	if resp.StatusCode() != 200 || !result.OK {
		return offset, fmt.Errorf("get updates: status %d", resp.StatusCode())
	}

	for _, update := range result.Result {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		if fmt.Sprint(update.Message.Chat.ID) != t.ChatID {
			log.WithField("chat_id", update.Message.Chat.ID).Warn("ignoring command from unknown chat")
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		log.WithField("command", text).Info("received command")
		if reply := handler(text); reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				log.Errorf("send reply: %v", err)
			}
		}
	}
	return offset, nil
}
