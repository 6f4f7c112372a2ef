// Copyright 2024-2026 Aiku AI

package relay

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/aiku/telegram-relay/pkg/relay/markdownv2"
)

// TelegramClient is the subset of the Bot API client the relay uses.
// *bot.Bot implements it; tests inject a mock.
type TelegramClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
}

var _ TelegramClient = (*bot.Bot)(nil)

// forward formats text as MarkdownV2 and fans it out to the originating
// chat and the configured log chat. Send failures are delivery errors:
// they are logged and never retried with alternate formatting, since the
// formatter is deterministic and would reproduce the same rejection.
func (r *Relay) forward(ctx context.Context, chatID int64, text string) {
	formatted := markdownv2.Format(text)

	targets := []int64{chatID}
	if r.cfg.LogChatID != 0 && r.cfg.LogChatID != chatID {
		targets = append(targets, r.cfg.LogChatID)
	}

	for _, target := range targets {
		_, err := r.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    target,
			Text:      formatted,
			ParseMode: models.ParseModeMarkdown,
		})
		if err != nil {
			r.log.Error().Err(err).
				Int64("chat_id", target).
				Msg("Failed to send message")
			continue
		}
		r.log.Debug().
			Int64("chat_id", target).
			Int("length", len(formatted)).
			Msg("Relayed message")
	}
}
