// Copyright 2024-2026 Aiku AI

// Command telegram-relay receives Telegram webhook updates, converts a
// small Markdown dialect in the message text to MarkdownV2, and posts
// the formatted result back to the originating chat and to a fixed log
// chat.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"go.mau.fi/util/exerrors"
	"go.mau.fi/util/exzerolog"

	"github.com/aiku/telegram-relay/pkg/relay"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	exzerolog.SetupDefaults(&log)

	cfg := exerrors.Must(relay.Load(configPath()))
	client := exerrors.Must(bot.New(cfg.BotToken, bot.WithSkipGetMe()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("tag", Tag).
		Str("commit", Commit).
		Str("build_time", BuildTime).
		Msg("Starting telegram-relay")

	if err := relay.New(cfg, client, log).Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Relay exited with error")
	}
	log.Info().Msg("Shutdown complete")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}
