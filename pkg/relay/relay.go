// Copyright 2024-2026 Aiku AI

package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

const (
	healthPath  = "/healthz"
	webhookPath = "/telegram/webhook"
)

// Relay receives Telegram webhook updates, runs the message text through
// the MarkdownV2 formatter, and posts the result back via the Telegram
// client. It holds no mutable state beyond in-flight send tracking, so
// redelivered updates deterministically produce identical sends.
type Relay struct {
	cfg *Config
	bot TelegramClient
	log zerolog.Logger

	// wg tracks in-flight background sends so shutdown can drain them.
	wg sync.WaitGroup
}

// New creates a Relay from an immutable config and a Telegram client.
func New(cfg *Config, client TelegramClient, log zerolog.Logger) *Relay {
	return &Relay{
		cfg: cfg,
		bot: client,
		log: log.With().Str("component", "relay").Logger(),
	}
}

// Start registers the webhook with Telegram when base_url is configured,
// then serves HTTP until ctx is cancelled. In-flight sends are drained
// before it returns.
func (r *Relay) Start(ctx context.Context) error {
	if r.cfg.BaseURL != "" {
		if err := r.registerWebhook(ctx); err != nil {
			return fmt.Errorf("failed to register webhook: %w", err)
		}
	}

	server := &http.Server{
		Addr:         r.cfg.ListenAddr,
		Handler:      r.handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Info().Str("addr", r.cfg.ListenAddr).Msg("Starting webhook server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	r.wg.Wait()
	return err
}

// handler builds the HTTP routes served by Start.
func (r *Relay) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(healthPath, r.handleHealth)
	mux.HandleFunc(webhookPath, r.handleWebhook)
	return mux
}

// registerWebhook points Telegram at this service, attaching the secret
// token Telegram will echo back on every delivery.
func (r *Relay) registerWebhook(ctx context.Context) error {
	url := strings.TrimRight(r.cfg.BaseURL, "/") + webhookPath
	ok, err := r.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         url,
		SecretToken: r.cfg.WebhookSecret,
	})
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("telegram rejected setWebhook")
	}
	r.log.Info().Str("url", url).Msg("Registered Telegram webhook")
	return nil
}
