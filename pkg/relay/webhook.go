// Copyright 2024-2026 Aiku AI

package relay

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-telegram/bot/models"
)

// secretTokenHeader is the header Telegram echoes the configured secret
// token in on every webhook delivery.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateBodySize is the maximum allowed webhook request body (1 MB).
const maxUpdateBodySize = 1 << 20

func (r *Relay) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		r.log.Warn().Err(err).Msg("Failed to write health response")
	}
}

// handleWebhook is the HTTP handler for POST /telegram/webhook. It
// verifies the secret token, extracts the message text and chat ID from
// the update, and acknowledges immediately; formatting and sending run
// in the background so Telegram never waits on the outbound API.
func (r *Relay) handleWebhook(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	secret := req.Header.Get(secretTokenHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(r.cfg.WebhookSecret)) != 1 {
		r.log.Warn().Str("remote_addr", req.RemoteAddr).Msg("Webhook secret mismatch")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUpdateBodySize)
	defer req.Body.Close()
	var update models.Update
	if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	text := extractText(&update)
	chatID := extractChatID(&update)
	if text != "" && chatID != 0 {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.forward(context.WithoutCancel(req.Context()), chatID, text)
		}()
	} else {
		r.log.Debug().Int64("update_id", update.ID).Msg("Ignoring update without text or chat")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"ok": true}); err != nil {
		r.log.Warn().Err(err).Msg("Failed to write webhook response")
	}
}

// candidateMessages lists the update fields that can carry a relayable
// message. Telegram sets at most one of them per update.
func candidateMessages(update *models.Update) []*models.Message {
	return []*models.Message{
		update.Message,
		update.EditedMessage,
		update.ChannelPost,
		update.EditedChannelPost,
	}
}

// extractText returns the text of the first message-bearing field of the
// update, falling back to the media caption.
func extractText(update *models.Update) string {
	for _, msg := range candidateMessages(update) {
		if msg == nil {
			continue
		}
		if msg.Text != "" {
			return msg.Text
		}
		if msg.Caption != "" {
			return msg.Caption
		}
	}
	return ""
}

// extractChatID returns the chat ID of the first message-bearing field
// of the update, or zero when the update carries none.
func extractChatID(update *models.Update) int64 {
	for _, msg := range candidateMessages(update) {
		if msg == nil {
			continue
		}
		if msg.Chat.ID != 0 {
			return msg.Chat.ID
		}
	}
	return 0
}
