// Copyright 2024-2026 Aiku AI

// Package relay implements a single-purpose Telegram relay: it receives
// Bot API updates over an inbound webhook, converts the message text
// from a small Markdown dialect to MarkdownV2, and posts the result back
// to the originating chat and to a fixed logging chat.
//
// # Core Types
//
// [Config] is the immutable process-wide configuration, loaded once at
// startup from an optional YAML file with environment overrides.
//
// [Relay] owns the webhook HTTP server and the send fan-out. It verifies
// the secret token Telegram attaches to each delivery, acknowledges
// updates immediately, and performs the outbound sends in the
// background. A rejected send is a delivery error: it is logged, never
// retried with alternate formatting.
//
// [TelegramClient] is the slice of the Bot API client the relay needs;
// tests substitute a mock for it.
//
// # Sub-packages
//
//   - markdownv2 converts the inbound Markdown dialect to Telegram
//     MarkdownV2 with strict-mode escaping.
package relay
