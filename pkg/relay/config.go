// Copyright 2024-2026 Aiku AI

package relay

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

const defaultListenAddr = ":8080"

// Config holds the relay configuration. Values come from an optional
// YAML file with environment variables taking precedence; it is loaded
// once at startup and never mutated afterwards.
type Config struct {
	// BotToken is the Telegram bot token. Env: BOT_TOKEN.
	BotToken string `yaml:"bot_token"`
	// WebhookSecret is the value Telegram echoes back in the
	// X-Telegram-Bot-Api-Secret-Token header on every webhook delivery.
	// Env: WEBHOOK_SECRET.
	WebhookSecret string `yaml:"webhook_secret"`
	// ListenAddr is the HTTP listen address. Env: LISTEN_ADDR.
	ListenAddr string `yaml:"listen_addr"`
	// BaseURL is the public base URL of this service. When set, the
	// relay registers <base_url>/telegram/webhook with Telegram at
	// startup. Env: BASE_URL.
	BaseURL string `yaml:"base_url"`
	// LogChatID is a fixed chat that receives a copy of every relayed
	// message. Zero disables the copy. Env: LOG_CHAT_ID.
	LogChatID int64 `yaml:"log_chat_id"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

// Load reads the YAML config at path if it exists (a missing file means
// an env-only deployment), applies environment overrides, and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := &Config{ListenAddr: defaultListenAddr}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Env-only deployment.
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.WebhookSecret = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("LOG_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.LogChatID = id
		}
	}
}

// Validate enforces the required fields. The bot token and webhook
// secret have no usable defaults.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("bot_token (env BOT_TOKEN) is required")
	}
	if c.WebhookSecret == "" {
		return errors.New("webhook_secret (env WEBHOOK_SECRET) is required")
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	return nil
}
