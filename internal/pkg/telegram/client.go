package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thangnm/rentacc/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API. Messages go to the operator chat
// configured via TELEGRAM_CHAT_ID unless an explicit chat id is given.
type Client struct {
	BotToken   string
	APIBaseURL string
	ChatID     string

	HTTPClient *http.Client
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClientFromEnv builds a client from TELEGRAM_* settings.
func NewClientFromEnv() *Client {
	return &Client{
		BotToken:   strings.TrimSpace(env.GetEnv("TELEGRAM_BOT_TOKEN", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("TELEGRAM_API_BASE_URL", defaultAPIBaseURL)),
		ChatID:     strings.TrimSpace(env.GetEnv("TELEGRAM_CHAT_ID", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether chat notifications are switched on and configured.
func Enabled() bool {
	return env.GetEnvBool("IS_PING_TELEGRAM", false)
}

// SendMessage posts an HTML-formatted message to the given chat. An empty
// chatID falls back to the configured operator chat.
func (c *Client) SendMessage(chatID string, html string) error {
	if c.BotToken == "" {
		return fmt.Errorf("telegram bot token is not set")
	}
	if chatID == "" {
		chatID = c.ChatID
	}
	if chatID == "" {
		return fmt.Errorf("telegram chat id is not set")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.APIBaseURL, "/"), c.BotToken)
	form := url.Values{
		"chat_id":    {chatID},
		"text":       {html},
		"parse_mode": {"HTML"},
	}

	resp, err := c.HTTPClient.PostForm(endpoint, form)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram API error: %s", parsed.Description)
	}

	return nil
}
