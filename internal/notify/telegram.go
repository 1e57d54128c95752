// Package notify delivers booking outcome messages to members over
// Telegram. Delivery is best-effort: the caller logs and swallows
// failures, so nothing here retries.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notifier sends a text message to a member identified by their
// Telegram chat id.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// TelegramNotifier sends messages through the Bot API sendMessage
// endpoint.
type TelegramNotifier struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewTelegramNotifier builds a notifier for the given bot token.
// baseURL overrides the Bot API host for tests; pass "" for the real
// API.
func NewTelegramNotifier(token, baseURL string, timeout time.Duration) *TelegramNotifier {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Notify posts a sendMessage request. A non-2xx response or transport
// error is returned to the caller.
func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the log line, then discard.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode, b)
	}
	return nil
}
