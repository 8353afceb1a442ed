package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier pushes verification outcomes to downstream systems. Delivery is
// best effort: the engine logs failures and never fails a request over them.
type Notifier interface {
	Push(ctx context.Context, userID string, verified bool, token string) error
}

type statusPayload struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Verified bool   `json:"verified"`
}

// BotNotifier delivers outcomes to the Discord bot's verify-status endpoint.
type BotNotifier struct {
	endpoint string
	client   *http.Client
}

// NewBotNotifier constructs a webhook notifier with a bounded request timeout.
func NewBotNotifier(endpoint string, timeout time.Duration) *BotNotifier {
	return &BotNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Push posts the outcome to the bot endpoint. Non-2xx responses are reported
// as errors so the caller can log the gap; there is no retry queue.
func (n *BotNotifier) Push(ctx context.Context, userID string, verified bool, token string) error {
	payload, err := json.Marshal(statusPayload{Token: token, UserID: userID, Verified: verified})
	if err != nil {
		return fmt.Errorf("encode bot payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build bot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("push to bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bot endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// LoggerNotifier is a stub implementation that writes outcomes to the logger.
// Used when no bot webhook is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Push writes the outcome to the structured logger.
func (n *LoggerNotifier) Push(_ context.Context, userID string, verified bool, token string) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("verification outcome", "user_id", userID, "verified", verified, "token", token)
	return nil
}
