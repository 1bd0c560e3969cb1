package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"menuforge/internal/config"
)

// Message is one turn in an ordered chat transcript. Name carries the
// speaker display name for multi-bot conversations; the wire format omits
// it when empty.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatClient calls a hosted chat-completion endpoint: ordered message list
// plus model name and temperature in, one assistant message out.
type ChatClient struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewChatClient(cfg config.Config) *ChatClient {
	return &ChatClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ChatTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.ChatRateLimitRPS),
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) Complete(ctx context.Context, model string, temperature float64, messages []Message) (Message, error) {
	if strings.TrimSpace(c.cfg.ChatAPIKey) == "" {
		return Message{}, errors.New("missing CHAT_API_KEY")
	}
	if len(messages) == 0 {
		return Message{}, errors.New("empty message list")
	}

	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages, Temperature: temperature})
	if err != nil {
		return Message{}, err
	}
	endpoint := strings.TrimRight(c.cfg.ChatAPIBaseURL, "/") + "/v1/chat/completions"

	maxAttempts := c.cfg.ChatMaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return Message{}, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.ChatAPIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("chat api status %d", resp.StatusCode)
				continue
			}
			return Message{}, fmt.Errorf("chat api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return Message{}, err
		}
		if len(parsed.Choices) == 0 {
			return Message{}, errors.New("chat api returned no choices")
		}
		return parsed.Choices[0].Message, nil
	}

	if lastErr == nil {
		lastErr = errors.New("chat request failed")
	}
	return Message{}, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
