package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menuforge/internal/config"
)

type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a versioned chat-message template plus a model config map, as
// served by the prompt store.
type Prompt struct {
	Name     string          `json:"name"`
	Version  int             `json:"version"`
	Type     string          `json:"type"`
	Messages []PromptMessage `json:"prompt"`
	Config   map[string]any  `json:"config"`
	Labels   []string        `json:"labels"`
}

// Compile substitutes {{variable}} placeholders and returns wire-ready
// messages.
func (p Prompt) Compile(vars map[string]string) []Message {
	out := make([]Message, 0, len(p.Messages))
	for _, tmpl := range p.Messages {
		content := tmpl.Content
		for key, value := range vars {
			content = strings.ReplaceAll(content, "{{"+key+"}}", value)
		}
		out = append(out, Message{Role: tmpl.Role, Content: content})
	}
	return out
}

// ModelConfig reads model name and temperature out of the prompt config,
// falling back to the given defaults.
func (p Prompt) ModelConfig(fallbackModel string, fallbackTemperature float64) (string, float64) {
	model := fallbackModel
	temperature := fallbackTemperature
	if v, ok := p.Config["model"].(string); ok && strings.TrimSpace(v) != "" {
		model = v
	}
	if v, ok := p.Config["temperature"].(float64); ok {
		temperature = v
	}
	return model, temperature
}

// PromptClient talks to the prompt store: fetch a named template, or create
// a new version of one.
type PromptClient struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewPromptClient(cfg config.Config) *PromptClient {
	return &PromptClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ChatTimeoutMs) * time.Millisecond},
	}
}

func (c *PromptClient) GetPrompt(ctx context.Context, name string) (Prompt, error) {
	endpoint := strings.TrimRight(c.cfg.PromptStoreBaseURL, "/") + "/api/public/v2/prompts/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Prompt{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return Prompt{}, err
	}

	var prompt Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		return Prompt{}, err
	}
	if len(prompt.Messages) == 0 {
		return Prompt{}, fmt.Errorf("prompt %q has no messages", name)
	}
	return prompt, nil
}

func (c *PromptClient) CreatePrompt(ctx context.Context, name string, messages []PromptMessage, promptConfig map[string]any, labels []string) error {
	payload, err := json.Marshal(map[string]any{
		"name":   name,
		"type":   "chat",
		"prompt": messages,
		"config": promptConfig,
		"labels": labels,
	})
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(c.cfg.PromptStoreBaseURL, "/") + "/api/public/v2/prompts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req)
	return err
}

func (c *PromptClient) do(req *http.Request) ([]byte, error) {
	if strings.TrimSpace(c.cfg.PromptStorePublicKey) == "" || strings.TrimSpace(c.cfg.PromptStoreSecretKey) == "" {
		return nil, errors.New("missing PROMPT_STORE_PUBLIC_KEY / PROMPT_STORE_SECRET_KEY")
	}
	req.SetBasicAuth(c.cfg.PromptStorePublicKey, c.cfg.PromptStoreSecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("prompt store error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return body, nil
}

const interviewPromptTemplate = "You are {{persona_name}}, {{persona_description}}. " +
	"{{persona_behavior}} " +
	"Keep responses to 2-3 sentences. Do not break character. " +
	"Address {{other_persona}} directly."

const (
	InitiatorPromptName = "interview/initiator"
	ResponderPromptName = "interview/responder"
)

// SeedInterviewPrompts creates the two interview prompts with the
// production label. Re-running creates a new version of each.
func (c *PromptClient) SeedInterviewPrompts(ctx context.Context) error {
	promptConfig := map[string]any{"model": c.cfg.ChatModel, "temperature": 0.9}
	for _, name := range []string{InitiatorPromptName, ResponderPromptName} {
		messages := []PromptMessage{{Role: RoleSystem, Content: interviewPromptTemplate}}
		if err := c.CreatePrompt(ctx, name, messages, promptConfig, []string{"production"}); err != nil {
			return err
		}
	}
	return nil
}
