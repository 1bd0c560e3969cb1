package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"menuforge/internal/config"
)

func testPromptConfig() config.Config {
	cfg, _ := config.Load()
	cfg.PromptStoreBaseURL = "https://prompts.example.test"
	cfg.PromptStorePublicKey = "pk-test"
	cfg.PromptStoreSecretKey = "sk-test"
	return cfg
}

func TestPromptCompileSubstitutesVariables(t *testing.T) {
	prompt := Prompt{
		Name: "interview/initiator",
		Messages: []PromptMessage{
			{Role: RoleSystem, Content: "You are {{persona_name}}, {{persona_description}}. Address {{other_persona}} directly."},
		},
	}

	messages := prompt.Compile(map[string]string{
		"persona_name":        "Reporter",
		"persona_description": "a journalist",
		"other_persona":       "Politician",
	})
	if len(messages) != 1 {
		t.Fatalf("len=%d", len(messages))
	}
	want := "You are Reporter, a journalist. Address Politician directly."
	if messages[0].Content != want {
		t.Fatalf("content=%q", messages[0].Content)
	}
	if messages[0].Role != RoleSystem {
		t.Fatalf("role=%q", messages[0].Role)
	}
}

func TestPromptModelConfigFallbacks(t *testing.T) {
	prompt := Prompt{Config: map[string]any{"model": "mistral-large-latest", "temperature": 0.9}}
	model, temperature := prompt.ModelConfig("mistral-small-latest", 0.7)
	if model != "mistral-large-latest" || temperature != 0.9 {
		t.Fatalf("model=%q temperature=%v", model, temperature)
	}

	empty := Prompt{}
	model, temperature = empty.ModelConfig("mistral-small-latest", 0.7)
	if model != "mistral-small-latest" || temperature != 0.7 {
		t.Fatalf("model=%q temperature=%v", model, temperature)
	}
}

func TestGetPromptParsesStoreResponse(t *testing.T) {
	client := NewPromptClient(testPromptConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/api/public/v2/prompts/interview%2Finitiator" && r.URL.Path != "/api/public/v2/prompts/interview/initiator" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			user, pass, ok := r.BasicAuth()
			if !ok || user != "pk-test" || pass != "sk-test" {
				t.Fatalf("basic auth %q %q %v", user, pass, ok)
			}
			payload := map[string]any{
				"name":    "interview/initiator",
				"version": 3,
				"type":    "chat",
				"prompt":  []map[string]any{{"role": "system", "content": "You are {{persona_name}}."}},
				"config":  map[string]any{"model": "mistral-small-latest", "temperature": 0.9},
				"labels":  []string{"production"},
			}
			blob, _ := json.Marshal(payload)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	prompt, err := client.GetPrompt(context.Background(), "interview/initiator")
	if err != nil {
		t.Fatal(err)
	}
	if prompt.Version != 3 {
		t.Fatalf("version=%d", prompt.Version)
	}
	if len(prompt.Messages) != 1 || prompt.Messages[0].Role != RoleSystem {
		t.Fatalf("messages=%v", prompt.Messages)
	}
}

func TestSeedInterviewPromptsCreatesBoth(t *testing.T) {
	var created []string

	client := NewPromptClient(testPromptConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/public/v2/prompts" {
				t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var payload struct {
				Name   string          `json:"name"`
				Prompt []PromptMessage `json:"prompt"`
				Config map[string]any  `json:"config"`
				Labels []string        `json:"labels"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatal(err)
			}
			created = append(created, payload.Name)
			if len(payload.Labels) != 1 || payload.Labels[0] != "production" {
				t.Fatalf("labels=%v", payload.Labels)
			}
			if payload.Config["temperature"] != 0.9 {
				t.Fatalf("temperature=%v", payload.Config["temperature"])
			}
			if len(payload.Prompt) != 1 || !strings.Contains(payload.Prompt[0].Content, "{{persona_name}}") {
				t.Fatalf("prompt=%v", payload.Prompt)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{}`)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if err := client.SeedInterviewPrompts(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 || created[0] != InitiatorPromptName || created[1] != ResponderPromptName {
		t.Fatalf("created=%v", created)
	}
}

func TestPromptClientRequiresCredentials(t *testing.T) {
	cfg := testPromptConfig()
	cfg.PromptStoreSecretKey = ""
	client := NewPromptClient(cfg)

	_, err := client.GetPrompt(context.Background(), "interview/initiator")
	if err == nil || !strings.Contains(err.Error(), "PROMPT_STORE") {
		t.Fatalf("err=%v", err)
	}
}
