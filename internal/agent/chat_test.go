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

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testChatConfig() config.Config {
	cfg, _ := config.Load()
	cfg.ChatAPIKey = "test"
	cfg.ChatAPIBaseURL = "https://example.test"
	cfg.ChatRateLimitRPS = 1000
	cfg.ChatMaxRetries = 3
	return cfg
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	attempt := 0

	client := NewChatClient(testChatConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test" {
				t.Fatalf("auth header %q", got)
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(strings.NewReader(`{"error":"slow down"}`)),
					Header:     make(http.Header),
				}, nil
			}

			payload := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"role": "assistant", "content": "hello there"}},
				},
			}
			blob, _ := json.Marshal(payload)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	reply, err := client.Complete(context.Background(), "mistral-small-latest", 0.7, []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Content != "hello there" {
		t.Fatalf("content=%q", reply.Content)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
}

func TestCompleteFailsFastOnClientError(t *testing.T) {
	attempt := 0

	client := NewChatClient(testChatConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempt++
			return &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(strings.NewReader(`{"error":"bad request"}`)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	_, err := client.Complete(context.Background(), "mistral-small-latest", 0.7, []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempt != 1 {
		t.Fatalf("attempts=%d", attempt)
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	cfg := testChatConfig()
	cfg.ChatAPIKey = ""
	client := NewChatClient(cfg)

	_, err := client.Complete(context.Background(), "mistral-small-latest", 0.7, []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "CHAT_API_KEY") {
		t.Fatalf("err=%v", err)
	}
}
