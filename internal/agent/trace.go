package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"menuforge/internal/config"
)

type traceEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp string         `json:"timestamp"`
	Body      map[string]any `json:"body"`
}

// TraceClient batches observability events and ships them fire-and-forget.
// Ingestion failures are printed, never returned: tracing must not break a
// conversation.
type TraceClient struct {
	cfg        config.Config
	httpClient *http.Client

	mu     sync.Mutex
	buffer []traceEvent
	serial int
}

func NewTraceClient(cfg config.Config) *TraceClient {
	return &TraceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TraceTimeoutMs) * time.Millisecond},
	}
}

// Record queues one event; the batch is shipped once it reaches the
// configured size. Call Flush before process exit to drain the rest.
func (c *TraceClient) Record(eventType string, body map[string]any) {
	if !c.cfg.TraceEnabled {
		return
	}

	c.mu.Lock()
	c.serial++
	c.buffer = append(c.buffer, traceEvent{
		ID:        fmt.Sprintf("evt-%d-%d", time.Now().UnixNano(), c.serial),
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Body:      body,
	})
	full := len(c.buffer) >= c.cfg.TraceBatchMax
	c.mu.Unlock()

	if full {
		c.Flush()
	}
}

func (c *TraceClient) Flush() {
	c.mu.Lock()
	batch := c.buffer
	c.buffer = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if strings.TrimSpace(c.cfg.PromptStorePublicKey) == "" || strings.TrimSpace(c.cfg.PromptStoreSecretKey) == "" {
		return
	}

	payload, err := json.Marshal(map[string]any{"batch": batch})
	if err != nil {
		fmt.Printf("trace flush skipped: %v\n", err)
		return
	}

	endpoint := strings.TrimRight(c.cfg.PromptStoreBaseURL, "/") + "/api/public/ingestion"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("trace flush skipped: %v\n", err)
		return
	}
	req.SetBasicAuth(c.cfg.PromptStorePublicKey, c.cfg.PromptStoreSecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fmt.Printf("trace flush failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("trace flush failed: status=%d\n", resp.StatusCode)
	}
}
