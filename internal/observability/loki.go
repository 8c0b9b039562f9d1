package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// LokiConfig holds the Grafana Loki push settings. Pushing is disabled when
// any of URL, User or APIKey is empty.
type LokiConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	APIKey   string `yaml:"api_key"`
	App      string `yaml:"app"`
	Instance string `yaml:"instance"`
	Region   string `yaml:"region"`
}

// Enabled reports whether every credential is present.
func (c LokiConfig) Enabled() bool {
	return c.URL != "" && c.User != "" && c.APIKey != ""
}

type LokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	labels     map[string]string
	pending    sync.WaitGroup
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var defaultClient *LokiClient

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Init configures the process-wide Loki client. It is called once from main
// before any tool runs.
func Init(cfg LokiConfig) {
	labels := map[string]string{
		"app":      firstNonEmpty(cfg.App, "anime-mcp-dev"),
		"instance": firstNonEmpty(cfg.Instance, "local"),
		"region":   firstNonEmpty(cfg.Region, "local"),
	}

	if !cfg.Enabled() {
		log.Println("[observability] Loki not configured, push disabled")
		defaultClient = &LokiClient{enabled: false, labels: labels}
		return
	}

	defaultClient = &LokiClient{
		url:        cfg.URL + "/loki/api/v1/push",
		username:   cfg.User,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
		labels:     labels,
	}
	log.Println("[observability] Loki client initialized")
}

// Push sends one event asynchronously. data is redacted before encoding.
func Push(labels map[string]string, data map[string]any) {
	c := defaultClient
	if c == nil || !c.enabled {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.push(labels, Redact(data))
	}()
}

// Flush waits for in-flight pushes or until ctx is done.
func Flush(ctx context.Context) {
	c := defaultClient
	if c == nil || !c.enabled {
		return
	}
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("[observability] flush abandoned: %v", ctx.Err())
	}
}

func (c *LokiClient) push(labels map[string]string, data map[string]any) {
	stream := make(map[string]string, len(labels)+len(c.labels))
	for k, v := range labels {
		stream[k] = v
	}
	for k, v := range c.labels {
		stream[k] = v
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("[observability] Loki: failed to marshal data: %v", err)
		return
	}

	req := lokiPushRequest{
		Streams: []lokiStream{{
			Stream: stream,
			Values: [][]string{{strconv.FormatInt(time.Now().UnixNano(), 10), string(dataJSON)}},
		}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("[observability] Loki: failed to marshal request: %v", err)
		return
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("[observability] Loki: failed to create request: %v", err)
		return
	}
	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[observability] Loki: failed to send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[observability] Loki: unexpected status code: %d", resp.StatusCode)
	}
}

// LogToolCall records one finished tool call. args are the caller's
// arguments; secrets among them are masked by Push.
func LogToolCall(requestID, module, tool string, durationMs int64, status, errMsg string, args map[string]any) {
	level := "info"
	if status != "success" {
		level = "warn"
	}
	if status == "error" {
		level = "error"
	}
	labels := map[string]string{
		"type":   "tool_call",
		"module": module,
		"status": status,
		"level":  level,
	}

	data := map[string]any{
		"request_id":  requestID,
		"module":      module,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}
	if len(args) > 0 {
		data["args"] = args
	}
	if errMsg != "" {
		data["error"] = errMsg
	}

	Push(labels, data)
}

// LogUpstreamFailure records a classified upstream failure. message is the
// upstream's own error text, which callers never see.
func LogUpstreamFailure(requestID, tool, endpoint, kind string, statusCode int, message string) {
	labels := map[string]string{
		"type":  "upstream",
		"kind":  kind,
		"level": "warn",
	}

	data := map[string]any{
		"request_id": requestID,
		"tool":       tool,
		"endpoint":   endpoint,
		"kind":       kind,
	}
	if statusCode != 0 {
		data["status_code"] = statusCode
	}
	if message != "" {
		data["message"] = message
	}

	Push(labels, data)
}

// LogRequest logs an incoming HTTP request to Loki
func LogRequest(method, path string, statusCode int, durationMs int64) {
	labels := map[string]string{
		"type":   "request",
		"method": method,
		"level":  "info",
	}

	data := map[string]any{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	Push(labels, data)
}

// LogPanic records a recovered panic.
func LogPanic(requestID, where string, recovered any) {
	labels := map[string]string{
		"type":  "panic",
		"level": "error",
	}

	data := map[string]any{
		"request_id": requestID,
		"where":      where,
		"error":      RedactString(toString(recovered)),
	}

	Push(labels, data)
}
