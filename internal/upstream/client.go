// Package upstream is the HTTP client shared by every tool binding. It owns
// the fixed headers, the request timeout, envelope decoding and failure
// classification.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/ogen-go/ogen/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/metrics"
)

const (
	instrumentationName = "github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	defaultTimeout      = 30 * time.Second
	maxBodySize         = 8 << 20
)

// Endpoint is a static description of one upstream operation.
// Path may contain {name} placeholders filled from Call.Path.
type Endpoint struct {
	Name   string // stable label for logs and metrics, e.g. "hianime.search"
	Method string
	Path   string
}

// Call is one concrete request against an Endpoint.
type Call struct {
	Endpoint Endpoint
	Path     map[string]string
	Query    url.Values
	Body     map[string]any // sent as JSON when non-nil
	Header   http.Header
}

// Response is a decoded upstream reply. Success, Count and Page are set only
// when the body is an object carrying those fields.
type Response struct {
	StatusCode int
	Success    *bool
	Count      *int
	Page       *int
	Message    string
	Data       jx.Raw
	Body       []byte
}

// Payload returns the data field when present, otherwise the whole body.
func (r *Response) Payload() []byte {
	if r == nil {
		return nil
	}
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Body
}

// Doer performs upstream calls. *Client implements it.
type Doer interface {
	Do(ctx context.Context, call Call) (*Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues requests to one upstream base URL.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	tracer    trace.Tracer
	latency   metric.Float64Histogram
}

// NewClient creates a Client. The client holds no per-call state and is safe
// for concurrent use.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	latency, err := otel.Meter(instrumentationName).Float64Histogram(
		"anime_mcp.upstream.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of upstream API calls"),
	)
	if err != nil {
		log.Printf("[upstream] failed to create latency histogram: %v", err)
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		timeout:   timeout,
		http:      httpClient,
		tracer:    otel.Tracer(instrumentationName),
		latency:   latency,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs call and decodes the response envelope. Every failure is
// returned as *Error.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	ep := call.Endpoint
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "upstream "+ep.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.endpoint", ep.Name),
			attribute.String("http.request.method", ep.Method),
		),
	)
	defer span.End()

	resp, err := c.do(ctx, call)

	result := "ok"
	if err != nil {
		result = KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	} else {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	if c.latency != nil {
		c.latency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("endpoint", ep.Name),
			attribute.String("result", result),
		))
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(ep.Name, result).Inc()

	return resp, err
}

func (c *Client) do(ctx context.Context, call Call) (*Response, error) {
	ep := call.Endpoint

	path, err := expandPath(ep.Path, call.Path)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: ep.Name, Err: err}
	}
	rawURL := c.baseURL + path
	if len(call.Query) > 0 {
		rawURL += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(EncodeBody(call.Body))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: ep.Name, Err: errors.Wrap(err, "create request")}
	}
	for k, vals := range call.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		uErr := classify(ep.Name, err)
		if uErr.Kind == KindTimeout {
			log.Printf("[upstream] request timeout for %s", ep.Name)
		} else {
			log.Printf("[upstream] request failed for %s: %v", ep.Name, err)
		}
		return nil, uErr
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		uErr := classify(ep.Name, errors.Wrap(err, "read body"))
		log.Printf("[upstream] reading response failed for %s: %v", ep.Name, err)
		return nil, uErr
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		log.Printf("[upstream] HTTP error %d for %s", httpResp.StatusCode, ep.Name)
		return nil, statusError(ep.Name, httpResp.StatusCode, peekMessage(raw))
	}

	if !jx.Valid(raw) {
		var cause error = errors.New("response body is not valid JSON")
		if ct := httpResp.Header.Get("Content-Type"); !isJSON(ct) {
			cause = validate.InvalidContentType(ct)
		}
		log.Printf("[upstream] invalid response for %s: %v", ep.Name, cause)
		return nil, &Error{Kind: KindTransport, Endpoint: ep.Name, Err: cause}
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Body: raw}
	if err := decodeEnvelope(raw, resp); err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: ep.Name, Err: errors.Wrap(err, "decode envelope")}
	}
	if resp.Success != nil && !*resp.Success {
		log.Printf("[upstream] %s returned success=false", ep.Name)
		return nil, &Error{Kind: KindTransport, Endpoint: ep.Name, Message: resp.Message, Err: ErrFailureBody}
	}
	return resp, nil
}

// expandPath fills {name} placeholders with path-escaped values.
func expandPath(tmpl string, params map[string]string) (string, error) {
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String(), nil
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			return "", errors.Errorf("unterminated placeholder in %q", tmpl)
		}
		name := tmpl[i+1 : i+j]
		v := params[name]
		if v == "" {
			return "", errors.Errorf("missing path parameter %q", name)
		}
		b.WriteString(tmpl[:i])
		b.WriteString(url.PathEscape(v))
		tmpl = tmpl[i+j+1:]
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// EncodeBody encodes a flat JSON object with keys in sorted order.
func EncodeBody(body map[string]any) []byte {
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		for _, k := range keys {
			v := body[k]
			e.Field(k, func(e *jx.Encoder) { encodeValue(e, v) })
		}
	})
	return e.Bytes()
}

func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case nil:
		e.Null()
	case string:
		e.Str(v)
	case bool:
		e.Bool(v)
	case int:
		e.Int(v)
	case int64:
		e.Int64(v)
	case float64:
		e.Float64(v)
	default:
		e.Str(fmt.Sprint(v))
	}
}
