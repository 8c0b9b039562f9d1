package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/jsonrpc"
)

// echo answers every method with its own name; "fail" yields an RPC error.
type echo struct{}

func (echo) ProcessRequest(_ context.Context, req *jsonrpc.Request) (any, *jsonrpc.Error) {
	if req.Method == "fail" {
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	}
	return map[string]string{"method": req.Method}, nil
}

func TestRequestID(t *testing.T) {
	valid := uuid.NewString()
	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{"none", "", false},
		{"valid uuid reused", valid, true},
		{"garbage replaced", "not-an-id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			if tt.reuse {
				assert.Equal(t, tt.inbound, seen)
			} else {
				assert.NotEqual(t, tt.inbound, seen)
			}
		})
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "fixed")
	assert.Equal(t, "fixed", GetRequestID(EnsureRequestID(ctx)))
	assert.NotEmpty(t, GetRequestID(EnsureRequestID(context.Background())))
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/mcp", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp jsonrpc.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.InternalError, resp.Error.Code)
}

func TestAccessLog_CountsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(AccessLog)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `anime_mcp_http_requests_total{method="GET",path="/items/{id}",status="418"} 1`)
}

func TestTransport_Inline(t *testing.T) {
	srv := httptest.NewServer(Transport("/v1/mcp", echo{}))
	defer srv.Close()

	tests := []struct {
		name     string
		body     string
		wantCode int
		want     string
	}{
		{"result", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, 0, "ping"},
		{"rpc error", `{"jsonrpc":"2.0","id":2,"method":"fail"}`, jsonrpc.MethodNotFound, ""},
		{"parse error", `{"jsonrpc":`, jsonrpc.ParseError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/mcp", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			var out struct {
				Result map[string]string `json:"result"`
				Error  *jsonrpc.Error    `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			if tt.wantCode != 0 {
				require.NotNil(t, out.Error)
				assert.Equal(t, tt.wantCode, out.Error.Code)
				return
			}
			assert.Nil(t, out.Error)
			assert.Equal(t, tt.want, out.Result["method"])
		})
	}
}

func TestTransport_Rejects(t *testing.T) {
	h := Transport("/v1/mcp", echo{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/mcp?sessionId=missing", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransport_SSE(t *testing.T) {
	srv := httptest.NewServer(Transport("/v1/mcp", echo{}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/mcp", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	events := bufio.NewReader(stream.Body)
	next := func() (event, data string) {
		for {
			line, err := events.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
	}

	event, endpoint := next()
	require.Equal(t, "endpoint", event)
	require.True(t, strings.HasPrefix(endpoint, "/v1/mcp?sessionId="))

	resp, err := http.Post(srv.URL+endpoint, "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":9,"method":"tools/list"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	event, data := next()
	assert.Equal(t, "message", event)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":9,"result":{"method":"tools/list"}}`, data)
}
