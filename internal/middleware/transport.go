package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/jsonrpc"
)

const maxMessageSize = 1 << 20

// RequestProcessor processes JSON-RPC requests.
// Implemented by the MCP handler.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *jsonrpc.Request) (any, *jsonrpc.Error)
}

// session represents an SSE connection session.
type session struct {
	id       string
	messages chan []byte
}

// transport manages SSE/Inline transport for MCP.
type transport struct {
	processor RequestProcessor
	endpoint  string
	sessions  map[string]*session
	mu        sync.RWMutex
}

// Transport creates an http.Handler that serves MCP over SSE and inline
// JSON-RPC at endpoint. GET opens an SSE stream; POST with ?sessionId=
// answers on that stream; POST without it answers in the response body.
func Transport(endpoint string, processor RequestProcessor) http.Handler {
	return &transport{
		processor: processor,
		endpoint:  endpoint,
		sessions:  make(map[string]*session),
	}
}

func (t *transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		t.handleSSE(w, r)
	case http.MethodPost:
		t.handleMessage(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (t *transport) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	s := &session{
		id:       uuid.NewString(),
		messages: make(chan []byte, 100),
	}

	t.mu.Lock()
	t.sessions[s.id] = s
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.sessions, s.id)
		t.mu.Unlock()
	}()

	// endpoint event per the MCP SSE protocol
	fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionId=%s\n\n", t.endpoint, s.id)
	flusher.Flush()
	log.Printf("[transport] SSE connection established, session=%s", s.id)

	for {
		select {
		case msg := <-s.messages:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-r.Context().Done():
			log.Printf("[transport] SSE connection closed, session=%s", s.id)
			return
		}
	}
}

func (t *transport) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		t.handleInlineMessage(w, r)
		return
	}

	t.mu.RLock()
	s, ok := t.sessions[sessionID]
	t.mu.RUnlock()

	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	req, err := readRequest(w, r)
	if err != nil {
		t.send(s, jsonrpc.Response{JSONRPC: "2.0", Error: &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"}})
		w.WriteHeader(http.StatusAccepted)
		return
	}

	log.Printf("[transport] request method=%s id=%v session=%s", req.Method, req.ID, sessionID)

	result, rpcErr := t.processor.ProcessRequest(r.Context(), req)
	if rpcErr != nil {
		t.send(s, jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr})
	} else if req.ID != nil {
		t.send(s, jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Result: result})
	}

	w.WriteHeader(http.StatusAccepted)
}

func (t *transport) handleInlineMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req, err := readRequest(w, r)
	if err != nil {
		json.NewEncoder(w).Encode(jsonrpc.Response{JSONRPC: "2.0", Error: &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"}})
		return
	}

	log.Printf("[transport] inline request method=%s id=%v", req.Method, req.ID)

	result, rpcErr := t.processor.ProcessRequest(r.Context(), req)

	resp := jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Result: result}
	if rpcErr != nil {
		resp = jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	json.NewEncoder(w).Encode(resp)
}

func readRequest(w http.ResponseWriter, r *http.Request) (*jsonrpc.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		return nil, err
	}
	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (t *transport) send(s *session, resp jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[transport] failed to encode response: %v", err)
		return
	}
	select {
	case s.messages <- data:
	default:
		log.Printf("[transport] session %s message buffer full", s.id)
	}
}
