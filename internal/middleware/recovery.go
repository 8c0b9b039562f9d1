package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/jsonrpc"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
)

// Recovery turns a panic below it into a JSON-RPC internal error with
// status 500, so MCP clients still get a well-formed reply.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			log.Printf("[http] PANIC recovered: %v\n%s", p, debug.Stack())
			observability.LogPanic(GetRequestID(r.Context()), r.Method+" "+r.URL.Path, p)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(jsonrpc.Response{
				JSONRPC: "2.0",
				Error:   &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "Internal error"},
			})
		}()
		next.ServeHTTP(w, r)
	})
}
