package modules

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/middleware"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
)

// Dispatch runs one call through b:
// validating, then requesting, then normalizing and rendering.
// Every failure is rendered into the outcome text; Dispatch never panics on
// bad input and never returns an upstream error to the caller.
func Dispatch(ctx context.Context, b Binding, raw map[string]any) Outcome {
	args, err := b.bind(raw)
	if err != nil {
		return Outcome{Text: err.Error(), Status: StatusInvalid}
	}
	if len(b.Requests) == 0 {
		return b.Present(args, nil)
	}

	results := b.fetch(ctx, args)
	if !b.Partial {
		for _, r := range results {
			if r.Err != nil {
				return Outcome{Text: b.Failure(args), Status: StatusUnavailable}
			}
		}
	}
	out := b.Present(args, results)
	if out.Status == StatusUnavailable && !b.Partial && b.Failure != nil {
		log.Printf("[dispatch] %s: upstream reply is missing required fields", b.Name)
		out.Text = b.Failure(args)
	}
	return out
}

// bind checks raw against the schema and applies each Param's rule. Blank
// optional arguments are treated as absent.
func (b Binding) bind(raw map[string]any) (Args, error) {
	params := b.params()
	raw, err := ValidateParams(b.schema(), raw)
	if err != nil {
		return nil, err
	}

	args := make(Args, len(params))
	var missing []string
	for _, p := range params {
		v, ok := raw[p.Arg]
		if !ok || isBlank(v) {
			if p.Default != nil {
				args[p.Arg] = p.Default
			}
			continue
		}
		if p.Rule != nil {
			if v, err = p.Rule(v); err != nil {
				return nil, err
			}
		}
		if p.Required && isBlank(v) {
			missing = append(missing, p.Arg)
			continue
		}
		args[p.Arg] = v
	}
	if len(missing) > 0 {
		return nil, missingError(missing)
	}
	return args, nil
}

// fetch performs every request. More than one request runs concurrently,
// each writing only its own result slot.
func (b Binding) fetch(ctx context.Context, args Args) []Result {
	results := make([]Result, len(b.Requests))
	if len(b.Requests) == 1 {
		results[0] = b.Requests[0].do(ctx, b.Name, args)
		return results
	}

	var g errgroup.Group
	for i, req := range b.Requests {
		g.Go(func() error {
			results[i] = req.do(ctx, b.Name, args)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r Request) do(ctx context.Context, tool string, args Args) Result {
	call := r.call(args)
	resp, err := r.Via.Do(ctx, call)
	if err != nil {
		logFailure(ctx, tool, r.Endpoint, err, args)
	}
	return Result{Provider: r.Provider, Response: resp, Err: err}
}

func (r Request) call(args Args) upstream.Call {
	call := upstream.Call{Endpoint: r.Endpoint}
	for _, f := range r.Fields {
		if !args.Has(f.Arg) {
			continue
		}
		v := args[f.Arg]
		switch f.In {
		case InQuery:
			if call.Query == nil {
				call.Query = url.Values{}
			}
			call.Query.Set(f.Name, formatValue(v))
		case InPath:
			if call.Path == nil {
				call.Path = map[string]string{}
			}
			call.Path[f.Name] = formatValue(v)
		case InBody:
			if call.Body == nil {
				call.Body = map[string]any{}
			}
			call.Body[f.Name] = v
		case InHeader:
			if call.Header == nil {
				call.Header = http.Header{}
			}
			call.Header.Set(f.Name, formatValue(v))
		}
	}
	return call
}

// logFailure records the classification and the upstream's own message,
// with every credential from args masked.
func logFailure(ctx context.Context, tool string, ep upstream.Endpoint, err error, args Args) {
	secrets := args.secrets()
	kind, code, message := "unknown", 0, ""
	if ue, ok := errors.Into[*upstream.Error](err); ok {
		kind = ue.Kind.String()
		code = ue.StatusCode
		message = observability.RedactString(ue.Message, secrets...)
	}

	log.Printf("[dispatch] %s: %s failed (%s): %s", tool, ep.Name, kind, observability.RedactString(err.Error(), secrets...))
	if message != "" {
		log.Printf("[dispatch] %s: upstream message: %s", tool, message)
	}
	observability.LogUpstreamFailure(middleware.GetRequestID(ctx), tool, ep.Name, kind, code, message)
}
