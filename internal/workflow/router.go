package workflow

import (
	"context"
	"log"
	"strings"

	"github.com/rahul/bahas/internal/api"
	"github.com/rahul/bahas/internal/observability"
)

// Router is a stateless classifier that dispatches each request either to
// the debate workflow or to a default workflow, based on the latest user
// message. It performs no generation of its own: handler errors propagate
// to the caller untouched.
type Router struct {
	debate   Handler
	fallback Handler
	keywords []string
	logger   *observability.Logger
}

// NewRouter resolves both targets once at configuration time. Any trigger
// keyword matching the latest user text (case-insensitive substring) sends
// the request to the debate handler.
func NewRouter(debate, fallback Handler, keywords []string, logger *observability.Logger) *Router {
	return &Router{
		debate:   debate,
		fallback: fallback,
		keywords: keywords,
		logger:   logger,
	}
}

func (r *Router) Invoke(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	text, _ := req.LatestUserText()

	target := r.fallback
	name := "default"
	if r.matches(text) {
		target = r.debate
		name = "debate"
	}

	log.Printf("[router] dispatching to %s workflow", name)
	r.logger.LogRoute(req.ChatID, name)
	return target.Invoke(ctx, req)
}

func (r *Router) InvokeString(ctx context.Context, input string) (string, error) {
	return CallString(ctx, r, input)
}

// Close is a no-op: the router does not own its targets, the registry does.
func (r *Router) Close() error {
	return nil
}

func (r *Router) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range r.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
