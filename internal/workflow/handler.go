package workflow

import (
	"context"

	"github.com/rahul/bahas/internal/api"
)

// Handler is a registered workflow: one long-lived request handler bound
// to its LLM and tools at startup. Every handler exposes both calling
// conventions; InvokeString must go through Invoke so both produce the
// same content for the same input.
type Handler interface {
	Invoke(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	InvokeString(ctx context.Context, input string) (string, error)
	Close() error
}

// CallString adapts the structured convention to the plain-text one.
// Handlers implement InvokeString with this so the two conventions can
// never drift apart.
func CallString(ctx context.Context, h Handler, input string) (string, error) {
	resp, err := h.Invoke(ctx, api.NewRequestFromString(input))
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}
