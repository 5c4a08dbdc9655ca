package gateway

import (
	"context"

	"github.com/rahul/bahas/internal/api"
	"github.com/rahul/bahas/internal/workflow"
)

// Messenger defines the interface for communication gateways (Telegram, Discord, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// dispatch feeds one inbound message through the entry workflow using the
// configured calling convention. Both conventions produce the same content;
// the flag exists so deployments can exercise either surface.
func dispatch(ctx context.Context, h workflow.Handler, structured bool, chatID, text string) (string, error) {
	if structured {
		req := api.NewRequestFromString(text)
		req.ChatID = chatID
		resp, err := h.Invoke(ctx, req)
		if err != nil {
			return "", err
		}
		return resp.String(), nil
	}
	return h.InvokeString(ctx, text)
}
