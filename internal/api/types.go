package api

// Chat message roles. Gateways and workflows agree on these strings;
// anything unknown is passed through untouched.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is a single role-tagged message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the structured inbound shape consumed by workflows:
// an ordered list of messages, oldest first. ChatID identifies the
// conversation for workflows that keep history; it may be empty.
type ChatRequest struct {
	ChatID   string        `json:"chat_id,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse wraps a single text payload produced by a workflow.
type ChatResponse struct {
	Output string `json:"output"`
}

// NewRequestFromString wraps a raw string as a one-message user request.
// This is the lossless string-to-structured conversion used by the
// plain-text calling convention.
func NewRequestFromString(input string) *ChatRequest {
	return &ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleUser, Content: input},
		},
	}
}

// NewResponseFromString wraps a text payload as a ChatResponse.
func NewResponseFromString(output string) *ChatResponse {
	return &ChatResponse{Output: output}
}

// String returns the text payload of the response.
func (r *ChatResponse) String() string {
	if r == nil {
		return ""
	}
	return r.Output
}

// LatestUserText scans the messages in reverse order and returns the
// content of the most recent user-authored message. ok is false when the
// request carries no user message at all.
func (r *ChatRequest) LatestUserText() (string, bool) {
	if r == nil {
		return "", false
	}
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content, true
		}
	}
	return "", false
}
