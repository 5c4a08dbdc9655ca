package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rahul/bahas/internal/governance"
	"github.com/rahul/bahas/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel replays responses in order and records every call's
// messages. Past the end of the script the last response repeats.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(prompt)}},
	}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}
}

func toolCallResponse(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			}},
		}},
	}
}

// recordingTool records every execution; the first failUntil executions
// return an error.
type recordingTool struct {
	executions []string
	failUntil  int
}

func (t *recordingTool) Name() string               { return "lookup" }
func (t *recordingTool) Description() string        { return "looks things up" }
func (t *recordingTool) Parameters() map[string]any { return map[string]any{"type": "object"} }

func (t *recordingTool) Execute(_ context.Context, input string) (string, error) {
	t.executions = append(t.executions, input)
	if len(t.executions) <= t.failUntil {
		return "", errors.New("lookup backend unavailable")
	}
	return "looked up: " + input, nil
}

func newTestExecutor(model llms.Model, tool tools.Tool, policy governance.PolicyEngine, cfg ExecutorConfig) *Executor {
	registry := tools.NewRegistry()
	if tool != nil {
		registry.Register(tool)
	}
	return NewExecutor(model, registry, policy, nil, cfg)
}

func TestExecutor_StepBudget(t *testing.T) {
	cases := []struct {
		maxToolCalls int
		want         int
	}{
		{1, 4},
		{6, 14},
		{0, 14}, // defaults to 6
	}
	for _, tc := range cases {
		e := newTestExecutor(&scriptedModel{}, nil, nil, ExecutorConfig{MaxToolCalls: tc.maxToolCalls})
		if got := e.StepBudget(); got != tc.want {
			t.Errorf("MaxToolCalls=%d: StepBudget() = %d, want %d", tc.maxToolCalls, got, tc.want)
		}
	}
}

func TestExecutor_DirectAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("final answer"),
	}}
	e := newTestExecutor(model, &recordingTool{}, nil, ExecutorConfig{SystemPrompt: "be brief"})

	out, err := e.Run(context.Background(), "chat-1", "what is up?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "final answer" {
		t.Errorf("got %q", out)
	}
	if len(model.calls) != 1 {
		t.Errorf("expected a single model call, got %d", len(model.calls))
	}

	// System prompt first, user prompt last.
	msgs := model.calls[0]
	if msgs[0].Role != llms.ChatMessageTypeSystem {
		t.Error("first message must be the system prompt")
	}
	if msgs[len(msgs)-1].Role != llms.ChatMessageTypeHuman {
		t.Error("last message must be the user prompt")
	}
}

func TestExecutor_ToolResultFedBack(t *testing.T) {
	tool := &recordingTool{}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "lookup", `{"q":"go"}`),
		textResponse("answer using tool result"),
	}}
	e := newTestExecutor(model, tool, nil, ExecutorConfig{})

	out, err := e.Run(context.Background(), "chat-1", "look up go")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "answer using tool result" {
		t.Errorf("got %q", out)
	}
	if len(tool.executions) != 1 || tool.executions[0] != `{"q":"go"}` {
		t.Errorf("tool saw wrong arguments: %v", tool.executions)
	}

	// The second call must carry the tool response back to the model.
	second := model.calls[1]
	var found bool
	for _, msg := range second {
		if msg.Role != llms.ChatMessageTypeTool {
			continue
		}
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok {
				if tr.ToolCallID == "call-1" && strings.Contains(tr.Content, "looked up") {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("tool result was not fed back to the model")
	}
}

func TestExecutor_ToolRetry(t *testing.T) {
	tool := &recordingTool{failUntil: 1}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "lookup", `{"q":"go"}`),
		textResponse("done"),
	}}
	e := newTestExecutor(model, tool, nil, ExecutorConfig{ToolCallRetries: 1})

	if _, err := e.Run(context.Background(), "chat-1", "look up go"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(tool.executions) != 2 {
		t.Errorf("expected one retry after the failure, got %d executions", len(tool.executions))
	}
}

func TestExecutor_ToolFailureFedBackAsError(t *testing.T) {
	tool := &recordingTool{failUntil: 10}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "lookup", `{}`),
		textResponse("answered without the tool"),
	}}
	e := newTestExecutor(model, tool, nil, ExecutorConfig{})

	out, err := e.Run(context.Background(), "chat-1", "look up go")
	if err != nil {
		t.Fatalf("a failing tool must not abort the turn: %v", err)
	}
	if out != "answered without the tool" {
		t.Errorf("got %q", out)
	}

	var errText string
	for _, msg := range model.calls[1] {
		if msg.Role != llms.ChatMessageTypeTool {
			continue
		}
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok {
				errText = tr.Content
			}
		}
	}
	if !strings.Contains(errText, "Error:") {
		t.Errorf("model should see the tool error, got %q", errText)
	}
}

func TestExecutor_PolicyDenial(t *testing.T) {
	tool := &recordingTool{}
	policy := governance.NewRuleEngine()
	policy.DenyTool("lookup")

	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "lookup", `{}`),
		textResponse("done"),
	}}
	e := newTestExecutor(model, tool, policy, ExecutorConfig{})

	if _, err := e.Run(context.Background(), "chat-1", "look up go"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(tool.executions) != 0 {
		t.Error("a denied tool must never execute")
	}

	var denial string
	for _, msg := range model.calls[1] {
		if msg.Role != llms.ChatMessageTypeTool {
			continue
		}
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok {
				denial = tr.Content
			}
		}
	}
	if !strings.Contains(denial, "denied by policy") {
		t.Errorf("model should see the denial reason, got %q", denial)
	}
}

func TestExecutor_ParseRetry(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse(""),
		textResponse("recovered answer"),
	}}
	e := newTestExecutor(model, nil, nil, ExecutorConfig{ParseRetries: 1})

	out, err := e.Run(context.Background(), "chat-1", "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "recovered answer" {
		t.Errorf("got %q", out)
	}
	if len(model.calls) != 2 {
		t.Errorf("expected one retry call, got %d", len(model.calls))
	}
}

func TestExecutor_ParseRetriesExhausted(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse(""),
	}}
	e := newTestExecutor(model, nil, nil, ExecutorConfig{ParseRetries: 2})

	_, err := e.Run(context.Background(), "chat-1", "hello")
	if err == nil {
		t.Fatal("expected error after exhausting parse retries")
	}
	if len(model.calls) != 3 {
		t.Errorf("expected initial call plus 2 retries, got %d", len(model.calls))
	}
}

func TestExecutor_StepBudgetExhausted(t *testing.T) {
	// The model never stops calling the tool: the turn must end with a
	// budget error instead of spinning.
	tool := &recordingTool{}
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "lookup", `{}`),
	}}
	e := newTestExecutor(model, tool, nil, ExecutorConfig{MaxToolCalls: 2})

	_, err := e.Run(context.Background(), "chat-1", "loop forever")
	if err == nil {
		t.Fatal("expected step budget exhaustion error")
	}
	if !strings.Contains(err.Error(), "budget") {
		t.Errorf("error should name the budget: %v", err)
	}
	if len(model.calls) != e.StepBudget() {
		t.Errorf("expected exactly %d model calls, got %d", e.StepBudget(), len(model.calls))
	}
}

func TestExecutor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("never")}}
	e := newTestExecutor(model, nil, nil, ExecutorConfig{})

	_, err := e.Run(ctx, "chat-1", "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(model.calls) != 0 {
		t.Error("no model call should happen after cancellation")
	}
}
