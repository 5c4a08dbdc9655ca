package agent

import (
	"context"
	"log"

	"github.com/rahul/bahas/internal/api"
	"github.com/rahul/bahas/internal/workflow"
	"github.com/tmc/langchaingo/llms"
)

const defaultHistoryWindow = 10

// HistoryStore is the transcript dependency of the chat pipeline.
type HistoryStore interface {
	AddMessage(chatID string, role string, content string) error
	GetHistory(chatID string, limit int) ([]llms.MessageContent, error)
}

// Pipeline is the default chat workflow: a single history-aware agent turn
// per request. The keyword router falls back to it when no debate trigger
// matches.
type Pipeline struct {
	Executor *Executor
	History  HistoryStore
}

func NewPipeline(executor *Executor, history HistoryStore) *Pipeline {
	return &Pipeline{
		Executor: executor,
		History:  history,
	}
}

func (p *Pipeline) Invoke(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	input, ok := req.LatestUserText()
	if !ok {
		return api.NewResponseFromString("Please send a message and I'll do my best to help."), nil
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = "default"
	}

	var history []llms.MessageContent
	if p.History != nil {
		h, err := p.History.GetHistory(chatID, defaultHistoryWindow)
		if err != nil {
			log.Printf("Warning: failed to load history for chat %s: %v", chatID, err)
		} else {
			history = h
		}
	}

	answer, err := p.Executor.RunWithHistory(ctx, chatID, history, input)
	if err != nil {
		return nil, err
	}

	if p.History != nil {
		if err := p.History.AddMessage(chatID, "human", input); err != nil {
			log.Printf("Warning: failed to store user message: %v", err)
		}
		if err := p.History.AddMessage(chatID, "ai", answer); err != nil {
			log.Printf("Warning: failed to store assistant message: %v", err)
		}
	}

	return api.NewResponseFromString(answer), nil
}

func (p *Pipeline) InvokeString(ctx context.Context, input string) (string, error) {
	return workflow.CallString(ctx, p, input)
}

func (p *Pipeline) Close() error {
	return nil
}
