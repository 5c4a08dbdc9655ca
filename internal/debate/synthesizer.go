package debate

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Synthesizer reduces a finished blackboard into the final Markdown
// comparison artifact with a single model call (no tools, no reasoning
// loop). The structural constraints below are prompt instructions only;
// the output is treated as opaque text and never validated here.
type Synthesizer struct {
	Model llms.Model
}

func NewSynthesizer(model llms.Model) *Synthesizer {
	return &Synthesizer{Model: model}
}

// Synthesize must only be called after the round controller has finished:
// it reads the complete, frozen blackboard.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string, bb *Blackboard) (string, error) {
	prompt := synthesisPrompt(topic, bb)

	resp, err := s.Model.GenerateContent(ctx, []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesis call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("synthesis returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func synthesisPrompt(topic string, bb *Blackboard) string {
	return fmt.Sprintf(
		"You are a meeting-minutes assistant. Reduce the debate blackboard below into a strict Markdown document:\n"+
			"- one top-level H1 title reading 'Debate Result: <topic>'\n"+
			"- one conclusion paragraph of at most 80 characters\n"+
			"- one three-column table titled 'Pros and Cons' with columns 'Point', 'Pro', 'Con'\n"+
			"- keep every table cell under 40 characters and avoid duplicate points\n"+
			"- the document must be ready to paste into a wiki as-is\n\n"+
			"Debate topic: %s\nFull blackboard:\n%s",
		topic, bb.Render())
}
