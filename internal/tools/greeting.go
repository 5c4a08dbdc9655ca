package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const noGreetingInputMessage = "Please say something so I can greet you back."

// GreetingTool is a minimal demo capability: it answers a greeting with the
// current time and explains itself for anything else.
type GreetingTool struct {
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewGreetingTool() *GreetingTool {
	return &GreetingTool{Now: time.Now}
}

func (g *GreetingTool) Name() string {
	return "greeting"
}

func (g *GreetingTool) Description() string {
	return "Use this when the user greets you ('你好', 'hello', 'hi'). Returns a greeting with the current time."
}

func (g *GreetingTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The user's greeting message",
			},
		},
		"required": []string{"message"},
	}
}

func (g *GreetingTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	text := strings.TrimSpace(args.Message)
	if text == "" {
		return noGreetingInputMessage, nil
	}

	if strings.Contains(text, "你好") || hasGreetingWord(text) {
		now := g.Now().Format("2006-01-02 15:04:05 MST")
		return fmt.Sprintf("你好! Hello there, the current time is %s.", now), nil
	}

	return "I only reply to greetings like '你好' or 'hello', with the current time attached.", nil
}

// hasGreetingWord matches "hello" or "hi" as standalone words only, so
// ordinary words containing them ("this", "something") are not greetings.
func hasGreetingWord(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if w == "hello" || w == "hi" {
			return true
		}
	}
	return false
}
