package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/rahul/bahas/internal/governance"
	"github.com/rahul/bahas/internal/observability"
	"github.com/rahul/bahas/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// ExecutorConfig bounds a single reasoning turn.
type ExecutorConfig struct {
	// SystemPrompt is sent as the system message; for debate roles it is
	// the shared base prompt with role instructions appended.
	SystemPrompt string
	// MaxToolCalls caps tool invocations per turn. The model call budget
	// derives from it: 2*(MaxToolCalls+1) steps.
	MaxToolCalls int
	// ParseRetries is how many times an empty or unparseable model reply
	// is retried before the turn fails.
	ParseRetries int
	// ToolCallRetries is how many times a failing tool is re-run before
	// its error is handed back to the model.
	ToolCallRetries int
	Verbose         bool
}

func (c ExecutorConfig) withDefaults() ExecutorConfig {
	if c.MaxToolCalls <= 0 {
		c.MaxToolCalls = 6
	}
	if c.ParseRetries < 0 {
		c.ParseRetries = 0
	}
	if c.ToolCallRetries < 0 {
		c.ToolCallRetries = 0
	}
	return c
}

// Executor runs one bounded reasoning-and-acting turn: prompt in, final
// text answer out. It is the turn capability behind both debate roles and
// the default chat pipeline.
type Executor struct {
	Model    llms.Model
	Registry *tools.Registry
	Policy   governance.PolicyEngine
	Logger   *observability.Logger
	Config   ExecutorConfig
}

func NewExecutor(model llms.Model, registry *tools.Registry, policy governance.PolicyEngine, logger *observability.Logger, cfg ExecutorConfig) *Executor {
	return &Executor{
		Model:    model,
		Registry: registry,
		Policy:   policy,
		Logger:   logger,
		Config:   cfg.withDefaults(),
	}
}

// StepBudget returns the model-call cap for one turn.
func (e *Executor) StepBudget() int {
	return 2 * (e.Config.MaxToolCalls + 1)
}

// Run executes one turn with no prior conversation history.
func (e *Executor) Run(ctx context.Context, chatID, prompt string) (string, error) {
	return e.RunWithHistory(ctx, chatID, nil, prompt)
}

// RunWithHistory executes one turn with prior messages prepended between
// the system prompt and the current input.
func (e *Executor) RunWithHistory(ctx context.Context, chatID string, history []llms.MessageContent, prompt string) (string, error) {
	var messages []llms.MessageContent
	if e.Config.SystemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(e.Config.SystemPrompt)},
		})
	}
	messages = append(messages, history...)
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(prompt)},
	})

	llmTools := e.toolDefinitions()

	stepBudget := e.StepBudget()
	parseFailures := 0
	toolCalls := 0

	for step := 0; step < stepBudget; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var opts []llms.CallOption
		if len(llmTools) > 0 && toolCalls < e.Config.MaxToolCalls {
			opts = append(opts, llms.WithTools(llmTools))
		}

		resp, err := e.Model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			if parseFailures < e.Config.ParseRetries {
				parseFailures++
				messages = append(messages, retryNudge())
				continue
			}
			return "", fmt.Errorf("model returned no choices after %d retries", parseFailures)
		}

		choice := resp.Choices[0]
		e.Logger.LogLLM(chatID, prompt, choice.Content, choice.ToolCalls)

		// Record the assistant message, tool calls included.
		var assistantParts []llms.ContentPart
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, tc := range choice.ToolCalls {
			assistantParts = append(assistantParts, tc)
		}
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		// No tool calls: this is the final answer, or a parse failure if
		// the model produced nothing at all.
		if len(choice.ToolCalls) == 0 {
			if choice.Content == "" {
				if parseFailures < e.Config.ParseRetries {
					parseFailures++
					messages = append(messages, retryNudge())
					continue
				}
				return "", fmt.Errorf("could not parse a final answer after %d retries", parseFailures)
			}
			return choice.Content, nil
		}

		for _, tc := range choice.ToolCalls {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			toolCalls++
			result := e.executeToolCall(ctx, chatID, step, tc)

			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}

		if toolCalls >= e.Config.MaxToolCalls {
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{
					llms.TextPart("The tool call budget is exhausted. Give your final answer now using what you already know."),
				},
			})
		}
	}

	return "", fmt.Errorf("reasoning step budget (%d) exhausted without a final answer", stepBudget)
}

func (e *Executor) toolDefinitions() []llms.Tool {
	if e.Registry == nil {
		return nil
	}
	var llmTools []llms.Tool
	for _, t := range e.Registry.Tools {
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return llmTools
}

// executeToolCall runs one tool call under policy, retrying bounded times.
// Failures never abort the turn: the error text goes back to the model.
func (e *Executor) executeToolCall(ctx context.Context, chatID string, step int, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	args := tc.FunctionCall.Arguments

	tool := e.Registry.Get(name)
	if tool == nil {
		return fmt.Sprintf("Error: Tool %s not found", name)
	}

	if e.Policy != nil {
		res, err := e.Policy.Evaluate(ctx, governance.Request{Tool: name, Arguments: args, ChatID: chatID})
		if err != nil {
			return fmt.Sprintf("Error: policy evaluation failed: %v", err)
		}
		e.Logger.LogPolicyCheck(chatID, name, string(res.Effect), res.Reason)
		if res.Effect == governance.EffectDeny {
			return fmt.Sprintf("Error: tool call denied by policy: %s", res.Reason)
		}
	}

	e.Logger.LogToolCall(chatID, name, args)
	if e.Config.Verbose {
		log.Printf("[Step %d] Executing tool %s with args: %s", step+1, name, args)
	}

	var lastErr error
	for attempt := 0; attempt <= e.Config.ToolCallRetries; attempt++ {
		res, err := tool.Execute(ctx, args)
		if err == nil {
			e.Logger.LogToolResult(chatID, name, res)
			if e.Config.Verbose {
				log.Printf("[Step %d] Tool %s returned: %s", step+1, name, res)
			}
			return res
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if e.Config.Verbose {
			log.Printf("[Step %d] Tool %s failed (attempt %d): %v", step+1, name, attempt+1, err)
		}
	}
	return fmt.Sprintf("Error: %v", lastErr)
}

func retryNudge() llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart("Your last reply was empty or could not be parsed. Answer again, either with a tool call or with your final answer."),
		},
	}
}
