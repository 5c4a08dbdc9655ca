package debate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rahul/bahas/internal/agent"
	"github.com/rahul/bahas/internal/api"
	"github.com/rahul/bahas/internal/governance"
	"github.com/rahul/bahas/internal/observability"
	"github.com/rahul/bahas/internal/tools"
	"github.com/rahul/bahas/internal/workflow"
	"github.com/tmc/langchaingo/llms"
)

// apologyMessage is the fixed user-facing reply when anything inside the
// debate orchestration fails. The failure itself is logged with context;
// nothing propagates past this handler.
const apologyMessage = "Sorry, the debate workflow ran into an unexpected problem. Please try again."

// placeholderTopic substitutes for a request that carries no user message.
const placeholderTopic = "Please provide a debate topic."

const (
	defaultProInstructions = "You are debater A, arguing FOR the topic. Claims must be verifiable; use the tools to check facts when needed. Reply with 3-5 concise, non-repeating bullet points and end with one sentence giving your strongest argument."
	defaultConInstructions = "You are debater B, arguing AGAINST the topic. Claims must be verifiable; use the tools to check facts when needed. Reply with 3-5 concise, non-repeating bullet points and end with one sentence giving your strongest rebuttal."
)

// Config holds the per-registration debate settings. It is built once at
// startup and shared read-only by every request.
type Config struct {
	// Rounds below 1 (an explicit zero included) are clamped to a single
	// round; the "unset means 3" default lives in the config layer.
	Rounds          int
	MaxToolCalls    int
	ParseRetries    int
	ToolCallRetries int
	ProInstructions string
	ConInstructions string
	Verbose         bool
}

func (c Config) withDefaults() Config {
	if c.Rounds < 1 {
		c.Rounds = 1
	}
	if c.ProInstructions == "" {
		c.ProInstructions = defaultProInstructions
	}
	if c.ConInstructions == "" {
		c.ConInstructions = defaultConInstructions
	}
	return c
}

// Handler is the debate workflow entry point. Each request gets its own
// blackboard and its own pair of role-bound executors; the handler itself
// carries only immutable configuration and shared services.
type Handler struct {
	cfg       Config
	model     llms.Model
	registry  *tools.Registry
	policy    governance.PolicyEngine
	logger    *observability.Logger
	synth     *Synthesizer
	proPrompt string
	conPrompt string
}

// New wires a debate handler at registration time. A debate needs at
// least one tool for its ReAct roles; an empty tool set is a fatal
// configuration error, raised here and never retried.
func New(cfg Config, model llms.Model, registry *tools.Registry, policy governance.PolicyEngine, logger *observability.Logger, prompts *agent.PromptManager) (*Handler, error) {
	if model == nil {
		return nil, fmt.Errorf("debate workflow needs an LLM binding")
	}
	if registry == nil || len(registry.Tools) == 0 {
		return nil, fmt.Errorf("debate workflow needs at least one tool to build its agents")
	}

	cfg = cfg.withDefaults()
	base := prompts.BasePromptOrDefault()

	return &Handler{
		cfg:       cfg,
		model:     model,
		registry:  registry,
		policy:    policy,
		logger:    logger,
		synth:     NewSynthesizer(model),
		proPrompt: base + "\n\n" + cfg.ProInstructions,
		conPrompt: base + "\n\n" + cfg.ConInstructions,
	}, nil
}

func (h *Handler) Invoke(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	topic, ok := req.LatestUserText()
	if !ok || strings.TrimSpace(topic) == "" {
		topic = placeholderTopic
	}

	markdown, err := h.runDebate(ctx, req.ChatID, topic)
	if err != nil {
		// Cancellation is the caller's signal, not a debate failure.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Printf("Debate workflow failed for topic %q: %v", topic, err)
		return api.NewResponseFromString(apologyMessage), nil
	}

	return api.NewResponseFromString(markdown), nil
}

func (h *Handler) InvokeString(ctx context.Context, input string) (string, error) {
	return workflow.CallString(ctx, h, input)
}

func (h *Handler) Close() error {
	return nil
}

// runDebate owns one debate run end to end: fresh blackboard, fresh pair
// of role executors, all rounds, then synthesis over the frozen board.
func (h *Handler) runDebate(ctx context.Context, chatID, topic string) (string, error) {
	bb := NewBlackboard()

	pro := h.roleRunner(chatID, h.proPrompt)
	con := h.roleRunner(chatID, h.conPrompt)

	controller := NewController(pro, con, h.cfg.Rounds, h.logger, chatID)
	if err := controller.Run(ctx, topic, bb); err != nil {
		return "", err
	}

	h.logger.LogSynthesis(chatID, topic, bb.Len())
	return h.synth.Synthesize(ctx, topic, bb)
}

func (h *Handler) roleRunner(chatID, systemPrompt string) TurnRunner {
	exec := agent.NewExecutor(h.model, h.registry, h.policy, h.logger, agent.ExecutorConfig{
		SystemPrompt:    systemPrompt,
		MaxToolCalls:    h.cfg.MaxToolCalls,
		ParseRetries:    h.cfg.ParseRetries,
		ToolCallRetries: h.cfg.ToolCallRetries,
		Verbose:         h.cfg.Verbose,
	})
	return &executorRunner{exec: exec, chatID: chatID}
}

// executorRunner binds a role executor to its chat for the duration of
// one debate run.
type executorRunner struct {
	exec   *agent.Executor
	chatID string
}

func (r *executorRunner) Run(ctx context.Context, prompt string) (string, error) {
	return r.exec.Run(ctx, r.chatID, prompt)
}
