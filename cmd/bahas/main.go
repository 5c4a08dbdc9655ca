package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/bahas/internal/agent"
	"github.com/rahul/bahas/internal/debate"
	"github.com/rahul/bahas/internal/gateway"
	"github.com/rahul/bahas/internal/governance"
	"github.com/rahul/bahas/internal/observability"
	"github.com/rahul/bahas/internal/store"
	"github.com/rahul/bahas/internal/tools"
	"github.com/rahul/bahas/internal/workflow"
	"github.com/rahul/bahas/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	observability.PrintBanner()

	// Route all log output through the terminal mutex so concurrent
	// gateway goroutines never tear a line.
	log.SetOutput(observability.NewTermWriter())

	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger()

	// Initialize Tools
	registry := tools.NewRegistry()

	searchTool, err := tools.NewSearchTool(10)
	if err != nil {
		log.Printf("Warning: Failed to initialize search tool: %v", err)
	} else {
		registry.Register(searchTool)
	}

	registry.Register(tools.NewScraperTool())
	registry.Register(tools.NewGreetingTool())
	registry.Register(tools.NewNetProductTool(5, true))

	browserTool := tools.NewBrowserTool()
	registry.Register(browserTool)

	// Tool-call policy: keep the research tools away from local resources.
	policy := governance.NewRuleEngine()
	_ = policy.DenyArguments(`file://`)
	_ = policy.DenyArguments(`127\.0\.0\.1`)
	_ = policy.DenyArguments(`localhost`)

	transcripts, err := store.NewTranscriptStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}

	prompts := agent.NewPromptManager(cfg.App.PromptsDir)

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	// Register workflows
	workflows := workflow.NewRegistry()

	debateTools := registry
	if names := cfg.Workflows.Debate.ToolNames; len(names) > 0 {
		debateTools, err = registry.Subset(names)
		if err != nil {
			log.Fatal(err)
		}
	}

	debateHandler, err := debate.New(debate.Config{
		Rounds:          *cfg.Workflows.Debate.Rounds,
		MaxToolCalls:    cfg.Workflows.Debate.MaxToolCalls,
		ParseRetries:    cfg.Workflows.Debate.ParseRetries,
		ToolCallRetries: cfg.Workflows.Debate.ToolCallRetries,
		ProInstructions: cfg.Workflows.Debate.ProRoleInstructions,
		ConInstructions: cfg.Workflows.Debate.ConRoleInstructions,
		Verbose:         cfg.Workflows.Debate.Verbose,
	}, llm, debateTools, policy, logger, prompts)
	if err != nil {
		log.Fatal(err)
	}
	if err := workflows.Register("debate_agent", debateHandler); err != nil {
		log.Fatal(err)
	}

	chatExecutor := agent.NewExecutor(llm, registry, policy, logger, agent.ExecutorConfig{
		SystemPrompt: prompts.BasePromptOrDefault(),
		Verbose:      cfg.Workflows.Debate.Verbose,
	})
	if err := workflows.Register("chat_agent", agent.NewPipeline(chatExecutor, transcripts)); err != nil {
		log.Fatal(err)
	}

	debateFn, err := workflows.Get(cfg.Workflows.Router.DebateFn)
	if err != nil {
		log.Fatal(err)
	}
	defaultFn, err := workflows.Get(cfg.Workflows.Router.DefaultFn)
	if err != nil {
		log.Fatal(err)
	}
	router := workflow.NewRouter(debateFn, defaultFn, cfg.Workflows.Router.TriggerKeywords, logger)
	if err := workflows.Register("debate_router", router); err != nil {
		log.Fatal(err)
	}

	entry, err := workflows.Get(cfg.App.Entry)
	if err != nil {
		log.Fatal(err)
	}
	structured := cfg.EntryStructured()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start Gateways
	var gateways []gateway.Messenger
	if tgCfg, ok := cfg.GetGateway("telegram"); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, entry, structured)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, tg)
	}
	if dcCfg, ok := cfg.GetGateway("discord"); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token, entry, structured)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, dc)
	}
	if len(gateways) == 0 {
		log.Fatal("No gateway is enabled in config")
	}

	for _, gw := range gateways {
		gw := gw
		go func() {
			if err := gw.Start(); err != nil {
				log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
				stop() // stop caller if gateway dies
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	for _, gw := range gateways {
		if err := gw.Stop(); err != nil {
			log.Printf("Error stopping gateway: %v", err)
		}
	}
	workflows.Close()
	browserTool.Close()
	if err := transcripts.Close(); err != nil {
		log.Printf("Error closing transcript store: %v", err)
	}

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
