package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `json:"app" yaml:"app"`
	Gateways  map[string]GatewayConfig  `json:"gateways" yaml:"gateways"`
	Providers map[string]ProviderConfig `json:"providers" yaml:"providers"`
	Memory    MemoryConfig              `json:"memory" yaml:"memory"`
	Workflows WorkflowsConfig           `json:"workflows" yaml:"workflows"`
}

type AppConfig struct {
	Name       string `json:"name" yaml:"name"`
	PromptsDir string `json:"prompts_dir" yaml:"prompts_dir"`
	// Entry is the workflow every gateway feeds inbound messages into.
	Entry string `json:"entry" yaml:"entry"`
}

type GatewayConfig struct {
	Token   string `json:"token" yaml:"token"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

type MemoryConfig struct {
	Type string `json:"type" yaml:"type"`
	Path string `json:"path" yaml:"path"`
}

type WorkflowsConfig struct {
	Debate DebateConfig `json:"debate" yaml:"debate"`
	Router RouterConfig `json:"router" yaml:"router"`
}

// DebateConfig is the registration-time configuration of the debate
// workflow. Zero values fall back to the workflow's own defaults, except
// Rounds: a pointer so an explicit 0 (which runs a single round) can be
// told apart from the field being omitted (which means 3).
type DebateConfig struct {
	ToolNames           []string `json:"tool_names" yaml:"tool_names"`
	LLMName             string   `json:"llm_name" yaml:"llm_name"`
	Rounds              *int     `json:"rounds" yaml:"rounds"`
	Verbose             bool     `json:"verbose" yaml:"verbose"`
	MaxToolCalls        int      `json:"max_tool_calls" yaml:"max_tool_calls"`
	ParseRetries        int      `json:"parse_retries" yaml:"parse_retries"`
	ToolCallRetries     int      `json:"tool_call_retries" yaml:"tool_call_retries"`
	ProRoleInstructions string   `json:"pro_role_instructions" yaml:"pro_role_instructions"`
	ConRoleInstructions string   `json:"con_role_instructions" yaml:"con_role_instructions"`
	UseStructuredAPI    bool     `json:"use_structured_api" yaml:"use_structured_api"`
}

// RouterConfig selects between the debate workflow and a default workflow
// by trigger keywords in the latest user message.
type RouterConfig struct {
	DebateFn         string   `json:"debate_fn" yaml:"debate_fn"`
	DefaultFn        string   `json:"default_fn" yaml:"default_fn"`
	TriggerKeywords  []string `json:"trigger_keywords" yaml:"trigger_keywords"`
	UseStructuredAPI bool     `json:"use_structured_api" yaml:"use_structured_api"`
}

// DefaultTriggerKeywords trip the debate workflow; any single hit is
// enough. Both Chinese and English phrasings are covered.
func DefaultTriggerKeywords() []string {
	return []string{"辩论", "正反", "利弊", "pros and cons", "debate"}
}

// Load reads a JSON or YAML config file, dispatching on extension, and
// fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Entry == "" {
		c.App.Entry = "debate_router"
	}
	if c.Workflows.Router.DebateFn == "" {
		c.Workflows.Router.DebateFn = "debate_agent"
	}
	if c.Workflows.Router.DefaultFn == "" {
		c.Workflows.Router.DefaultFn = "chat_agent"
	}
	if len(c.Workflows.Router.TriggerKeywords) == 0 {
		c.Workflows.Router.TriggerKeywords = DefaultTriggerKeywords()
	}
	if c.Workflows.Debate.Rounds == nil {
		rounds := 3
		c.Workflows.Debate.Rounds = &rounds
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "bahas.db"
	}
}

// EntryStructured reports which calling convention the gateways use for
// the entry workflow. When the debate workflow is the entry itself, its
// own flag applies; otherwise the router's does.
func (c *Config) EntryStructured() bool {
	if c.App.Entry == "debate_agent" {
		return c.Workflows.Debate.UseStructuredAPI
	}
	return c.Workflows.Router.UseStructuredAPI
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetGateway returns a gateway config if present and enabled.
func (c *Config) GetGateway(name string) (GatewayConfig, bool) {
	gw, ok := c.Gateways[name]
	if ok && gw.Enabled {
		return gw, true
	}
	return GatewayConfig{}, false
}
