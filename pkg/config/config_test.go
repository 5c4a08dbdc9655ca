package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const jsonConfig = `{
  "app": {"name": "bahas", "prompts_dir": "prompts", "entry": "debate_router"},
  "gateways": {
    "telegram": {"token": "tg-token", "enabled": true},
    "discord": {"token": "dc-token", "enabled": false}
  },
  "providers": {
    "openai": {"api_key": "sk-test", "model": "gpt-4o-mini", "enabled": true}
  },
  "memory": {"type": "sqlite", "path": "test.db"},
  "workflows": {
    "debate": {
      "tool_names": ["internet_search"],
      "rounds": 2,
      "max_tool_calls": 4,
      "use_structured_api": true
    },
    "router": {
      "trigger_keywords": ["debate", "辩论"]
    }
  }
}`

const yamlConfig = `app:
  name: bahas
  prompts_dir: prompts
  entry: debate_router
gateways:
  telegram:
    token: tg-token
    enabled: true
  discord:
    token: dc-token
    enabled: false
providers:
  openai:
    api_key: sk-test
    model: gpt-4o-mini
    enabled: true
memory:
  type: sqlite
  path: test.db
workflows:
  debate:
    tool_names: [internet_search]
    rounds: 2
    max_tool_calls: 4
    use_structured_api: true
  router:
    trigger_keywords: [debate, 辩论]
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := Load(writeConfig(t, "config.json", jsonConfig))
	if err != nil {
		t.Fatalf("JSON load failed: %v", err)
	}
	fromYAML, err := Load(writeConfig(t, "config.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("YAML load failed: %v", err)
	}

	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("JSON and YAML configs decode differently:\njson: %+v\nyaml: %+v", fromJSON, fromYAML)
	}

	if r := fromJSON.Workflows.Debate.Rounds; r == nil || *r != 2 {
		t.Errorf("rounds = %v, want 2", r)
	}
	if !fromJSON.Workflows.Debate.UseStructuredAPI {
		t.Error("use_structured_api should be true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Entry != "debate_router" {
		t.Errorf("entry default = %q", cfg.App.Entry)
	}
	if cfg.Workflows.Router.DebateFn != "debate_agent" {
		t.Errorf("debate_fn default = %q", cfg.Workflows.Router.DebateFn)
	}
	if cfg.Workflows.Router.DefaultFn != "chat_agent" {
		t.Errorf("default_fn default = %q", cfg.Workflows.Router.DefaultFn)
	}
	if !reflect.DeepEqual(cfg.Workflows.Router.TriggerKeywords, DefaultTriggerKeywords()) {
		t.Errorf("trigger_keywords default = %v", cfg.Workflows.Router.TriggerKeywords)
	}
	if cfg.Memory.Path != "bahas.db" {
		t.Errorf("memory path default = %q", cfg.Memory.Path)
	}
	if r := cfg.Workflows.Debate.Rounds; r == nil || *r != 3 {
		t.Errorf("rounds default = %v, want 3", r)
	}
}

func TestLoad_ExplicitZeroRounds(t *testing.T) {
	// An explicit 0 is a real value (a single debate round downstream),
	// not "unset": it must survive the defaults pass.
	cfg, err := Load(writeConfig(t, "config.json", `{"workflows":{"debate":{"rounds":0}}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r := cfg.Workflows.Debate.Rounds; r == nil || *r != 0 {
		t.Errorf("explicit zero rounds = %v, want 0", r)
	}
}

func TestEntryStructured(t *testing.T) {
	cfg := &Config{}
	cfg.App.Entry = "debate_agent"
	cfg.Workflows.Debate.UseStructuredAPI = true
	if !cfg.EntryStructured() {
		t.Error("debate entry must use the debate workflow's flag")
	}

	cfg = &Config{}
	cfg.App.Entry = "debate_router"
	cfg.Workflows.Debate.UseStructuredAPI = true
	cfg.Workflows.Router.UseStructuredAPI = false
	if cfg.EntryStructured() {
		t.Error("router entry must use the router's flag")
	}
	cfg.Workflows.Router.UseStructuredAPI = true
	if !cfg.EntryStructured() {
		t.Error("router entry must follow the router's flag")
	}
}

func TestGetGateway(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", jsonConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	gw, ok := cfg.GetGateway("telegram")
	if !ok || gw.Token != "tg-token" {
		t.Errorf("expected enabled telegram gateway, got ok=%v token=%q", ok, gw.Token)
	}
	if _, ok := cfg.GetGateway("discord"); ok {
		t.Error("disabled gateway must not be returned")
	}
	if _, ok := cfg.GetGateway("matrix"); ok {
		t.Error("unknown gateway must not be returned")
	}
}

func TestGetDefaultProvider(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", jsonConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	name, p := cfg.GetDefaultProvider()
	if name != "openai" || p.Model != "gpt-4o-mini" {
		t.Errorf("got provider %q %+v", name, p)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "bad.json", `{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "app: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
