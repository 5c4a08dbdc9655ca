package agent

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultBasePrompt is used when no prompts directory is configured or
// readable. It is the shared base for every executor; debate roles append
// their stance instructions to it.
const defaultBasePrompt = `You are a careful reasoning assistant with access to tools.
Use a tool when you need facts you do not already know; otherwise answer directly.
Think step by step, keep answers concrete, and never invent tool results.
When you have enough information, reply with your final answer as plain text.`

// PromptManager assembles the base system prompt from markdown fragments
// in a directory, in a fixed order.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

// GetBasePrompt joins all .md files in the prompts directory. Known files
// come first in a fixed order so identity always precedes capabilities.
func (pm *PromptManager) GetBasePrompt() (string, error) {
	files, err := os.ReadDir(pm.Directory)
	if err != nil {
		return "", fmt.Errorf("failed to read prompts directory: %v", err)
	}

	order := map[string]int{
		"identity.md":     1,
		"reasoning.md":    2,
		"capabilities.md": 3,
		"user.md":         4,
	}

	sort.Slice(files, func(i, j int) bool {
		oi, okI := order[files[i].Name()]
		oj, okJ := order[files[j].Name()]
		if okI && okJ {
			return oi < oj
		}
		if okI {
			return true
		}
		if okJ {
			return false
		}
		return files[i].Name() < files[j].Name()
	})

	var contents []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		path := filepath.Join(pm.Directory, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: Failed to read prompt file %s: %v", path, err)
			continue
		}
		contents = append(contents, string(data))
	}

	if len(contents) == 0 {
		return "", fmt.Errorf("no prompt files found in %s", pm.Directory)
	}

	return strings.Join(contents, "\n\n---\n\n"), nil
}

// BasePromptOrDefault returns the assembled base prompt, falling back to
// the built-in one when the directory is missing or empty.
func (pm *PromptManager) BasePromptOrDefault() string {
	if pm == nil || pm.Directory == "" {
		return defaultBasePrompt
	}
	prompt, err := pm.GetBasePrompt()
	if err != nil {
		log.Printf("Warning: using built-in base prompt: %v", err)
		return defaultBasePrompt
	}
	return prompt
}
