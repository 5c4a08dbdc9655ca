package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeRoute       EventType = "route"
	EventTypeDebateTurn  EventType = "debate_turn"
	EventTypeSynthesis   EventType = "synthesis"
	EventTypeToolCall    EventType = "tool_call"
	EventTypeToolResult  EventType = "tool_result"
	EventTypePolicyCheck EventType = "policy_check"
	EventTypeLLM         EventType = "llm"
	EventTypeHeartbeat   EventType = "heartbeat"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	ChatID    string    `json:"chat_id,omitempty"`
	Workflow  string    `json:"workflow,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	// Out receives the JSON event stream; nil means stdout.
	Out        io.Writer
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		Out:        os.Stdout,
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event. A nil Logger is safe and logs
// nothing, so components can treat the logger as optional.
func (l *Logger) Log(evt Event) {
	if l == nil {
		return
	}
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Fprintf(out, "{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintln(out, string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogRoute(chatID, target string) {
	l.Log(Event{
		Type:     EventTypeRoute,
		ChatID:   chatID,
		Workflow: target,
		Data:     map[string]string{"target": target},
	})
}

func (l *Logger) LogDebateTurn(chatID string, round int, role, answer string) {
	l.Log(Event{
		Type:     EventTypeDebateTurn,
		ChatID:   chatID,
		Workflow: "debate_agent",
		Data: map[string]any{
			"round": round,
			"role":  role,
			"chars": len(answer),
		},
	})
}

func (l *Logger) LogSynthesis(chatID, topic string, entries int) {
	l.Log(Event{
		Type:     EventTypeSynthesis,
		ChatID:   chatID,
		Workflow: "debate_agent",
		Data: map[string]any{
			"topic":   topic,
			"entries": entries,
		},
	})
}

func (l *Logger) LogToolCall(chatID, tool, args string) {
	l.Log(Event{
		Type:   EventTypeToolCall,
		ChatID: chatID,
		Data: map[string]string{
			"tool": tool,
			"args": args,
		},
	})
}

func (l *Logger) LogToolResult(chatID, tool, result string) {
	l.Log(Event{
		Type:   EventTypeToolResult,
		ChatID: chatID,
		Data: map[string]string{
			"tool":   tool,
			"result": result,
		},
	})
}

func (l *Logger) LogPolicyCheck(chatID, tool, effect, reason string) {
	l.Log(Event{
		Type:   EventTypePolicyCheck,
		ChatID: chatID,
		Data: map[string]string{
			"tool":   tool,
			"effect": effect,
			"reason": reason,
		},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]string{"status": "alive"},
	})
}

func (l *Logger) LogLLM(chatID string, prompt any, response string, toolCalls any) {
	l.Log(Event{
		Type:   EventTypeLLM,
		ChatID: chatID,
		Data: map[string]any{
			"prompt":     prompt,
			"response":   response,
			"tool_calls": toolCalls,
		},
	})
}
