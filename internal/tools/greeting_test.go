package tools

import (
	"context"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestGreetingTool_RepliesWithTime(t *testing.T) {
	g := NewGreetingTool()
	g.Now = fixedClock

	for _, input := range []string{
		`{"message":"hello"}`,
		`{"message":"Hi there"}`,
		`{"message":"hi!"}`,
		`{"message":"你好"}`,
	} {
		out, err := g.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("Execute(%s) failed: %v", input, err)
		}
		if !strings.Contains(out, "2026-03-14 09:26:53 UTC") {
			t.Errorf("Execute(%s) should include the current time, got %q", input, out)
		}
	}
}

func TestGreetingTool_NonGreeting(t *testing.T) {
	g := NewGreetingTool()
	g.Now = fixedClock

	// Words that merely contain "hi" are not greetings.
	for _, input := range []string{
		`{"message":"what is the weather"}`,
		`{"message":"tell me something about Go"}`,
		`{"message":"which option is better"}`,
		`{"message":"this is fine"}`,
	} {
		out, err := g.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("Execute(%s) failed: %v", input, err)
		}
		if strings.Contains(out, "2026-03-14") {
			t.Errorf("Execute(%s): non-greeting should not get the time, got %q", input, out)
		}
	}
}

func TestGreetingTool_EmptyMessage(t *testing.T) {
	g := NewGreetingTool()
	g.Now = fixedClock

	out, err := g.Execute(context.Background(), `{"message":"  "}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != noGreetingInputMessage {
		t.Errorf("got %q", out)
	}
}

func TestGreetingTool_InvalidJSON(t *testing.T) {
	g := NewGreetingTool()
	if _, err := g.Execute(context.Background(), `not json`); err == nil {
		t.Error("expected error for invalid input")
	}
}
