package governance

import (
	"context"
	"fmt"
	"regexp"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request contains the context of a tool call to be evaluated.
type Request struct {
	Tool      string
	Arguments string
	ChatID    string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine evaluates tool calls before the executor runs them. A denied
// call is never executed; the denial reason is fed back to the model as the
// tool result instead.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// RuleEngine is a basic PolicyEngine built from deny rules: restricted tool
// names plus regex patterns matched against the raw tool arguments.
type RuleEngine struct {
	deniedTools map[string]bool
	deniedArgs  []*regexp.Regexp
}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		deniedTools: make(map[string]bool),
		deniedArgs:  make([]*regexp.Regexp, 0),
	}
}

func (e *RuleEngine) DenyTool(name string) {
	e.deniedTools[name] = true
}

func (e *RuleEngine) DenyArguments(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.deniedArgs = append(e.deniedArgs, re)
	return nil
}

func (e *RuleEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if e.deniedTools[req.Tool] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("Tool '%s' is restricted by system policy", req.Tool),
		}, nil
	}

	for _, re := range e.deniedArgs {
		if re.MatchString(req.Arguments) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Arguments match restricted pattern: %s", re.String()),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}
