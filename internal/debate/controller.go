package debate

import (
	"context"
	"fmt"

	"github.com/rahul/bahas/internal/observability"
)

// TurnRunner executes one bounded reasoning turn for a role and returns
// its final textual answer. The round controller treats it as opaque: any
// error it returns (retries already exhausted) propagates unchanged.
type TurnRunner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Controller drives the alternating Pro/Con sequence over one blackboard.
// Turns are strictly sequential: within a round, Con always sees Pro's
// answer, never the other way around.
type Controller struct {
	pro    TurnRunner
	con    TurnRunner
	rounds int
	logger *observability.Logger
	chatID string
}

// NewController binds both role runners for one debate run. rounds is
// clamped to at least 1, so a misconfigured debate still argues once.
func NewController(pro, con TurnRunner, rounds int, logger *observability.Logger, chatID string) *Controller {
	if rounds < 1 {
		rounds = 1
	}
	return &Controller{
		pro:    pro,
		con:    con,
		rounds: rounds,
		logger: logger,
		chatID: chatID,
	}
}

// Rounds returns the effective (clamped) round count.
func (c *Controller) Rounds() int {
	return c.rounds
}

// Run executes all rounds, appending one Pro and one Con entry per round.
// A turn failure aborts the run and leaves the partial blackboard to be
// discarded by the caller.
func (c *Controller) Run(ctx context.Context, topic string, bb *Blackboard) error {
	for round := 1; round <= c.rounds; round++ {
		if err := c.turn(ctx, topic, round, RolePro, c.pro, bb); err != nil {
			return err
		}
		if err := c.turn(ctx, topic, round, RoleCon, c.con, bb); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) turn(ctx context.Context, topic string, round int, role Role, runner TurnRunner, bb *Blackboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prompt := turnPrompt(topic, role, bb)
	answer, err := runner.Run(ctx, prompt)
	if err != nil {
		return fmt.Errorf("round %d %s turn failed: %w", round, role, err)
	}

	if err := bb.Append(Entry{Round: round, Role: role, Text: answer}); err != nil {
		return err
	}
	c.logger.LogDebateTurn(c.chatID, round, string(role), answer)
	return nil
}

// turnPrompt composes the per-turn prompt: topic, stance, the full current
// blackboard marked reference-only, and the closing strongest-point
// instruction.
func turnPrompt(topic string, role Role, bb *Blackboard) string {
	var stance, closing string
	switch role {
	case RolePro:
		stance = "Argue strictly FOR the topic. Bring new, non-repeating points; use your tools when a claim needs verification."
		closing = "End with one sentence stating your strongest argument this round."
	case RoleCon:
		stance = "Argue strictly AGAINST the topic. Bring new, non-repeating points and rebut the pro side's entries on the blackboard; use your tools when a claim needs verification."
		closing = "End with one sentence stating your strongest rebuttal this round."
	}

	return fmt.Sprintf(
		"Debate topic: %s\n"+
			"Your task: %s\n"+
			"Shared blackboard (reference only, do not restate it):\n%s\n"+
			"Reply with concise bullet points. %s",
		topic, stance, bb.Render(), closing)
}
