package debate

import (
	"fmt"
	"strings"
)

// Role identifies one of the two debate sides.
type Role string

const (
	RolePro Role = "pro"
	RoleCon Role = "con"
)

// emptyBlackboard is the fixed sentinel rendered when no turn has
// completed yet.
const emptyBlackboard = "(empty)"

// Entry is one completed turn. Entries are immutable once appended.
type Entry struct {
	Round int
	Role  Role
	Text  string
}

// Blackboard is the ordered, append-only log of turn outputs shared by
// both debate roles. One blackboard belongs to exactly one debate run and
// is only ever written between turns, so it needs no locking.
type Blackboard struct {
	entries []Entry
}

func NewBlackboard() *Blackboard {
	return &Blackboard{}
}

// Append adds an entry to the end of the log. A malformed entry is a
// precondition violation of the round controller, not a recoverable
// condition.
func (b *Blackboard) Append(e Entry) error {
	if e.Round < 1 {
		return fmt.Errorf("blackboard entry round must be >= 1, got %d", e.Round)
	}
	if e.Role != RolePro && e.Role != RoleCon {
		return fmt.Errorf("blackboard entry has unknown role %q", e.Role)
	}
	if e.Text == "" {
		return fmt.Errorf("blackboard entry text cannot be empty")
	}
	b.entries = append(b.entries, e)
	return nil
}

func (b *Blackboard) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the log in insertion order.
func (b *Blackboard) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Render produces the deterministic textual view embedded into turn
// prompts and the synthesis prompt: one line per entry, insertion order.
func (b *Blackboard) Render() string {
	if len(b.entries) == 0 {
		return emptyBlackboard
	}
	lines := make([]string, len(b.entries))
	for i, e := range b.entries {
		lines[i] = fmt.Sprintf("round %d·%s: %s", e.Round, e.Role, e.Text)
	}
	return strings.Join(lines, "\n")
}
