package nuke

import (
	"fmt"
	"strings"
)

// GateState is a state of the two-step confirmation gate.
type GateState string

const (
	GateIntent     GateState = "intent"
	GateIdentity   GateState = "identity"
	GateAuthorized GateState = "authorized"
	GateAborted    GateState = "aborted"
	GateMismatch   GateState = "mismatch"
)

// Gate is the confirmation state for one invocation. It is a value; Answer
// returns the next state and never mutates the receiver.
type Gate struct {
	Client string
	State  GateState
}

// NewGate starts a gate at the intent question.
func NewGate(client string) Gate {
	return Gate{Client: client, State: GateIntent}
}

// Prompt returns the question to ask in the current state.
func (g Gate) Prompt() string {
	switch g.State {
	case GateIntent:
		return fmt.Sprintf("Permanently delete everything for %q? Proceed? (yes/no): ", g.Client)
	case GateIdentity:
		return "Type the client name to confirm: "
	default:
		return ""
	}
}

// Terminal reports whether no further answers are accepted.
func (g Gate) Terminal() bool {
	return g.State != GateIntent && g.State != GateIdentity
}

// Answer applies one line of user input.
// Only the trailing line ending is stripped; anything else must match exactly.
func (g Gate) Answer(input string) Gate {
	answer := strings.TrimRight(input, "\r\n")
	switch g.State {
	case GateIntent:
		if answer == "yes" {
			g.State = GateIdentity
		} else {
			g.State = GateAborted
		}
	case GateIdentity:
		if answer == g.Client {
			g.State = GateAuthorized
		} else {
			g.State = GateMismatch
		}
	}
	return g
}
