package domain

// Outcome classifies the result of a transition.
type Outcome string

const (
	// OutcomeAdvance means a rule matched and Next names a registered node.
	OutcomeAdvance Outcome = "advance"
	// OutcomeTerminal means no rule matched on a final node; Next equals From.
	OutcomeTerminal Outcome = "terminal"
	// OutcomeExhausted means no rule matched on a non-final node; Next equals From.
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeNoTransition means the engine cannot proceed; Next is empty.
	OutcomeNoTransition Outcome = "no_transition"
)

// Reason explains an OutcomeNoTransition.
type Reason string

const (
	ReasonUnknownState       Reason = "unknown_state"
	ReasonInvalidDestination Reason = "invalid_destination"
)

// Step is the result of evaluating a node's rules.
type Step struct {
	From    string  `json:"from"`
	Next    string  `json:"next,omitempty"`
	Outcome Outcome `json:"outcome"`
	Reason  Reason  `json:"reason,omitempty"`

	// Rule is the index of the matching rule, -1 when none matched.
	Rule int `json:"rule"`

	// Target is the unresolved destination of an invalid transition.
	Target string `json:"target,omitempty"`
}

// Advanced reports whether a rule matched and resolved.
func (s Step) Advanced() bool {
	return s.Outcome == OutcomeAdvance
}
