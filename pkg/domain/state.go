package domain

// ExecutionStatus defines where a session stands in its questionnaire.
type ExecutionStatus string

const (
	StatusActive     ExecutionStatus = "active"     // Waiting for an answer
	StatusTerminated ExecutionStatus = "terminated" // Final node reached
	StatusStuck      ExecutionStatus = "stuck"      // No rule matched or the schema could not resolve a transition
)

// State is the per-session snapshot: where the session is and what it has answered.
// It lives only as long as the session; this module never persists it.
type State struct {
	SessionID  string          `json:"session_id"`
	Form       string          `json:"form,omitempty"`
	CurrentKey string          `json:"current_key"`
	Status     ExecutionStatus `json:"status"`
	Answers    Answers         `json:"answers"`

	// History records every node key visited, in order.
	History []string `json:"history,omitempty"`
}

// NewState creates a clean state starting at a specific node.
func NewState(sessionID, startKey string) *State {
	return &State{
		SessionID:  sessionID,
		CurrentKey: startKey,
		Status:     StatusActive,
		Answers:    make(Answers),
		History:    []string{startKey},
	}
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = s.Answers.Clone()
	next.History = append([]string(nil), s.History...)
	return &next
}
