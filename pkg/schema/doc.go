// Package schema holds the ordered question set of one document type and the
// engine that moves a session between its nodes.
//
// A Schema is built once and shared. Transition is a pure function of the
// current key and the answer record:
//
//	s, err := schema.New("intake", nodes)
//	if err != nil {
//	    // duplicate key or unknown answer type
//	}
//
//	step, err := s.Transition(ctx, "hasSpouse", domain.Answers{
//	    "hasSpouse": domain.Bool(true),
//	})
//	if err == nil && step.Advanced() {
//	    next := step.Next
//	}
//
// Validate performs the structural checks used by the validate command.
package schema
