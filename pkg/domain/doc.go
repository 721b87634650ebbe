/*
Package domain contains the core models of a formflow questionnaire.

It defines question nodes, their ordered transition rules, typed answers and the
per-session state. The package is pure: no I/O, no persistence, no globals.

# Key Entities

  - Node: one question, with its answer type, field and rules.
  - Rule: a predicate over the accumulated answers paired with a destination key.
  - Value / Answers: typed answers keyed by field name.
  - Step: the classified result of evaluating a node's rules.
  - State: where a session stands and what it has answered so far.
*/
package domain
