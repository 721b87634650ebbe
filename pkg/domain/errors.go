package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidAnswerType is returned when a node declares an answer type outside the supported set.
var ErrInvalidAnswerType = errors.New("invalid answer type")

// ErrInvalidAnswer is returned when raw input cannot be read as the node's answer type.
var ErrInvalidAnswer = errors.New("invalid answer")

// ErrTypeMismatch is returned when a stored answer disagrees with the type a rule expects.
var ErrTypeMismatch = errors.New("answer type mismatch")

// ErrNoEvaluator is returned when an expression rule is evaluated without a condition evaluator.
var ErrNoEvaluator = errors.New("no condition evaluator configured")

// ErrUnknownForm is returned when a document type is not registered in the catalog.
var ErrUnknownForm = errors.New("unknown form")

// ErrNamespaceExhausted is returned when no free output name could be reserved.
var ErrNamespaceExhausted = errors.New("output namespace exhausted")

// ErrUnsupportedFormat is returned by fillers for output formats they cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// TypeMismatchError describes which field held the wrong kind of answer.
type TypeMismatchError struct {
	Field string
	Want  ValueKind
	Got   ValueKind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s answer, got %s", e.Field, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
