package runtime

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// ParseAnswer converts terminal input into a value of the node's answer type.
//
//	BOOLEAN  y, yes, true, 1 / n, no, false, 0 (case insensitive)
//	NUMERIC  any finite decimal number
//	MULTI    comma separated options, by name or 1-based position
//	STRING   the trimmed input
//	NONE     input is ignored
func ParseAnswer(node domain.Node, raw string) (domain.Value, error) {
	clean := strings.TrimSpace(raw)

	switch node.Type {
	case domain.AnswerNone:
		return domain.Value{}, nil
	case domain.AnswerString:
		return domain.String(clean), nil
	case domain.AnswerBoolean:
		switch strings.ToLower(clean) {
		case "y", "yes", "true", "1":
			return domain.Bool(true), nil
		case "n", "no", "false", "0":
			return domain.Bool(false), nil
		}
		return domain.Value{}, fmt.Errorf("%w: '%s' (expected y/n/yes/no)", domain.ErrInvalidAnswer, raw)
	case domain.AnswerNumeric:
		n, err := strconv.ParseFloat(clean, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return domain.Value{}, fmt.Errorf("%w: '%s' is not a number", domain.ErrInvalidAnswer, raw)
		}
		return domain.Number(n), nil
	case domain.AnswerMulti:
		return parseSelection(node.Options, clean)
	}
	return domain.Value{}, fmt.Errorf("%w: %s", domain.ErrInvalidAnswerType, node.Type)
}

func parseSelection(options []string, input string) (domain.Value, error) {
	selected := []string{}
	if input == "" {
		return domain.Multi(selected...), nil
	}
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		opt, ok := matchOption(options, part)
		if !ok {
			return domain.Value{}, fmt.Errorf("%w: unknown option '%s' (expected one of %s)",
				domain.ErrInvalidAnswer, part, strings.Join(options, ", "))
		}
		if !slices.Contains(selected, opt) {
			selected = append(selected, opt)
		}
	}
	return domain.Multi(selected...), nil
}

func matchOption(options []string, input string) (string, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, true
		}
	}
	if i, err := strconv.Atoi(input); err == nil && i >= 1 && i <= len(options) {
		return options[i-1], true
	}
	return "", false
}

// checkAnswer enforces the type tag of the node on a submitted value.
func checkAnswer(node domain.Node, v domain.Value) error {
	want, _ := node.Type.Kind()
	if v.Kind != want {
		return &domain.TypeMismatchError{Field: node.Field, Want: want, Got: v.Kind}
	}
	if v.Kind == domain.KindMulti {
		for _, sel := range v.Multi {
			if !slices.Contains(node.Options, sel) {
				return fmt.Errorf("%w: unknown option '%s' for %s", domain.ErrInvalidAnswer, sel, node.Field)
			}
		}
	}
	return nil
}
