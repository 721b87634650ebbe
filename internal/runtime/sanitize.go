package runtime

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/formflow/pkg/domain"
)

// DefaultMaxInputSize bounds a single raw answer in bytes.
const DefaultMaxInputSize = 4096

// SanitizeInput enforces the size limit, rejects invalid UTF-8 and strips
// control characters other than newline, tab and carriage return.
// Answers end up in document fields, so escape sequences never reach pdftk.
func SanitizeInput(input string, limit int) (string, error) {
	if limit > 0 && len(input) > limit {
		// Reject rather than truncate so the recorded answer is what was typed.
		return "", fmt.Errorf("%w: input of %d bytes exceeds limit of %d", domain.ErrInvalidAnswer, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: input contains invalid UTF-8 sequences", domain.ErrInvalidAnswer)
	}

	if !strings.ContainsFunc(input, isUnsafeControl) {
		return input, nil
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
