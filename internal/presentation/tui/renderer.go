package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/formflow/internal/runtime"
	"github.com/aretw0/formflow/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FormatPrompt renders a prompt as markdown.
func FormatPrompt(p runtime.Prompt) string {
	var sb strings.Builder
	if p.Context != "" {
		for _, line := range strings.Split(strings.TrimSpace(p.Context), "\n") {
			fmt.Fprintf(&sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}
	if p.Question != "" {
		fmt.Fprintf(&sb, "**%s**\n", p.Question)
	}

	switch p.Type {
	case domain.AnswerBoolean:
		sb.WriteString("\n_yes / no_\n")
	case domain.AnswerMulti:
		sb.WriteString("\n")
		for i, opt := range p.Options {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
		}
		sb.WriteString("\n_Choose one or more, separated by commas._\n")
	}
	if p.Placeholder != "" {
		fmt.Fprintf(&sb, "\n_e.g. %s_\n", p.Placeholder)
	}
	if sb.Len() == 0 {
		return p.Key
	}
	return sb.String()
}
