package formflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/pkg/domain"
)

// ErrStuck is returned when a session reaches a node it cannot leave.
var ErrStuck = errors.New("session cannot advance")

// Runner handles the question loop of an Engine over line-based IO.
// This allows for easy testing and integration with different frontends (CLI, pipes, tests).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner() *Runner {
	return &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
	}
}

// Run asks questions until the session terminates, gets stuck or input ends.
// If state is nil a new session is started. The returned state is the last one
// reached, also when an error is returned.
func (r *Runner) Run(ctx context.Context, engine *Engine, state *domain.State) (*domain.State, error) {
	if r.Input == nil || r.Output == nil {
		return nil, fmt.Errorf("runner input and output must be set")
	}
	lineReader := bufio.NewReader(r.Input)

	if state == nil {
		var err error
		state, err = engine.Start(ctx, uuid.NewString())
		if err != nil {
			return nil, err
		}
	}

	lastRendered := ""
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		prompt, err := engine.Render(state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}

		if state.CurrentKey != lastRendered {
			r.print(tui.FormatPrompt(prompt))
			lastRendered = state.CurrentKey
		}

		var input string
		if prompt.NeedsInput() {
			if !r.Headless {
				fmt.Fprint(r.Output, "> ")
			}
			text, err := lineReader.ReadString('\n')
			if err != nil && (err != io.EOF || text == "") {
				if err == io.EOF {
					return state, io.ErrUnexpectedEOF
				}
				return state, fmt.Errorf("input error: %w", err)
			}
			input = strings.TrimSpace(text)

			if input == "exit" || input == "quit" {
				fmt.Fprintln(r.Output, "Bye!")
				return state, nil
			}
		}

		next, step, err := engine.Navigate(ctx, state, input)
		if err != nil {
			var mismatch *domain.TypeMismatchError
			if errors.Is(err, domain.ErrInvalidAnswer) || errors.As(err, &mismatch) {
				fmt.Fprintf(r.Output, "!! %v\n", err)
				continue
			}
			return state, fmt.Errorf("navigation error: %w", err)
		}
		state = next

		switch state.Status {
		case domain.StatusTerminated:
			return state, nil
		case domain.StatusStuck:
			return state, fmt.Errorf("%w: %s at %s", ErrStuck, step.Outcome, step.From)
		}
	}
}

func (r *Runner) print(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}
