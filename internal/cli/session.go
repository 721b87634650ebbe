package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Form      string
	Config    config.Config
	SessionID string
	Headless  bool
	Debug     bool
	DryRun    bool

	// Input and Output default to Stdin and Stdout.
	Input  io.Reader
	Output io.Writer
}

// RunSession asks the questions of one form and writes the filled document
// when the session reaches a final node.
func RunSession(ctx context.Context, opts RunOptions) error {
	level, err := opts.Config.Level()
	if err != nil {
		return err
	}
	logger := CreateLogger(opts.Debug, level)

	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	backend := NewBackend(opts.Config, opts.DryRun, logger)
	defer backend.Close()

	var hooks domain.LifecycleHooks
	if opts.Debug {
		hooks = DebugHooks(logger)
	}
	engine, err := NewEngine(opts.Form, opts.Config, backend, logger, hooks)
	if err != nil {
		return fmt.Errorf("error initializing formflow: %w", err)
	}

	r := &formflow.Runner{Input: in, Output: out, Headless: opts.Headless}
	if !opts.Headless {
		tui.PrintBanner(out, formflow.Version)
		if f, ok := out.(*os.File); ok && tui.IsInteractive(f) {
			r.Renderer = tui.NewRenderer()
		}
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	state, err := engine.Start(sigCtx, opts.SessionID)
	if err != nil {
		return err
	}
	logger.Debug("Session Created", "session_id", opts.SessionID, "form", opts.Form)

	final, runErr := r.Run(sigCtx, engine, state)
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	if final == nil {
		final = state
	}

	if !opts.Headless {
		logCompletion(out, final.CurrentKey, runErr, sigCtx.Signal())
	}
	if runErr != nil || final.Status != domain.StatusTerminated {
		return handleExecutionError(runErr)
	}

	name, err := engine.Materialize(sigCtx, final)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if opts.DryRun {
		printSystemMessage(out, "Dry run: document %s was not stored.", name)
	} else {
		printSystemMessage(out, "Document written to %s", filepath.Join(opts.Config.OutputDir, name))
	}
	return nil
}
