package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/metrics"
	formhttp "github.com/aretw0/formflow/pkg/adapters/http"
	"github.com/aretw0/formflow/pkg/catalog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long:  `Exposes the form catalog over a JSON API: transitions are computed from posted answers and finished answer sets are written as documents.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if err := runServer(cfg); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}

func runServer(cfg config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := logging.NewJSON(os.Stderr, level)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	forms, err := catalog.Default(cfg.TemplateDir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	backend := cli.NewBackend(cfg, false, logger)
	defer backend.Close()

	handler, err := formhttp.NewHandler(forms, backend.MaterializerFactory(m.Hooks(), logger),
		formhttp.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		formhttp.WithLifecycleHooks(m.Hooks()),
		formhttp.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Starting formflow server", "addr", srv.Addr, "output", cfg.OutputDir, "templates", cfg.TemplateDir)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case sig := <-shutdown:
		logger.Info("Start shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("Formflow server stopped gracefully")
		return nil
	}
}
