package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List the supported forms",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		reg, err := catalog.Default(cfg.TemplateDir)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTEMPLATE")
		for _, f := range reg.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Title, f.Template)
		}
		_ = w.Flush()
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <form>",
	Short: "List the fillable fields of a form's template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		level, err := cfg.Level()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)
		backend := cli.NewBackend(cfg, false, logger)
		defer backend.Close()

		engine, err := cli.NewEngine(args[0], cfg, backend, logger, domain.LifecycleHooks{})
		if err != nil {
			fmt.Printf("Error initializing formflow: %v\n", err)
			os.Exit(1)
		}

		fields, err := engine.Fields(context.Background())
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", engine.Form().Template, err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tOPTIONS")
		for _, f := range fields {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Type, strings.Join(f.Options, ", "))
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formsCmd)
	rootCmd.AddCommand(fieldsCmd)
}
