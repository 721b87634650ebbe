package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <form|file.yaml>",
	Short: "Check a questionnaire for consistency",
	Long:  `Loads a form and reports dangling destinations, missing initial or final nodes, and nodes unreachable from the start.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		s, err := loadSchema(args[0], cfg.TemplateDir)
		if err == nil {
			err = s.Validate()
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Form %q is valid (%d nodes)\n", s.Name(), len(s.Nodes()))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
