package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [form]",
	Short: "Answer a form interactively and write the filled document",
	Long:  `Asks the questions of a form in the terminal. When a final node is reached the answers are written to form<N>.pdf in the output directory.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		opts := cli.RunOptions{Form: "i589", Config: cfg}
		if len(args) > 0 {
			opts.Form = args[0]
		}
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.SessionID, _ = cmd.Flags().GetString("session")

		if err := cli.RunSession(context.Background(), opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no prompts)")
	runCmd.Flags().Bool("debug", false, "Log every transition and document write")
	runCmd.Flags().Bool("dry-run", false, "Keep the filled document in memory instead of calling pdftk")
	runCmd.Flags().String("session", "", "Session ID reported in logs (random by default)")

	rootCmd.Run = runCmd.Run
}
