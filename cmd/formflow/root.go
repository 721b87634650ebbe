package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "Formflow asks questionnaire flows and fills PDF forms",
	Long: `Formflow walks a questionnaire node by node, picking the next question from the
answers given so far, and writes the answers into a fillable PDF template.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags override the FORMFLOW_* environment
	rootCmd.PersistentFlags().String("output", "", "Directory receiving filled documents")
	rootCmd.PersistentFlags().String("templates", "", "Directory holding <form>.pdf templates")
	rootCmd.PersistentFlags().String("pdftk", "", "Path to the pdftk binary")
	rootCmd.PersistentFlags().String("redis", "", "Redis address used to claim output names")
	rootCmd.PersistentFlags().Int("lanes", 0, "Concurrent pdftk processes")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the environment and applies any flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("templates") {
		cfg.TemplateDir, _ = flags.GetString("templates")
	}
	if flags.Changed("pdftk") {
		cfg.Pdftk, _ = flags.GetString("pdftk")
	}
	if flags.Changed("redis") {
		cfg.RedisAddr, _ = flags.GetString("redis")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("lanes") {
		lanes, _ := flags.GetInt("lanes")
		if lanes < 1 {
			return cfg, fmt.Errorf("lanes must be at least 1, got %d", lanes)
		}
		cfg.Lanes = lanes
	}
	return cfg, nil
}
