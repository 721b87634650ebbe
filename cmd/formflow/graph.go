package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <form|file.yaml>",
	Short: "Export the questionnaire graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of a form's nodes and the rules linking them.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		s, err := loadSchema(args[0], cfg.TemplateDir)
		if err != nil {
			fmt.Printf("Error loading form: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.GraphOverlay
		if path, _ := cmd.Flags().GetStringSlice("path"); len(path) > 0 {
			overlay = &graph.GraphOverlay{VisitedNodes: path, CurrentNode: path[len(path)-1]}
		}

		fmt.Print(graph.GenerateMermaid(s.Nodes(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("path", nil, "Highlight visited node keys, the last one as current")
}
