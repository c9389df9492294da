package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotpipe/dotpipe/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [page]",
	Short: "Print the page's node tree as a Mermaid diagram",
	Long: `Loads a page definition and prints its node hierarchy as Mermaid
flowchart syntax. Nodes carrying macros are drawn as subroutines and
highlighted, so the interactive surface of a page is visible at a glance.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := createEngine(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		overlay := &graph.Overlay{Entries: engine.Entries()}
		fmt.Print(graph.GenerateMermaid(engine.Tree(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
