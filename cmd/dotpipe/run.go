package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [page] [entry...]",
	Short: "Load a page, trigger entries, and print the resulting document",
	Long: `Loads a page definition, runs the pipeline of each named entry in
order, and prints the mutated document. With no entry arguments every
registered entry runs once, in registration order.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := createEngine(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		entries := args
		if page, _ := cmd.Flags().GetString("page"); page == "" && len(entries) > 0 {
			entries = entries[1:] // first positional is the page path
		}
		if len(entries) == 0 {
			entries = engine.Entries()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for _, id := range entries {
			if err := engine.Run(ctx, id); err != nil {
				fmt.Fprintf(os.Stderr, "Error running %s: %v\n", id, err)
				os.Exit(1)
			}
		}

		if html, _ := cmd.Flags().GetBool("html"); html {
			fmt.Println(engine.Tree().RenderHTML())
			return
		}
		out, err := json.MarshalIndent(engine.Tree().Definition(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("html", false, "Print the document as HTML instead of JSON")
}
