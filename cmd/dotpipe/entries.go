package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// entriesCmd represents the entries command
var entriesCmd = &cobra.Command{
	Use:   "entries [page]",
	Short: "List the macro entries registered on a page",
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := createEngine(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ENTRY\tMACRO")
		for _, id := range engine.Entries() {
			if entry, ok := engine.Entry(id); ok {
				fmt.Fprintf(w, "%s\t%s\n", entry.NodeID, entry.Macro)
			}
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
}
