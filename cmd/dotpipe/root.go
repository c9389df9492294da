package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dotpipe",
	Short: "dotPipe is an inline macro pipeline interpreter for documents",
	Long: `dotPipe interprets pipe-delimited macro strings carried in document
node attributes, executing them against an in-memory document tree.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("page", "", "Path to a page definition file, or a loam content repository")
	rootCmd.PersistentFlags().String("page-id", "index", "Page id to load when the page path is a repository")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default dotpipe.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
