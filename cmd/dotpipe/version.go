package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotpipe/dotpipe"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dotpipe",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dotpipe version %s\n", strings.TrimSpace(dotpipe.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
