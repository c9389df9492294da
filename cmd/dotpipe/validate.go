package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotpipe/dotpipe/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [page]",
	Short: "Check the page's macros for consistency",
	Long: `Lints every macro on the page: segments matching no grammatical
form, selectors that address nothing, and unbalanced shell delimiters.
The engine tolerates these at run time, so this catches what would
otherwise only show up as warnings in logs.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := createEngine(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		problems := validator.ValidatePage(engine.Tree())
		if len(problems) == 0 {
			fmt.Println("Page is valid! ✅")
			return
		}
		for _, p := range problems {
			fmt.Println(p)
		}
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
