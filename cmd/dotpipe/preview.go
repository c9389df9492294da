package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dotpipe/dotpipe"
	"github.com/dotpipe/dotpipe/internal/presentation/tui"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview [page]",
	Short: "Render a page in the terminal",
	Long: `Loads a page definition and prints a terminal preview of it. On a
TTY the page is rendered as styled ANSI output; otherwise plain markdown
is written, so the output can be piped.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := createEngine(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		if entries, _ := cmd.Flags().GetStringSlice("fire"); len(entries) > 0 {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			for _, id := range entries {
				if err := engine.Run(ctx, id); err != nil {
					fmt.Fprintf(os.Stderr, "Error running %s: %v\n", id, err)
					os.Exit(1)
				}
			}
		}

		markdown := tui.PageMarkdown(engine.Tree())

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(markdown)
			return
		}

		tui.PrintBanner(dotpipe.Version)
		render := tui.NewRenderer()
		out, err := render(markdown)
		if err != nil {
			// Styled rendering failed, the raw markdown is still usable.
			fmt.Print(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringSlice("fire", nil, "Entries to run before rendering")
}
