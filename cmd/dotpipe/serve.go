package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dotpipe/dotpipe"
	httpAdapter "github.com/dotpipe/dotpipe/pkg/adapters/http"
	"github.com/dotpipe/dotpipe/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [page]",
	Short: "Start the HTTP server",
	Long: `Loads a page definition and exposes it over HTTP: a JSON API for
triggering entries, the rendered page, and a mutation event stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := createLogger(cmd)

		collector := observability.NewCollector()
		registry := prometheus.NewRegistry()
		if err := registry.Register(collector); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		engine, cfg, err := createEngine(cmd, args, dotpipe.WithHooks(collector.Hooks()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		apiServer, err := httpAdapter.NewServer(engine, engine.Tree(), httpAdapter.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer apiServer.Close()

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/", apiServer)

		listen := cfg.Listen
		if flagListen, _ := cmd.Flags().GetString("listen"); cmd.Flags().Changed("listen") {
			listen = flagListen
		}

		srv := &http.Server{
			Addr:    listen,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting dotPipe server on %s\n", srv.Addr)
			if title := engine.Tree().Title; title != "" {
				fmt.Printf("Serving page: %s\n", title)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("dotPipe server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", ":8080", "Address to listen on")
}
