package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotpipe/dotpipe"
	"github.com/dotpipe/dotpipe/internal/config"
	"github.com/dotpipe/dotpipe/internal/logging"
	"github.com/dotpipe/dotpipe/pkg/adapters/httpfetch"
	"github.com/dotpipe/dotpipe/pkg/adapters/redis"
)

func createLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// pagePath resolves the page definition path: the --page flag wins, then a
// positional argument, then the config file.
func pagePath(cmd *cobra.Command, args []string, cfg config.Config) (string, error) {
	if path, _ := cmd.Flags().GetString("page"); path != "" {
		return path, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Page != "" {
		return cfg.Page, nil
	}
	return "", fmt.Errorf("no page given: pass a path, use --page, or set page in %s", config.DefaultFile)
}

// createEngine loads the page file and builds an engine with the shared
// wiring: structured logger, HTTP fetcher for ajax, and the redis scope
// store when configured.
func createEngine(cmd *cobra.Command, args []string, extra ...dotpipe.Option) (*dotpipe.Engine, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}

	path, err := pagePath(cmd, args, cfg)
	if err != nil {
		return nil, cfg, err
	}

	opts := []dotpipe.Option{
		dotpipe.WithLogger(createLogger(cmd)),
		dotpipe.WithFetcher(httpfetch.New()),
	}
	opts = append(opts, extra...)
	if cfg.Redis.Address != "" {
		var storeOpts []redis.Option
		if cfg.Redis.TTLSeconds > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(time.Duration(cfg.Redis.TTLSeconds)*time.Second))
		}
		store := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		opts = append(opts, dotpipe.WithScopeStore(store))
	}

	// A directory is a loam content repository; a file is a bare page
	// definition.
	info, err := os.Stat(path)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to read page %s: %w", path, err)
	}
	if info.IsDir() {
		pageID, _ := cmd.Flags().GetString("page-id")
		engine, err := dotpipe.FromRepo(cmd.Context(), path, pageID, opts...)
		if err != nil {
			return nil, cfg, fmt.Errorf("failed to load page %s from %s: %w", pageID, path, err)
		}
		return engine, cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to read page %s: %w", path, err)
	}
	engine, err := dotpipe.FromDefinition(raw, opts...)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load page %s: %w", path, err)
	}
	return engine, cfg, nil
}
