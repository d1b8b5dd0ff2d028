// Package cli implements the command-line interface for common-items.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/retailops/common-items/pkg/config"
	"github.com/retailops/common-items/pkg/dbpool"
	"github.com/retailops/common-items/pkg/logging"
	"github.com/retailops/common-items/pkg/output"
	"github.com/retailops/common-items/pkg/pipeline"
	"github.com/retailops/common-items/pkg/source"
)

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: common-items <command> [options]\ncommands: run")
	}

	switch args[0] {
	case "run":
		return runFind(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runFind(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cfgPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	debug := fs.Bool("debug", false, "enable debug logging")
	pretty := fs.Bool("pretty", false, "human-friendly console output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	verbose := *debug || cfg.Logging.Debug
	if cfg.Paths.LogDir != "" {
		if err := logging.InitWithFile(verbose, *pretty, cfg.Paths.LogDir); err != nil {
			return err
		}
	} else {
		logging.Init(verbose, *pretty)
	}

	ctx := context.Background()

	provider := dbpool.New(ctx, dbpool.Config{
		DSN:        cfg.DB.DSN,
		PoolSize:   cfg.Params.MaxConcurrency,
		MaxRetries: cfg.Params.MaxRetries,
		RetryDelay: cfg.RetryDelay(),
	})
	defer provider.Close()

	src := source.NewPG(provider)
	sink := output.NewFileSink(cfg.Paths.OutputDir, cfg.Output.Format)

	if _, err := pipeline.New(cfg, src, sink).Run(ctx); err != nil {
		return err
	}
	return nil
}
