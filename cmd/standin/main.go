// Command standin runs a standalone HTTP mock server from stub
// manifest files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	standin "github.com/standin-project/standin"
	"github.com/standin-project/standin/faker"
	"github.com/standin-project/standin/manifest"
	"github.com/standin-project/standin/server"
)

// config carries all settings. Environment variables provide defaults;
// command-line flags override them.
type config struct {
	Addr      string   `env:"STANDIN_ADDR" envDefault:":8080"`
	Manifests []string `env:"STANDIN_MANIFESTS"`
	LogLevel  string   `env:"STANDIN_LOG_LEVEL" envDefault:"info"`
	LogFormat string   `env:"STANDIN_LOG_FORMAT" envDefault:"text"`
	Seed      int64    `env:"STANDIN_SEED"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "standin: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parse(args)
	if err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	reg, err := standin.New(standin.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create registry: %w", err)
	}

	exp := faker.New(cfg.Seed)
	for _, path := range cfg.Manifests {
		stubs, err := manifest.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load manifest: %w", err)
		}
		if err := manifest.Apply(reg, stubs, exp); err != nil {
			return fmt.Errorf("failed to apply manifest %s: %w", path, err)
		}
		logger.Info("manifest loaded", "path", path, "stubs", len(stubs))
	}

	srv, err := server.New(server.Config{
		Addr:     cfg.Addr,
		Registry: reg,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// parse reads environment defaults, then applies command-line flags on
// top of them.
func parse(args []string) (*config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	flagSet := flag.NewFlagSet("standin", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), `standin - a standalone HTTP mock server.

Usage:
  standin [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Logging level: 'debug', 'info', 'warn', or 'error'.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format: 'text' or 'json'.")
	flagSet.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for dynamic value generation. 0 means random.")
	// The first flag occurrence replaces any paths from the environment,
	// so flags override it like every other setting.
	manifestFlagSeen := false
	flagSet.Func("manifest", "Path to a stub manifest file or directory. Repeatable.", func(v string) error {
		if !manifestFlagSeen {
			manifestFlagSeen = true
			cfg.Manifests = nil
		}
		cfg.Manifests = append(cfg.Manifests, v)
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger builds a slog.Logger from format and level names.
func newLogger(format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
