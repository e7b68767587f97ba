// Command eventbridge loads a notification config, wires its
// configured adapters, and runs the bus until interrupted.
//
// This is a minimal driver, not a full CLI: it has no subcommands and
// expects a finished config file. A real deployment is expected to
// embed the system package directly rather than shell out to this
// binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nugget/eventbridge/internal/adapter"
	"github.com/nugget/eventbridge/internal/buildinfo"
	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/system"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to notification config YAML")
	logLevel := flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	level, err := config.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("eventbridge exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sys, err := system.New(*cfg, logger)
	if err != nil {
		return fmt.Errorf("create notification system: %w", err)
	}

	adapters, closers, err := buildAdapters(context.Background(), cfg.Adapters)
	if err != nil {
		return fmt.Errorf("build adapters: %w", err)
	}
	defer closeAll(closers)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("eventbridge starting", "adapters", len(adapters))
	return sys.Start(ctx, adapters)
}

func buildAdapters(ctx context.Context, cfgs []config.AdapterConfig) ([]adapter.ChannelAdapter, []func() error, error) {
	var adapters []adapter.ChannelAdapter
	var closers []func() error

	for _, a := range cfgs {
		var built adapter.ChannelAdapter

		switch a.Type {
		case "webhook":
			built = adapter.NewWebhook(*a.Webhook)
		case "kafka":
			k := adapter.NewKafka(*a.Kafka)
			built = k
			closers = append(closers, k.Close)
		case "mqtt":
			m, err := adapter.NewMqtt(ctx, *a.Mqtt)
			if err != nil {
				return nil, closers, fmt.Errorf("mqtt adapter: %w", err)
			}
			built = m
			closers = append(closers, func() error { return m.Close(context.Background()) })
		default:
			return nil, closers, fmt.Errorf("unknown adapter type %q", a.Type)
		}

		if len(a.Filter) > 0 {
			built = &adapter.Filtered{ChannelAdapter: built, Filter: a.Filter}
		}
		adapters = append(adapters, built)
	}
	return adapters, closers, nil
}

func closeAll(closers []func() error) {
	for _, c := range closers {
		_ = c()
	}
}
