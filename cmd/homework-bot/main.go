// Package main is the entrypoint for the homework status bot.
//
// The bot polls the homework review API every RETRY_PERIOD and forwards status
// changes to a Telegram chat. This file handles the CLI surface and dependency
// wiring; the loop itself lives in internal/scheduler.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"homeworkbot/internal/config"
	"homeworkbot/internal/external"
	"homeworkbot/internal/logging"
	"homeworkbot/internal/notifier"
	"homeworkbot/internal/scheduler"
	"homeworkbot/internal/telemetry"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// newApp builds the CLI. Logs and command output go to out.
func newApp(out io.Writer) *cli.App {
	runFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "once",
			Usage: "Run a single poll iteration and exit",
		},
	}

	return &cli.App{
		Name:   "homework-bot",
		Usage:  "Forward homework review status changes to Telegram",
		Writer: out,
		Flags:  runFlags,
		Action: func(c *cli.Context) error {
			return runBot(c, out)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Start the poll loop (default)",
				Flags: runFlags,
				Action: func(c *cli.Context) error {
					return runBot(c, out)
				},
			},
			{
				Name:  "check-config",
				Usage: "Load and validate the configuration, then print it with secrets redacted",
				Action: func(c *cli.Context) error {
					return checkConfig(c, out)
				},
			},
		},
	}
}

// loadConfig resolves configuration with a bootstrap logger, so a missing
// token is reported at CRITICAL level before the configured level applies.
func loadConfig(ctx context.Context, out io.Writer) (*config.Config, error) {
	bootLogger := logging.New(out, "debug")
	provider := config.NewSSMProvider(os.Getenv("AWS_REGION"))

	cfg, err := config.LoadConfig(ctx, provider, bootLogger)
	if err != nil {
		// CheckTokens has already logged a missing token.
		var cfgErr *config.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Type != config.ErrMissingEnv {
			logging.Critical(ctx, bootLogger, "configuration load failed", "error", err)
		}
		return nil, err
	}
	return cfg, nil
}

func runBot(c *cli.Context, out io.Writer) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, out)
	if err != nil {
		return err
	}

	logger := logging.New(out, cfg.LogLevel)
	b := newBot(cfg, logger)

	logger.InfoContext(ctx, "homework bot starting",
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"env", cfg.Environment,
		"retry_period", cfg.Poller.RetryPeriod,
		"telemetry_addr", cfg.Telemetry.Addr,
	)

	if c.Bool("once") {
		outcome := b.poller.PollOnce(context.WithoutCancel(ctx))
		logger.InfoContext(ctx, "single poll finished", "outcome", outcome)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.poller.Run(gctx)
	})
	if b.server != nil {
		// The listener is optional; its failure must not stop the loop.
		g.Go(func() error {
			if err := b.server.ListenAndServe(gctx); err != nil {
				logger.ErrorContext(ctx, "telemetry listener stopped", "error", err)
			}
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		logger.ErrorContext(ctx, "homework bot stopped with error", "error", err)
		return err
	}
	logger.InfoContext(ctx, "homework bot stopped")
	return nil
}

func checkConfig(c *cli.Context, out io.Writer) error {
	cfg, err := loadConfig(c.Context, out)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// bot holds the wired components.
type bot struct {
	poller *scheduler.StatusPoller
	server *telemetry.Server
}

// newBot wires the review client, the Telegram sender, the notifier, the
// poll loop, and (when METRICS_ADDR is set) the telemetry listener.
func newBot(cfg *config.Config, logger *slog.Logger) *bot {
	userAgent := "homework-bot/" + cfg.Build.Version
	httpClient := &http.Client{Timeout: cfg.Practicum.Timeout}

	practicum := external.NewPracticumClient(
		external.NewBaseClient(httpClient, "practicum", userAgent),
		external.PracticumClientConfig{
			Token:    cfg.Practicum.Token,
			Endpoint: cfg.Practicum.Endpoint,
			Logger:   logger,
		},
	)
	telegram := external.NewTelegramSender(
		external.NewBaseClient(httpClient, "telegram", userAgent),
		external.TelegramSenderConfig{
			Token:       cfg.Telegram.Token,
			APIEndpoint: cfg.Telegram.APIEndpoint,
			Logger:      logger,
		},
	)

	metrics := telemetry.NewMetrics()

	n := notifier.New(notifier.Config{
		Messenger: telegram,
		ChatID:    cfg.Telegram.ChatID,
		Recorder:  metrics,
		Logger:    logger,
	})

	poller := scheduler.NewStatusPoller(scheduler.Config{
		Fetcher:  practicum,
		Notifier: n,
		Interval: cfg.Poller.RetryPeriod,
		Metrics:  metrics,
		Logger:   logger,
	})

	b := &bot{poller: poller}
	if cfg.Telemetry.Addr != "" {
		b.server = telemetry.NewServer(telemetry.ServerConfig{
			Addr:    cfg.Telemetry.Addr,
			Metrics: metrics,
			Source:  poller,
			Build: map[string]string{
				"version":    cfg.Build.Version,
				"commit":     cfg.Build.Commit,
				"build_time": cfg.Build.BuildTime,
			},
			Logger: logger,
		})
	}
	return b
}
