package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	texthandler "github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/eathaven/backend/config"
	"github.com/eathaven/backend/internal/api"
	"github.com/eathaven/backend/internal/router"
	"github.com/eathaven/backend/internal/server"
	"github.com/eathaven/backend/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.WithError(err).Error("server exited")
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "eathaven-api",
		Usage:   "Suggest recipes from a photo of the fridge",
		Version: api.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to listen on (overrides SERVER_HOST)",
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides SERVER_PORT)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: fmt.Sprintf("Inference provider (supported values: %s, %s)", config.ProviderAnthropic, config.ProviderOpenAI),
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Model name (overrides LLM_MODEL)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides LOG_LEVEL)",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	err = cfg.ApplyOverrides(config.Overrides{
		Host:     cmd.String("host"),
		Port:     cmd.String("port"),
		Provider: cmd.String("provider"),
		Model:    cmd.String("model"),
		LogLevel: cmd.String("log-level"),
	})
	if err != nil {
		return err
	}

	if err := setupLogging(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	gin.SetMode(config.GinMode())

	client := newVisionClient(cfg)
	analysis := service.NewAnalysisService(client, cfg.MaxImageBytes)
	handler := api.NewAnalyzeHandler(analysis, cfg.Credential)

	if _, err := cfg.Credential(); err != nil {
		// Not fatal: requests report the missing key until it is provisioned.
		log.WithField("env", config.CredentialEnvVar(cfg.Provider)).Warn("upstream API key is not configured")
	}

	log.WithFields(log.Fields{
		"version":     api.Version,
		"environment": config.GetEnvironment(),
		"provider":    client.Provider(),
		"model":       cfg.Model,
		"addr":        cfg.Addr(),
	}).Info("starting eathaven api")

	srv := server.New(cfg, router.SetupRouter(handler))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func newVisionClient(cfg *config.Config) service.IVisionClient {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return service.NewOpenAIClient(cfg.APIURL, cfg.Model, cfg.MaxTokens, cfg.RequestTimeout)
	default:
		return service.NewAnthropicClient(cfg.APIURL, cfg.Model, cfg.MaxTokens, cfg.RequestTimeout)
	}
}

func setupLogging(w io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetHandler(jsonhandler.New(w))
	} else {
		log.SetHandler(texthandler.New(w))
	}
	return nil
}
