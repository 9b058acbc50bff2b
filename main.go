package main

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tabvc/tabvc/internal/app"
	"github.com/tabvc/tabvc/internal/cdc_emitter"
	"github.com/tabvc/tabvc/internal/config"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/metrics"
	"github.com/tabvc/tabvc/internal/server"
	"github.com/tabvc/tabvc/internal/server/grpc"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"os"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tabvc",
	Short:         "Versioned spreadsheet operations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the optional gRPC API and the change feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		application, err := initialize(cfg)
		if err != nil {
			return err
		}
		return application.Run(cmd.Context())
	},
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, applyCmd, parseCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("tabvc failed")
	}
}

func initialize(cfg *config.Config) (*app.App, error) {
	var deps []app.Dependency

	reg := metrics.New()

	tr, err := translator.New(&translator.Config{
		BaseURL: cfg.Translator.BaseURL,
		Model:   cfg.Translator.Model,
		APIKey:  cfg.Translator.APIKey,
		Timeout: cfg.Translator.Timeout,
	})
	if err != nil {
		return nil, err
	}

	engineCfg := &engine.Config{
		Store:               storage.New(),
		Translator:          tr,
		Metrics:             reg,
		DefaultPreviewLimit: cfg.Preview.DefaultLimit,
		MaxPreviewLimit:     cfg.Preview.MaxLimit,
	}

	// the change feed broadcasts every commit to TCP subscribers
	if cfg.CDC.Enabled {
		cdcEmitter, err := cdc_emitter.New(&cdc_emitter.Config{
			Port:    cfg.CDC.Port,
			Address: cfg.CDC.Address,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, cdcEmitter)
		engineCfg.ChangeFeed = cdcEmitter
	}

	eng, err := engine.New(engineCfg)
	if err != nil {
		return nil, err
	}

	if cfg.GRPC.Enabled {
		grpcServer, err := grpc.NewServer(&grpc.Config{
			Address:   cfg.GRPC.Address,
			Port:      cfg.GRPC.Port,
			Workbooks: eng,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, grpcServer)
	}

	srv, err := server.New(&server.Config{
		Address: cfg.HTTP.Address,
		Port:    cfg.HTTP.Port,
		Service: eng,
		Metrics: reg.Handler(),
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	return app.CreateApp(&app.Config{
		ServiceName: cfg.ServiceName,
		StopTimeout: cfg.StopTimeout,
		Debug:       cfg.Debug,
	}, deps...)
}
