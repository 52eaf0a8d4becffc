package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/config"
	"github.com/opsdesk/deskctl/internal/log"
	"github.com/opsdesk/deskctl/internal/token"
)

// appEnv bundles the wired dependencies every command needs: configuration,
// logger, credential store, and the platform client.
type appEnv struct {
	cfg    config.Config
	logger *log.Logger
	tokens token.Store
	client *api.Client
}

// newAppEnv loads configuration and wires the shared dependencies
func newAppEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Level = log.LevelDebug
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		logCfg.Level = log.LevelError
	}

	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	tokens := token.NewFileStore(filepath.Join(config.Home(), "credentials.json"), logger)
	client := api.NewClient(cfg.APIURL, cfg.Timeout(), tokens, api.WithLogger(logger))

	return &appEnv{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
		client: client,
	}, nil
}
