// Package cli implements the lander command line: the HTTP server plus operator commands.
package cli

import (
	"fmt"

	"github.com/prometeylabs/lander/internal/app"
	"github.com/prometeylabs/lander/internal/config"
	"github.com/prometeylabs/lander/internal/database"
	"github.com/prometeylabs/lander/internal/pkg/nativelog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

// NewRootCmd builds the command tree. Running it without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lander",
		Short:         "Landing pages, visit tracking and lead capture",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, true)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "path to YAML config file")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateLandingPageCmd(),
		newLoadTemplatesCmd(),
		newCreateStaffCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.AppConfig) *zap.Logger {
	logger, err := nativelog.NewZapLogger(nativelog.Options{Dir: cfg.LogDir(), Dev: cfg.IsDev()})
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("file logging unavailable, falling back to stdout", zap.Error(err))
	}
	return logger
}

// runtime is what operator commands need: config, logger, database and services.
type runtime struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	db     *gorm.DB
	svc    *app.Services
}

func openRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	db, err := database.Connect(cfg, false)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("database: %w", err)
	}
	svc, err := app.NewServices(db, cfg, logger)
	if err != nil {
		_ = database.Close(db)
		_ = logger.Sync()
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (r *runtime) Close() {
	r.svc.Close()
	_ = database.Close(r.db)
	_ = r.logger.Sync()
}
