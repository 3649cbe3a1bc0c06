package app

import (
	"context"
	"time"

	"github.com/prometeylabs/lander/internal/config"
	pkgcron "github.com/prometeylabs/lander/internal/pkg/cron"
	"github.com/prometeylabs/lander/internal/pkg/nativelog"
	"go.uber.org/zap"
)

const logRetention = 30 * 24 * time.Hour

// registerMaintenanceJobs registers the background housekeeping jobs.
func registerMaintenanceJobs(sched *pkgcron.Scheduler, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("cron")
	logDir := cfg.LogDir()

	sched.Register(pkgcron.Job{
		Name:        "prune_logs",
		Description: "Remove daily log files older than the retention window",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			w, err := nativelog.NewWriter(logDir)
			if err != nil {
				cronLogger.Warn("open log dir", zap.Error(err))
				return err
			}
			removed, err := w.Prune(logRetention)
			if err != nil {
				cronLogger.Warn("prune logs", zap.Error(err))
				return err
			}
			if removed > 0 {
				cronLogger.Info("pruned log files", zap.Int("removed", removed))
			}
			return nil
		},
	})
}
