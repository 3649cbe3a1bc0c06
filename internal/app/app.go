package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/config"
	"github.com/prometeylabs/lander/internal/database"
	"github.com/prometeylabs/lander/internal/middleware"
	pkgcron "github.com/prometeylabs/lander/internal/pkg/cron"
	"github.com/prometeylabs/lander/internal/pkg/kvstore"
	"github.com/prometeylabs/lander/internal/pkg/ratelimit"
	pkgredis "github.com/prometeylabs/lander/internal/pkg/redis"
	"github.com/prometeylabs/lander/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	svc    *Services
	store  kvstore.Store
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → counter store → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}
	if err := validate.Register(); err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}

	db, err := database.Connect(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	store, rc := openStore(ctx, cfg, logger)

	svc, err := NewServices(db, cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		cfg:    cfg,
		db:     db,
		redis:  rc,
		svc:    svc,
		store:  store,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(),
	}
	router, err := app.buildRouter(ratelimit.New(store, logger.Named("ratelimit")))
	if err != nil {
		app.Shutdown()
		return nil, err
	}
	app.router = router

	registerMaintenanceJobs(app.sched, cfg, logger)
	go app.sched.Start(ctx)

	return app, nil
}

// openStore prefers redis for counters and idempotence keys and falls back to process memory.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (kvstore.Store, *pkgredis.Client) {
	if !cfg.Redis.Enable || strings.TrimSpace(cfg.RedisURL) == "" {
		logger.Info("redis disabled, using in-memory counter store")
		return kvstore.NewMemory(), nil
	}
	rc, err := pkgredis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory counter store", zap.Error(err))
		return kvstore.NewMemory(), nil
	}
	return kvstore.NewRedis(rc.Raw()), rc
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	a.svc.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}

func (a *App) secureCookies() bool {
	return strings.HasPrefix(strings.ToLower(a.cfg.SiteURL), "https://")
}

func (a *App) staffMiddleware() gin.HandlerFunc {
	return middleware.StaffOnly(a.svc.Tokens, a.svc.Auth)
}
