package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/config"
	"github.com/prometeylabs/lander/internal/middleware"
	"github.com/prometeylabs/lander/internal/modules/auth"
	"github.com/prometeylabs/lander/internal/modules/landing/page"
	"github.com/prometeylabs/lander/internal/modules/landing/pagetemplate"
	"github.com/prometeylabs/lander/internal/modules/landing/render"
	"github.com/prometeylabs/lander/internal/modules/landing/tracking"
	"github.com/prometeylabs/lander/internal/modules/lead"
	"github.com/prometeylabs/lander/internal/pkg/ratelimit"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	loginInterval = 12 * time.Second
	loginBurst    = 5
)

// newEngine builds a bare engine whose ClientIP honours X-Forwarded-For only from trusted proxies.
func newEngine(cfg *config.AppConfig) (*gin.Engine, error) {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	var proxies []string
	if len(cfg.TrustedProxies) > 0 {
		proxies = cfg.TrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return router, nil
}

func (a *App) buildRouter(limiter *ratelimit.Limiter) (*gin.Engine, error) {
	router, err := newEngine(a.cfg)
	if err != nil {
		return nil, err
	}
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.Logger(a.logger, "/healthz"))
	router.Use(corsMiddleware(a.cfg))

	router.NoRoute(response.NotFound)
	router.NoMethod(response.MethodNotAllowed)
	router.GET("/healthz", a.health)

	limits := a.cfg.RateLimits
	onLimited := middleware.LimitedFunc(a.svc.Bark.ThrottlePush)
	limit := func(spec string, key middleware.KeyFunc) gin.HandlerFunc {
		return middleware.RateLimit(limiter, spec, key, onLimited)
	}
	csrf := middleware.CSRF()
	idempotence := middleware.Idempotence(a.store)
	staff := a.staffMiddleware()
	siteURL := a.cfg.SiteURL

	pages := page.NewHandler(a.svc.Pages, siteURL)
	templates := pagetemplate.NewHandler(a.svc.Templates, func(slug string) string {
		return page.AbsoluteURL(siteURL, slug)
	})
	leads := lead.NewHandler(a.svc.Leads, a.svc.Notifier)
	renderer := render.NewHandler(a.svc.Pages, a.svc.Recorder, a.svc.History, render.NewInjector(),
		middleware.CSRFOptions{Secure: a.secureCookies()}, a.logger.Named("render"))

	landing := router.Group("/landing")
	tracking.NewHandler(a.svc.Recorder).RegisterRoutes(landing, csrf,
		limit(limits.LandingTrack, middleware.StaticKey("landing_track")),
		limit(limits.LandingInteraction, middleware.StaticKey("landing_interaction")))
	leads.RegisterLandingRoutes(landing, lead.FormGuards{
		Limit:       limit(limits.LandingSubmit, middleware.StaticKey("landing_submit")),
		CSRF:        csrf,
		Idempotence: idempotence,
	})
	pages.RegisterLinkRoute(landing, staff)
	renderer.RegisterRoutes(landing, limit(limits.LandingView, middleware.ParamKey("landing_view", "slug")))

	leads.RegisterFormRoutes(router.Group(""), func(requestType string) lead.FormGuards {
		return lead.FormGuards{
			Limit:       limit(limits.SiteForms, middleware.StaticKey(requestType+"_form")),
			CSRF:        csrf,
			Idempotence: idempotence,
		}
	})

	api := router.Group("/api")
	api.GET("/csrf/", a.csrfToken)
	auth.NewHandler(a.svc.Auth, a.secureCookies()).RegisterRoutes(api,
		middleware.Auth(a.svc.Tokens, a.svc.Auth),
		middleware.NewLoginThrottle(loginInterval, loginBurst).Middleware())
	pages.RegisterRoutes(api, staff)
	templates.RegisterRoutes(api, staff)
	leads.RegisterStaffRoutes(api, staff)

	return router, nil
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.logger.Error("health check failed", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.OK(c, nil)
}

func (a *App) csrfToken(c *gin.Context) {
	token := middleware.EnsureCSRFCookie(c, middleware.CSRFOptions{Secure: a.secureCookies()})
	c.Header("Cache-Control", "no-store")
	response.OK(c, gin.H{"csrf_token": token})
}
