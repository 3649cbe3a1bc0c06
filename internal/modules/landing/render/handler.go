package render

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/middleware"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	TrackPath       = "/landing/track/"
	InteractionPath = "/landing/interaction/"
	SubmitPath      = "/landing/submit-form/"
)

var pixelHosts = []string{"https://www.googletagmanager.com", "https://connect.facebook.net"}

var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' " + strings.Join(pixelHosts, " "),
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data: " + strings.Join(pixelHosts, " ") + " https://www.google-analytics.com https://www.facebook.com",
	"connect-src 'self' " + strings.Join(pixelHosts, " ") + " https://www.google-analytics.com https://www.facebook.com",
	"frame-src 'self' " + strings.Join(pixelHosts, " "),
	"object-src 'none'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ")

// PageFinder resolves a slug to an active page, or (nil, nil).
type PageFinder interface {
	GetActiveBySlug(ctx context.Context, slug string) (*models.LandingPage, error)
}

// VisitRecorder stores the visit of a successful render.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, visitID string, page *models.LandingPage, ip, userAgent, referrer string) (*models.LandingPageVisit, error)
}

// RetiredSlugs tells which page a rotated-away slug used to address.
type RetiredSlugs interface {
	Owner(ctx context.Context, slug string) (string, error)
}

type Handler struct {
	pages    PageFinder
	visits   VisitRecorder
	retired  RetiredSlugs
	injector *Injector
	csrf     middleware.CSRFOptions
	log      *zap.Logger
}

func NewHandler(pages PageFinder, visits VisitRecorder, retired RetiredSlugs, injector *Injector, csrf middleware.CSRFOptions, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{pages: pages, visits: visits, retired: retired, injector: injector, csrf: csrf, log: log}
}

// RegisterRoutes mounts GET /:slug/ on the landing group behind limit.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.GET("/:slug/", limit, h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	page, err := h.pages.GetActiveBySlug(ctx, slug)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if page == nil {
		h.logRetired(ctx, slug)
		response.NotFoundMsg(c, "Landing page not found")
		return
	}

	visitID := models.NewID()
	html, err := h.injector.Render(page, TrackingContext{
		VisitID:        visitID,
		LandingPageID:  page.ID,
		CSRFToken:      middleware.EnsureCSRFCookie(c, h.csrf),
		TrackURL:       TrackPath,
		InteractionURL: InteractionPath,
		SubmitURL:      SubmitPath,
	})
	if err != nil {
		h.log.Error("landing render failed", zap.String("slug", slug), zap.Error(err))
		response.InternalError(c, err)
		return
	}

	if _, err := h.visits.RecordVisit(ctx, visitID, page, c.ClientIP(), c.Request.UserAgent(), c.Request.Referer()); err != nil {
		h.log.Error("record landing visit", zap.String("page_id", page.ID), zap.Error(err))
	}

	SetSecurityHeaders(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) logRetired(ctx context.Context, slug string) {
	if h.retired == nil {
		return
	}
	if owner, err := h.retired.Owner(ctx, slug); err == nil && owner != "" {
		h.log.Info("retired landing slug requested", zap.String("slug", slug), zap.String("page_id", owner))
	}
}

// SetSecurityHeaders applies the headers every rendered landing page carries.
func SetSecurityHeaders(c *gin.Context) {
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", contentSecurityPolicy)
	c.Header("Cache-Control", "no-store")
}
