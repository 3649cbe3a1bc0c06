package page

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/pagination"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

type Handler struct {
	svc     *Service
	siteURL string
}

func NewHandler(svc *Service, siteURL string) *Handler {
	return &Handler{svc: svc, siteURL: siteURL}
}

// RegisterRoutes mounts the staff API. staffMW must reject non-staff callers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staffMW gin.HandlerFunc) {
	g := rg.Group("/landing-pages", staffMW)
	g.GET("/", h.list)
	g.POST("/create/", h.create)
	g.GET("/:id/", h.get)
	g.DELETE("/:id/", h.delete)
	g.PUT("/:id/update/", h.update)
	g.PATCH("/:id/update/", h.update)
	g.POST("/:id/generate-link/", h.generateLink)
	g.POST("/:id/status/", h.status)
	g.GET("/:id/stats/", h.stats)
}

// RegisterLinkRoute mounts GET /landing/generate-link/:id/ on the public landing group.
func (h *Handler) RegisterLinkRoute(landing *gin.RouterGroup, staffMW gin.HandlerFunc) {
	landing.GET("/generate-link/:id/", staffMW, h.generateLink)
}

func (h *Handler) list(c *gin.Context) {
	lq := ListQuery{Search: c.Query("search")}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "is_active must be a boolean")
			return
		}
		lq.IsActive = &active
	}

	pages, pag, err := h.svc.List(c.Request.Context(), lq, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]pageResponse, len(pages))
	for i := range pages {
		items[i] = toResponse(&pages[i], h.siteURL, false)
	}
	response.Paged(c, "landing_pages", items, pag)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Landing page not found")
		return
	}
	retired, err := h.svc.RetiredSlugs(c.Request.Context(), p.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"landing_page": toResponse(p, h.siteURL, true), "retired_slugs": retired})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":      "Landing page created",
		"landing_page": toResponse(p, h.siteURL, true),
		"url":          AbsoluteURL(h.siteURL, p.Slug),
	})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Landing page not found")
		return
	}
	response.OK(c, gin.H{"message": "Landing page updated", "landing_page": toResponse(p, h.siteURL, true)})
}

func (h *Handler) generateLink(c *gin.Context) {
	p, err := h.svc.Rotate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":         "New link generated",
		"landing_page_id": p.ID,
		"slug":            p.Slug,
		"url":             AbsoluteURL(h.siteURL, p.Slug),
	})
}

func (h *Handler) status(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "action must be activate or deactivate")
		return
	}
	active := dto.Action == "activate"
	p, err := h.svc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Landing page deactivated"
	if active {
		msg = "Landing page activated"
	}
	response.OK(c, gin.H{"message": msg, "landing_page_id": p.ID, "is_active": p.IsActive})
}

func (h *Handler) stats(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Landing page not found")
		return
	}
	st, err := h.svc.Stats(c.Request.Context(), p.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"landing_page_id": p.ID, "stats": st})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, "Landing page deleted")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Landing page not found")
	case errors.Is(err, models.ErrHTMLTooShort):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
