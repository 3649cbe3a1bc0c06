package pagetemplate

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

// PageURL renders the public URL of a slug.
type PageURL func(slug string) string

type Handler struct {
	svc     *Service
	pageURL PageURL
}

func NewHandler(svc *Service, pageURL PageURL) *Handler {
	return &Handler{svc: svc, pageURL: pageURL}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staffMW gin.HandlerFunc) {
	g := rg.Group("/landing-page-templates", staffMW)
	g.GET("/", h.list)
	g.POST("/create/", h.create)
	g.POST("/create-page/", h.createPage)
	g.GET("/:id/", h.get)
	g.PUT("/:id/update/", h.update)
	g.PATCH("/:id/update/", h.update)
}

func (h *Handler) list(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	templates, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]templateResponse, len(templates))
	for i := range templates {
		items[i] = toResponse(&templates[i], false)
	}
	response.OK(c, gin.H{"templates": items})
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFoundMsg(c, "Template not found")
		return
	}
	response.OK(c, gin.H{"template": toResponse(t, true)})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Template created", "template": toResponse(t, true)})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if t == nil {
		response.NotFoundMsg(c, "Template not found")
		return
	}
	response.OK(c, gin.H{"message": "Template updated", "template": toResponse(t, true)})
}

func (h *Handler) createPage(c *gin.Context) {
	var dto InstantiateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Instantiate(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	url := h.pageURL(p.Slug)
	response.Created(c, gin.H{
		"message": "Landing page created from template",
		"landing_page": gin.H{
			"id":        p.ID,
			"title":     p.Title,
			"slug":      p.Slug,
			"is_active": p.IsActive,
			"url":       url,
		},
		"url": url,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Template not found")
	case errors.Is(err, ErrNameTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, models.ErrHTMLTooShort):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
