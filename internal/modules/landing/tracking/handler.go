package tracking

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

type trackDTO struct {
	VisitID    string                 `json:"visit_id"     binding:"required,max=36"`
	TimeOnPage interface{}            `json:"time_on_page"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type interactionDTO struct {
	VisitID    string `json:"visit_id"    binding:"required,max=36"`
	Type       string `json:"type"`
	ElementID  string `json:"element_id"`
	ElementTag string `json:"element_tag"`
}

type Handler struct{ rec *Recorder }

func NewHandler(rec *Recorder) *Handler { return &Handler{rec: rec} }

// RegisterRoutes mounts the tracking endpoints. GET on them answers 405.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, csrf, trackLimit, interactionLimit gin.HandlerFunc) {
	rg.POST("/track/", trackLimit, csrf, h.track)
	rg.POST("/interaction/", interactionLimit, csrf, h.interaction)
	rg.GET("/track/", response.MethodNotAllowed)
	rg.GET("/interaction/", response.MethodNotAllowed)
}

func (h *Handler) track(c *gin.Context) {
	var dto trackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid tracking payload")
		return
	}
	_, err := h.rec.UpdateTracking(c.Request.Context(), dto.VisitID, Update{
		TimeOnPage: dto.TimeOnPage,
		Metadata:   dto.Metadata,
	})
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			response.NotFoundMsg(c, "Visit not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *Handler) interaction(c *gin.Context) {
	var dto interactionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid interaction payload")
		return
	}
	it, err := h.rec.RecordInteraction(c.Request.Context(), dto.VisitID, dto.Type, dto.ElementID, dto.ElementTag)
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			response.NotFoundMsg(c, "Visit not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"interaction_id": it.ID, "interaction_type": it.InteractionType})
}
