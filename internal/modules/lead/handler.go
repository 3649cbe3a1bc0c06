package lead

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/pagination"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

const (
	msgReceived      = "Thank you! Your request has been received."
	msgPartial       = "Your request has been received, but we could not send the notification. We will still get back to you."
	msgInvalidSubmit = "Please check the form fields and try again."
)

// LeadNotifier is satisfied by *Notifier.
type LeadNotifier interface {
	Notify(ctx context.Context, req *models.ContactRequest) error
}

type Handler struct {
	svc      *Service
	notifier LeadNotifier
}

func NewHandler(svc *Service, notifier LeadNotifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// FormGuards run in order before a public lead endpoint.
type FormGuards struct {
	Limit       gin.HandlerFunc
	CSRF        gin.HandlerFunc
	Idempotence gin.HandlerFunc
}

func (g FormGuards) chain(h gin.HandlerFunc) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	for _, mw := range []gin.HandlerFunc{g.Limit, g.CSRF, g.Idempotence} {
		if mw != nil {
			chain = append(chain, mw)
		}
	}
	return append(chain, h)
}

// RegisterLandingRoutes mounts POST /submit-form/ on the landing group.
func (h *Handler) RegisterLandingRoutes(landing *gin.RouterGroup, guards FormGuards) {
	landing.POST("/submit-form/", guards.chain(h.submitLanding)...)
	landing.GET("/submit-form/", response.MethodNotAllowed)
}

// RegisterFormRoutes mounts the site forms. guards maps a request type to its guards.
func (h *Handler) RegisterFormRoutes(rg *gin.RouterGroup, guards func(requestType string) FormGuards) {
	rg.POST("/contact/request/", guards(models.RequestContact).chain(h.contact)...)
	rg.POST("/builder/request/", guards(models.RequestBuilder).chain(h.builder)...)
	rg.POST("/promin/request/", guards(models.RequestPromin).chain(h.promin)...)
	rg.POST("/course/request/", guards(models.RequestCourse).chain(h.course)...)
}

// RegisterStaffRoutes mounts lead triage. staffMW must reject non-staff callers.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup, staffMW gin.HandlerFunc) {
	g := rg.Group("/contact-requests", staffMW)
	g.GET("/", h.list)
	g.GET("/:id/", h.get)
	g.PATCH("/:id/", h.update)
}

func (h *Handler) contact(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, msgInvalidSubmit)
		return
	}
	h.save(c, dto.toRequest())
}

func (h *Handler) builder(c *gin.Context) {
	var dto BuilderDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, msgInvalidSubmit)
		return
	}
	h.save(c, dto.toRequest())
}

func (h *Handler) promin(c *gin.Context) {
	var dto ProminDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, msgInvalidSubmit)
		return
	}
	h.save(c, dto.toRequest())
}

func (h *Handler) course(c *gin.Context) {
	var dto CourseDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, msgInvalidSubmit)
		return
	}
	h.save(c, dto.toRequest())
}

func (h *Handler) save(c *gin.Context, req *models.ContactRequest) {
	if err := h.svc.Create(c.Request.Context(), req); err != nil {
		response.InternalError(c, err)
		return
	}
	h.respond(c, req)
}

func (h *Handler) submitLanding(c *gin.Context) {
	var dto LandingSubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, msgInvalidSubmit)
		return
	}
	req, err := h.svc.SubmitLanding(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			response.NotFoundMsg(c, "Landing page not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	h.respond(c, req)
}

// respond reports success once the lead is stored, even when notifying staff failed.
func (h *Handler) respond(c *gin.Context, req *models.ContactRequest) {
	msg := msgReceived
	if h.notifier != nil {
		if err := h.notifier.Notify(c.Request.Context(), req); err != nil {
			msg = msgPartial
		}
	}
	response.Created(c, gin.H{"message": msg, "request_id": req.ID})
}

func (h *Handler) list(c *gin.Context) {
	lq := ListQuery{RequestType: c.Query("request_type")}
	if lq.RequestType != "" && !knownType(lq.RequestType) {
		response.BadRequest(c, "Unknown request_type")
		return
	}
	if raw := c.Query("is_processed"); raw != "" {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "is_processed must be a boolean")
			return
		}
		lq.IsProcessed = &processed
	}

	items, pag, err := h.svc.List(c.Request.Context(), lq, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, "contact_requests", items, pag)
}

func (h *Handler) get(c *gin.Context) {
	req, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if req == nil {
		response.NotFoundMsg(c, "Contact request not found")
		return
	}
	response.OK(c, gin.H{"contact_request": req})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "Contact request not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"contact_request": req})
}
