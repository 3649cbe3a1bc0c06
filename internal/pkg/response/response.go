package response

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// OK sends a 200 success envelope merged with fields.
func OK(c *gin.Context, fields gin.H) {
	c.JSON(http.StatusOK, envelope(StatusSuccess, fields))
}

// Message sends a 200 success envelope carrying only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "message": message})
}

// Paged sends a 200 envelope with a named list and its pagination metadata.
func Paged(c *gin.Context, key string, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, key: data, "pagination": pagination})
}

// Created sends a 201 success envelope merged with fields.
func Created(c *gin.Context, fields gin.H) {
	c.JSON(http.StatusCreated, envelope(StatusSuccess, fields))
}

// Error aborts with an error envelope.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": StatusError, "message": message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Authentication required")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Access denied")
}

// ForbiddenMsg sends a 403 error with a custom message.
func ForbiddenMsg(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "Method not allowed")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// TooManyRequests sets Retry-After in whole seconds (at least one) and sends a 429.
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}

// InternalError hides err from the client; callers log it.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func envelope(status string, fields gin.H) gin.H {
	out := gin.H{"status": status}
	for key, value := range fields {
		if key == "status" {
			continue
		}
		out[key] = value
	}
	return out
}
