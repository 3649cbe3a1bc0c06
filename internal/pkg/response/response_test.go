package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOKKeepsStatusField(t *testing.T) {
	c, w := newContext()
	OK(c, gin.H{"status": "overwritten", "url": "/landing/lp-1/"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, "/landing/lp-1/", body["url"])
}

func TestTooManyRequestsRoundsRetryAfterUp(t *testing.T) {
	c, w := newContext()
	TooManyRequests(c, 1500*time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.True(t, c.IsAborted())
	assert.Equal(t, StatusError, decode(t, w)["status"])
}

func TestTooManyRequestsMinimumOneSecond(t *testing.T) {
	c, w := newContext()
	TooManyRequests(c, 0)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestInternalErrorHidesDetails(t *testing.T) {
	c, w := newContext()
	InternalError(c, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.Len(t, c.Errors, 1)
}

func TestPaged(t *testing.T) {
	c, w := newContext()
	Paged(c, "landing_pages", []string{"a"}, Pagination{Total: 1, CurrentPage: 1, TotalPage: 1, Size: 10})

	body := decode(t, w)
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Len(t, body["landing_pages"], 1)
	assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total"])
}
