package tracking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/database/dbmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTrackingRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	NewHandler(NewRecorder(db, nil, nil, nil)).RegisterRoutes(r.Group("/landing"), pass, pass, pass)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackingEndpointsRejectGet(t *testing.T) {
	db, _ := dbmock.New(t)
	r := newTrackingRouter(db)
	for _, path := range []string{"/landing/track/", "/landing/interaction/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestTrackRequiresVisitID(t *testing.T) {
	db, _ := dbmock.New(t)
	w := post(newTrackingRouter(db), "/landing/track/", `{"time_on_page": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackUnknownVisit(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits`").WillReturnRows(sqlmock.NewRows(visitColumns))
	mock.ExpectRollback()

	w := post(newTrackingRouter(db), "/landing/track/", `{"visit_id":"nope","time_on_page":5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInteractionRecorded(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `landing_page_interactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := post(newTrackingRouter(db), "/landing/interaction/",
		`{"visit_id":"visit-1","type":"scroll_deep","element_id":"hero","element_tag":"SECTION"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"interaction_type":"scroll_deep"`)
}
