package lead

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/prometeylabs/lander/internal/database/dbmock"
	"github.com/prometeylabs/lander/internal/modules/landing/tracking"
	"github.com/prometeylabs/lander/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var leadColumns = []string{"id", "created_at", "updated_at", "name", "contact_method", "message", "request_type",
	"is_processed", "notes"}

func newService(db *gorm.DB) *Service {
	return NewService(db, tracking.NewRecorder(db, nil, nil, nil), nil)
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestSubmitLandingRecordsSubmitInteraction(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages` WHERE id = \\?").
		WithArgs("page-1").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `contact_requests`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("^SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits` WHERE id = \\?").
		WithArgs("visit-1").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `landing_page_interactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req, err := newService(db).SubmitLanding(context.Background(), &LandingSubmitDTO{
		LandingPageID: "page-1",
		Name:          "Olena",
		Contact:       "olena@example.com",
		Message:       "Call me",
		VisitID:       "visit-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "landing", req.RequestType)
	require.NotNil(t, req.LandingPageID)
	assert.Equal(t, "page-1", *req.LandingPageID)
}

func TestSubmitLandingUnknownVisitStillSavesLead(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `contact_requests`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("^SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits`").WillReturnRows(countRows(0))
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := newService(db).SubmitLanding(context.Background(), &LandingSubmitDTO{
		LandingPageID: "page-1", Name: "Olena", Contact: "@olena_k", VisitID: "gone",
	})
	assert.NoError(t, err)
}

func TestSubmitLandingInteractionFailureRollsBackToSavepoint(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `contact_requests`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("^SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits`").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `landing_page_interactions`").
		WillReturnError(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'element_id'"})
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req, err := newService(db).SubmitLanding(context.Background(), &LandingSubmitDTO{
		LandingPageID: "page-1", Name: "Olena", Contact: "@olena_k", VisitID: "visit-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
}

func TestSubmitLandingDeadlockFailsWholeSubmit(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `contact_requests`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("^SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits`").WillReturnRows(countRows(1))
	mock.ExpectExec("INSERT INTO `landing_page_interactions`").
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT sp").
		WillReturnError(&mysql.MySQLError{Number: 1305, Message: "SAVEPOINT does not exist"})
	mock.ExpectRollback()

	req, err := newService(db).SubmitLanding(context.Background(), &LandingSubmitDTO{
		LandingPageID: "page-1", Name: "Olena", Contact: "@olena_k", VisitID: "visit-1",
	})
	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, txAborted(err))
}

func TestSubmitLandingUnknownPage(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").WillReturnRows(countRows(0))
	mock.ExpectRollback()

	_, err := newService(db).SubmitLanding(context.Background(), &LandingSubmitDTO{
		LandingPageID: "missing", Name: "Olena", Contact: "@olena_k",
	})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestListFilters(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `contact_requests` WHERE request_type = \\? AND is_processed = \\?").
		WithArgs("course", false).WillReturnRows(countRows(0))
	mock.ExpectQuery("SELECT \\* FROM `contact_requests` WHERE request_type = \\? AND is_processed = \\? ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(leadColumns))

	processed := false
	items, pag, err := newService(db).List(context.Background(),
		ListQuery{RequestType: "course", IsProcessed: &processed}, pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), pag.Total)
}

func TestUpdateTriage(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `contact_requests` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(leadColumns).AddRow("req-1", time.Now(), time.Now(), "Olena", "@olena_k", "hi",
			"contact", false, ""))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `contact_requests` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	done, notes := true, "called back"
	req, err := newService(db).Update(context.Background(), "req-1", &UpdateDTO{IsProcessed: &done, Notes: &notes})
	require.NoError(t, err)
	assert.True(t, req.IsProcessed)
	assert.Equal(t, "called back", req.Notes)
}

func TestUpdateMissing(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `contact_requests`").WillReturnError(gorm.ErrRecordNotFound)

	done := true
	_, err := newService(db).Update(context.Background(), "nope", &UpdateDTO{IsProcessed: &done})
	assert.ErrorIs(t, err, ErrNotFound)
}
