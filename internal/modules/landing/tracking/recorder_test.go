package tracking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometeylabs/lander/internal/database/dbmock"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var visitColumns = []string{"id", "landing_page_id", "ip_address", "user_agent", "referrer", "visit_time",
	"time_spent", "path_data", "meta_data"}

type fixedCountry string

func (f fixedCountry) Country(string) string { return string(f) }

func visitRow(meta string) *sqlmock.Rows {
	return sqlmock.NewRows(visitColumns).AddRow("visit-1", "page-1", "203.0.113.9", chromeUA, "",
		time.Now(), 0, "{}", meta)
}

func TestRecordVisit(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `landing_page_visits`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec := NewRecorder(db, nil, fixedCountry("UA"), nil)
	longUA := chromeUA + strings.Repeat("x", 400)
	page := &models.LandingPage{Base: models.Base{ID: "page-1"}}

	visit, err := rec.RecordVisit(context.Background(), "visit-1", page, "203.0.113.9", longUA, strings.Repeat("r", 3000))
	require.NoError(t, err)
	assert.Equal(t, "visit-1", visit.ID)
	assert.Len(t, visit.UserAgent, MaxUserAgentLen)
	assert.Len(t, visit.Referrer, MaxReferrerLen)

	meta := visit.Meta()
	assert.Equal(t, "Chrome", meta["browser"])
	assert.Equal(t, "Windows", meta["os"])
	assert.Equal(t, "UA", meta["country"])
}

func TestUpdateTrackingSanitizesAndMerges(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(visitRow(`{"browser":"Chrome","screen":"800x600"}`))
	mock.ExpectExec("UPDATE `landing_page_visits` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moves := make([]interface{}, 0, 250)
	for i := 0; i < 250; i++ {
		moves = append(moves, map[string]interface{}{"x": float64(i), "y": 1.0, "label": "skip"})
	}

	visit, err := NewRecorder(db, nil, nil, nil).UpdateTracking(context.Background(), "visit-1", Update{
		TimeOnPage: "42",
		Metadata: map[string]interface{}{
			"x":               "<script>alert(1)</script>",
			"screen":          "1920x1080",
			"tags":            []interface{}{"<b>a</b>", 2.0},
			"nested":          map[string]interface{}{"k": "<i>v</i>", "deep": map[string]interface{}{}},
			"mouse_movements": moves,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, visit.TimeSpent)

	meta := visit.Meta()
	assert.Equal(t, "alert(1)", meta["x"])
	assert.Equal(t, "1920x1080", meta["screen"], "last write wins")
	assert.Equal(t, "Chrome", meta["browser"], "existing keys kept")
	assert.Equal(t, []interface{}{"a", "2"}, meta["tags"])
	assert.Equal(t, map[string]interface{}{"k": "v", "deep": sanitize.Unsupported}, meta["nested"])
	assert.NotContains(t, meta, "mouse_movements")

	require.Len(t, visit.PathData.MouseMovements, MaxPathSamples)
	assert.Equal(t, models.Sample{"x": 0, "y": 1}, visit.PathData.MouseMovements[0])
	assert.Nil(t, visit.PathData.ScrollPositions)
}

func TestUpdateTrackingCapsMetadata(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits`").WillReturnRows(visitRow(""))
	mock.ExpectExec("UPDATE `landing_page_visits` SET `meta_data`=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bag := map[string]interface{}{}
	for i := 0; i < 100; i++ {
		bag[fmt.Sprintf("field_%03d", i)] = strings.Repeat("v", 300)
	}

	visit, err := NewRecorder(db, nil, nil, nil).UpdateTracking(context.Background(), "visit-1", Update{Metadata: bag})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(visit.MetaData), MaxMetaBytes)
	assert.True(t, strings.HasSuffix(visit.MetaData, "..."))
	assert.Contains(t, visit.Meta(), "raw")
}

func TestUpdateTrackingRebuildsTruncatedMetadata(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits`").
		WillReturnRows(visitRow(`{"browser":"Chrome","field_000":"vvvv...`))
	mock.ExpectExec("UPDATE `landing_page_visits` SET `meta_data`=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	visit, err := NewRecorder(db, nil, fixedCountry("PL"), nil).UpdateTracking(context.Background(), "visit-1", Update{
		Metadata: map[string]interface{}{"screen": "390x844"},
	})
	require.NoError(t, err)

	meta, err := visit.DecodeMeta()
	require.NoError(t, err)
	assert.NotContains(t, meta, "raw")
	assert.Equal(t, "Chrome", meta["browser"])
	assert.Equal(t, "Windows", meta["os"])
	assert.Equal(t, "PL", meta["country"])
	assert.Equal(t, "390x844", meta["screen"])
}

func TestUpdateTrackingIgnoresNonNumericTime(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits`").WillReturnRows(visitRow(""))
	mock.ExpectCommit()

	visit, err := NewRecorder(db, nil, nil, nil).UpdateTracking(context.Background(), "visit-1", Update{TimeOnPage: "soon"})
	require.NoError(t, err)
	assert.Equal(t, 0, visit.TimeSpent)
}

func TestUpdateTrackingUnknownVisit(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `landing_page_visits`").WillReturnRows(sqlmock.NewRows(visitColumns))
	mock.ExpectRollback()

	_, err := NewRecorder(db, nil, nil, nil).UpdateTracking(context.Background(), "nope", Update{TimeOnPage: 3.0})
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestRecordInteractionCoercesUnknownType(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits` WHERE id = \\?").
		WithArgs("visit-1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `landing_page_interactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	it, err := NewRecorder(db, nil, nil, nil).RecordInteraction(context.Background(), "visit-1", "bogus",
		"<b>cta</b>"+strings.Repeat("x", 200), "BUTTON")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionClick, it.InteractionType)
	assert.Len(t, it.ElementID, MaxElementIDLen)
	assert.True(t, strings.HasPrefix(it.ElementID, "ctax"))
	assert.Equal(t, "BUTTON", it.ElementType)
}

func TestRecordInteractionUnknownVisit(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_visits`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := NewRecorder(db, nil, nil, nil).RecordInteraction(context.Background(), "nope", "click", "", "")
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
		ok   bool
	}{
		{12.0, 12, true},
		{12.9, 12, true},
		{"7", 7, true},
		{" 8.5 ", 8, true},
		{"abc", 0, false},
		{-1.0, 0, false},
		{true, 0, false},
		{map[string]interface{}{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSeconds(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
