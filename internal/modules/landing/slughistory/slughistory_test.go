package slughistory

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometeylabs/lander/internal/database/dbmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaken(t *testing.T) {
	ctx := context.Background()

	t.Run("live page", func(t *testing.T) {
		db, mock := dbmock.New(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages` WHERE slug = \\?").
			WithArgs("lp-aaaaaaaaaaaa").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		taken, err := NewService(db).Taken(ctx, nil, "lp-aaaaaaaaaaaa")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("retired", func(t *testing.T) {
		db, mock := dbmock.New(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_slug_history` WHERE slug = \\?").
			WithArgs("lp-bbbbbbbbbbbb").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		taken, err := NewService(db).Taken(ctx, nil, "lp-bbbbbbbbbbbb")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("free", func(t *testing.T) {
		db, mock := dbmock.New(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_pages`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_slug_history`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		taken, err := NewService(db).Taken(ctx, nil, "lp-cccccccccccc")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestOwner(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `landing_slug_history` WHERE slug = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "landing_page_id"}).
			AddRow("h-1", "lp-old000000000", "page-1"))
	mock.ExpectQuery("SELECT \\* FROM `landing_slug_history` WHERE slug = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "landing_page_id"}))

	svc := NewService(db)
	owner, err := svc.Owner(context.Background(), "lp-old000000000")
	require.NoError(t, err)
	assert.Equal(t, "page-1", owner)

	owner, err = svc.Owner(context.Background(), "lp-never")
	require.NoError(t, err)
	assert.Empty(t, owner)
}
