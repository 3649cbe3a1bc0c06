package pagetemplate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometeylabs/lander/internal/database/dbmock"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var templateColumns = []string{"id", "created_at", "updated_at", "name", "description", "html_template",
	"css_content", "js_content", "available_variables", "is_active"}

type recordingInserter struct {
	pages []*models.LandingPage
	err   error
}

func (r *recordingInserter) Insert(_ context.Context, p *models.LandingPage) error {
	if r.err != nil {
		return r.err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.Slug = "lp-000000000001"
	r.pages = append(r.pages, p)
	return nil
}

func templateRow(active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(templateColumns).AddRow("tpl-1", now, now, "Simple", "",
		"<html><body><h1>{{heading}}</h1><p>{{missing}}</p></body></html>",
		"h1{color:{{color}}}", "var id='{{landing_page_id}}';",
		`{"heading":"Main heading"}`, active)
}

func TestInstantiate(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `landing_page_templates` WHERE id = \\?").WillReturnRows(templateRow(true))

	pages := &recordingInserter{}
	svc := NewService(db, pages, nil)
	p, err := svc.Instantiate(context.Background(), &InstantiateDTO{
		TemplateID: "tpl-1",
		Title:      "Launch",
		Variables:  map[string]interface{}{"heading": "Hi", "color": "red", "unused": 1.0},
	})
	require.NoError(t, err)
	require.Len(t, pages.pages, 1)

	assert.Equal(t, "<html><body><h1>Hi</h1><p>{{missing}}</p></body></html>", p.HTMLContent)
	assert.Equal(t, "h1{color:red}", p.CSSContent)
	assert.Equal(t, "var id='"+p.ID+"';", p.JSContent)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, "lp-000000000001", p.Slug)
}

func TestInstantiateInactiveTemplate(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `landing_page_templates`").WillReturnRows(templateRow(false))

	pages := &recordingInserter{}
	_, err := NewService(db, pages, nil).Instantiate(context.Background(), &InstantiateDTO{TemplateID: "tpl-1", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, pages.pages)
}

func TestInstantiateMissingTemplate(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT \\* FROM `landing_page_templates`").WillReturnRows(sqlmock.NewRows(templateColumns))

	_, err := NewService(db, &recordingInserter{}, nil).Instantiate(context.Background(), &InstantiateDTO{TemplateID: "nope", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_templates` WHERE name = \\?").
		WithArgs("Simple").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := NewService(db, &recordingInserter{}, nil).Create(context.Background(), &CreateTemplateDTO{
		Name: "Simple", HTMLTemplate: "<html><body>{{x}}</body></html>",
	})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestDefaults(t *testing.T) {
	defaults, err := Defaults()
	require.NoError(t, err)
	require.Len(t, defaults, 2)

	simple := defaults[0]
	assert.Equal(t, "Simple Landing Page", simple.Name)
	assert.True(t, simple.IsActive)
	assert.Contains(t, simple.HTMLTemplate, "<h1>{{heading}}</h1>")
	assert.Contains(t, simple.CSSContent, "{{button_color}}")
	assert.Contains(t, simple.JSContent, "{{"+PageIDVariable+"}}")
	for _, name := range Placeholders(simple.HTMLTemplate + simple.CSSContent) {
		assert.Contains(t, simple.AvailableVariables, name, "undocumented placeholder %s", name)
	}
	assert.True(t, strings.HasPrefix(defaults[1].HTMLTemplate, "<!DOCTYPE html>"))
}

func TestLoadDefaultsSkipsExisting(t *testing.T) {
	db, mock := dbmock.New(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_templates` WHERE name = \\?").
		WithArgs("Simple Landing Page").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `landing_page_templates` WHERE name = \\?").
		WithArgs("Promotional Offer").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `landing_page_templates`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, skipped, err := NewService(db, &recordingInserter{}, nil).LoadDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Promotional Offer"}, created)
	assert.Equal(t, []string{"Simple Landing Page"}, skipped)
}
