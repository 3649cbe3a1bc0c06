package pagetemplate

import (
	"context"
	"errors"
	"strings"

	"github.com/prometeylabs/lander/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageIDVariable is filled with the new page's id unless the caller supplies it.
const PageIDVariable = "landing_page_id"

var (
	ErrNotFound  = errors.New("template not found")
	ErrNameTaken = errors.New("template name already exists")
)

// PageInserter stores a fully built landing page and assigns its slug.
type PageInserter interface {
	Insert(ctx context.Context, p *models.LandingPage) error
}

type Service struct {
	db    *gorm.DB
	pages PageInserter
	log   *zap.Logger
}

func NewService(db *gorm.DB, pages PageInserter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, pages: pages, log: log}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]models.LandingPageTemplate, error) {
	tx := s.db.WithContext(ctx).Model(&models.LandingPageTemplate{})
	if !includeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	var out []models.LandingPageTemplate
	return out, tx.Order("name ASC").Find(&out).Error
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.LandingPageTemplate, error) {
	var t models.LandingPageTemplate
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateTemplateDTO) (*models.LandingPageTemplate, error) {
	t := models.LandingPageTemplate{
		Name:               strings.TrimSpace(dto.Name),
		Description:        dto.Description,
		HTMLTemplate:       dto.HTMLTemplate,
		CSSContent:         dto.CSSContent,
		JSContent:          dto.JSContent,
		AvailableVariables: dto.AvailableVariables,
		IsActive:           true,
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, t.Name, ""); err != nil {
		return nil, err
	}
	return &t, s.db.WithContext(ctx).Create(&t).Error
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateTemplateDTO) (*models.LandingPageTemplate, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil || t == nil {
		return t, err
	}

	var cols []string
	if dto.Name != nil && strings.TrimSpace(*dto.Name) != t.Name {
		name := strings.TrimSpace(*dto.Name)
		if err := s.ensureNameFree(ctx, name, t.ID); err != nil {
			return nil, err
		}
		t.Name = name
		cols = append(cols, "name")
	}
	if dto.Description != nil {
		t.Description = *dto.Description
		cols = append(cols, "description")
	}
	if dto.HTMLTemplate != nil {
		t.HTMLTemplate = *dto.HTMLTemplate
		cols = append(cols, "html_template")
	}
	if dto.CSSContent != nil {
		t.CSSContent = *dto.CSSContent
		cols = append(cols, "css_content")
	}
	if dto.JSContent != nil {
		t.JSContent = *dto.JSContent
		cols = append(cols, "js_content")
	}
	if dto.AvailableVariables != nil {
		t.AvailableVariables = *dto.AvailableVariables
		cols = append(cols, "available_variables")
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
		cols = append(cols, "is_active")
	}
	if len(cols) == 0 {
		return t, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(t).Select(cols).Updates(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// Instantiate builds a landing page from the template and stores it. Inactive templates are
// treated as missing.
func (s *Service) Instantiate(ctx context.Context, dto *InstantiateDTO) (*models.LandingPage, error) {
	t, err := s.GetByID(ctx, dto.TemplateID)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.IsActive {
		return nil, ErrNotFound
	}

	p := &models.LandingPage{
		Base:            models.Base{ID: models.NewID()},
		Title:           strings.TrimSpace(dto.Title),
		GooglePixelID:   strings.TrimSpace(dto.GooglePixelID),
		FacebookPixelID: strings.TrimSpace(dto.FacebookPixelID),
		MetaRobots:      strings.TrimSpace(dto.MetaRobots),
		IsActive:        true,
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}

	vars := make(map[string]interface{}, len(dto.Variables)+1)
	for k, v := range dto.Variables {
		vars[k] = v
	}
	if _, ok := vars[PageIDVariable]; !ok {
		vars[PageIDVariable] = p.ID
	}
	p.HTMLContent = Substitute(t.HTMLTemplate, vars)
	p.CSSContent = Substitute(t.CSSContent, vars)
	p.JSContent = Substitute(t.JSContent, vars)

	if err := s.pages.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("landing page created from template",
		zap.String("template", t.Name), zap.String("page_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// LoadDefaults stores every bundled template whose name is not taken yet.
func (s *Service) LoadDefaults(ctx context.Context) (created, skipped []string, err error) {
	defaults, err := Defaults()
	if err != nil {
		return nil, nil, err
	}
	for i := range defaults {
		t := defaults[i]
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.LandingPageTemplate{}).
			Where("name = ?", t.Name).Count(&count).Error; err != nil {
			return created, skipped, err
		}
		if count > 0 {
			skipped = append(skipped, t.Name)
			continue
		}
		if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
			return created, skipped, err
		}
		created = append(created, t.Name)
	}
	return created, skipped, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name, exceptID string) error {
	tx := s.db.WithContext(ctx).Model(&models.LandingPageTemplate{}).Where("name = ?", name)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrNameTaken
	}
	return nil
}
