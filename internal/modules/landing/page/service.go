package page

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/modules/landing/slughistory"
	"github.com/prometeylabs/lander/internal/pkg/pagination"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("landing page not found")
	ErrSlugExhausted = errors.New("could not draw a free slug")
)

type Service struct {
	db      *gorm.DB
	history *slughistory.Service
	log     *zap.Logger
}

func NewService(db *gorm.DB, history *slughistory.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, history: history, log: log}
}

func (s *Service) List(ctx context.Context, lq ListQuery, q pagination.Query) ([]models.LandingPage, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.LandingPage{})
	if search := strings.TrimSpace(lq.Search); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("title LIKE ? OR html_content LIKE ? OR slug LIKE ?", like, like, like)
	}
	if lq.IsActive != nil {
		tx = tx.Where("is_active = ?", *lq.IsActive)
	}
	tx = tx.Order("created_at DESC")

	var pages []models.LandingPage
	pag, err := pagination.Paginate(tx, q, &pages)
	return pages, pag, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.LandingPage, error) {
	var p models.LandingPage
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetActiveBySlug returns the servable page for slug, or (nil, nil).
func (s *Service) GetActiveBySlug(ctx context.Context, slug string) (*models.LandingPage, error) {
	var p models.LandingPage
	if err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, dto *CreatePageDTO) (*models.LandingPage, error) {
	p := models.LandingPage{
		Title:           strings.TrimSpace(dto.Title),
		HTMLContent:     dto.HTMLContent,
		CSSContent:      dto.CSSContent,
		JSContent:       dto.JSContent,
		GooglePixelID:   strings.TrimSpace(dto.GooglePixelID),
		FacebookPixelID: strings.TrimSpace(dto.FacebookPixelID),
		MetaRobots:      strings.TrimSpace(dto.MetaRobots),
		IsActive:        true,
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}
	if err := s.Insert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert validates p, fills defaults, draws a slug and stores it.
func (s *Service) Insert(ctx context.Context, p *models.LandingPage) error {
	if p.MetaRobots == "" {
		p.MetaRobots = models.DefaultMetaRobots
	}
	if err := p.Validate(); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.freeSlug(ctx, tx)
		if err != nil {
			return err
		}
		p.Slug = slug
		return tx.Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("create landing page: %w", err)
	}
	s.log.Info("landing page created", zap.String("id", p.ID), zap.String("slug", p.Slug))
	return nil
}

// Update applies the supplied fields only.
func (s *Service) Update(ctx context.Context, id string, dto *UpdatePageDTO) (*models.LandingPage, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		p.Title = strings.TrimSpace(*dto.Title)
		updates["title"] = p.Title
	}
	if dto.HTMLContent != nil {
		p.HTMLContent = *dto.HTMLContent
		updates["html_content"] = p.HTMLContent
	}
	if dto.CSSContent != nil {
		p.CSSContent = *dto.CSSContent
		updates["css_content"] = p.CSSContent
	}
	if dto.JSContent != nil {
		p.JSContent = *dto.JSContent
		updates["js_content"] = p.JSContent
	}
	if dto.GooglePixelID != nil {
		p.GooglePixelID = strings.TrimSpace(*dto.GooglePixelID)
		updates["google_pixel_id"] = p.GooglePixelID
	}
	if dto.FacebookPixelID != nil {
		p.FacebookPixelID = strings.TrimSpace(*dto.FacebookPixelID)
		updates["facebook_pixel_id"] = p.FacebookPixelID
	}
	if dto.MetaRobots != nil {
		p.MetaRobots = strings.TrimSpace(*dto.MetaRobots)
		if p.MetaRobots == "" {
			p.MetaRobots = models.DefaultMetaRobots
		}
		updates["meta_robots"] = p.MetaRobots
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
		updates["is_active"] = p.IsActive
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Rotate gives the page a fresh slug. The previous slug stops resolving at once.
func (s *Service) Rotate(ctx context.Context, id string) (*models.LandingPage, error) {
	var p models.LandingPage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		slug, err := s.freeSlug(ctx, tx)
		if err != nil {
			return err
		}
		old := p.Slug
		if err := tx.Model(&p).Update("slug", slug).Error; err != nil {
			return err
		}
		p.Slug = slug
		return s.history.Retire(ctx, tx, old, p.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("landing page link rotated", zap.String("id", p.ID), zap.String("slug", p.Slug))
	return &p, nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*models.LandingPage, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if err := s.db.WithContext(ctx).Model(p).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	p.IsActive = active
	return p, nil
}

// Delete removes the page with its visits, interactions and slug history.
// Leads captured on the page are kept and detached.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.LandingPage
		if err := tx.Select("id").First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		visits := tx.Model(&models.LandingPageVisit{}).Select("id").Where("landing_page_id = ?", id)
		if err := tx.Where("visit_id IN (?)", visits).Delete(&models.LandingPageInteraction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("landing_page_id = ?", id).Delete(&models.LandingPageVisit{}).Error; err != nil {
			return err
		}
		if err := s.history.DeleteForPage(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.ContactRequest{}).Where("landing_page_id = ?", id).
			Update("landing_page_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	db := s.db.WithContext(ctx)
	st := Stats{Interactions: map[string]int64{}}

	visits := db.Model(&models.LandingPageVisit{}).Where("landing_page_id = ?", id)
	if err := visits.Session(&gorm.Session{}).Count(&st.Visits).Error; err != nil {
		return nil, err
	}
	if err := visits.Session(&gorm.Session{}).Select("COALESCE(AVG(time_spent), 0)").Scan(&st.AverageTimeSpent).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		InteractionType string
		Total           int64
	}
	if err := db.Model(&models.LandingPageInteraction{}).
		Select("landing_page_interactions.interaction_type, COUNT(*) AS total").
		Joins("JOIN landing_page_visits ON landing_page_visits.id = landing_page_interactions.visit_id").
		Where("landing_page_visits.landing_page_id = ?", id).
		Group("landing_page_interactions.interaction_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		st.Interactions[r.InteractionType] = r.Total
	}

	if err := db.Model(&models.ContactRequest{}).Where("landing_page_id = ?", id).Count(&st.Leads).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// RetiredSlugs lists the slugs the page no longer answers to.
func (s *Service) RetiredSlugs(ctx context.Context, id string) ([]string, error) {
	entries, err := s.history.ForPage(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Slug
	}
	return out, nil
}

func (s *Service) freeSlug(ctx context.Context, tx *gorm.DB) (string, error) {
	for i := 0; i < maxSlugDraw; i++ {
		slug := GenerateSlug()
		taken, err := s.history.Taken(ctx, tx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		s.log.Warn("slug collision, drawing again", zap.String("slug", slug))
	}
	return "", ErrSlugExhausted
}
