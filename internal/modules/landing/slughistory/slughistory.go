// Package slughistory keeps the slugs retired by link rotation. Retired slugs are audit-only:
// they never resolve to a page again and are never handed out a second time.
package slughistory

import (
	"context"
	"errors"

	"github.com/prometeylabs/lander/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Retire records that slug no longer addresses pageID. tx may be nil to use the service handle.
func (s *Service) Retire(ctx context.Context, tx *gorm.DB, slug, pageID string) error {
	if tx == nil {
		tx = s.db
	}
	entry := models.SlugHistory{Slug: slug, LandingPageID: pageID}
	return tx.WithContext(ctx).
		Where(models.SlugHistory{Slug: slug}).
		Assign(models.SlugHistory{LandingPageID: pageID}).
		FirstOrCreate(&entry).Error
}

// Taken reports whether slug is used by a live page or was ever retired.
func (s *Service) Taken(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	if tx == nil {
		tx = s.db
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&models.LandingPage{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.WithContext(ctx).Model(&models.SlugHistory{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ForPage lists the slugs a page has retired, newest first.
func (s *Service) ForPage(ctx context.Context, pageID string) ([]models.SlugHistory, error) {
	var entries []models.SlugHistory
	err := s.db.WithContext(ctx).Where("landing_page_id = ?", pageID).
		Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Owner returns the page id a retired slug used to address, or ("", nil).
func (s *Service) Owner(ctx context.Context, slug string) (string, error) {
	var entry models.SlugHistory
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.LandingPageID, nil
}

// DeleteForPage removes the history of a deleted page.
func (s *Service) DeleteForPage(ctx context.Context, tx *gorm.DB, pageID string) error {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx).Where("landing_page_id = ?", pageID).Delete(&models.SlugHistory{}).Error
}
