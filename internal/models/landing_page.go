package models

import (
	"errors"
	"strings"
)

const (
	// DefaultMetaRobots keeps generated pages out of search indexes unless told otherwise.
	DefaultMetaRobots = "noindex, nofollow"
	// MinHTMLLength is the shortest html_content / html_template accepted.
	MinHTMLLength = 10
)

var ErrHTMLTooShort = errors.New("html content must be at least 10 characters")

// LandingPage is a servable micro-page reachable through its slug.
type LandingPage struct {
	Base
	Title           string             `json:"title"             gorm:"size:200;not null"`
	Slug            string             `json:"slug"              gorm:"size:50;uniqueIndex;not null"`
	HTMLContent     string             `json:"html_content"      gorm:"type:longtext;not null"`
	CSSContent      string             `json:"css_content"       gorm:"type:longtext"`
	JSContent       string             `json:"js_content"        gorm:"type:longtext"`
	GooglePixelID   string             `json:"google_pixel_id"   gorm:"size:50"`
	FacebookPixelID string             `json:"facebook_pixel_id" gorm:"size:50"`
	MetaRobots      string             `json:"meta_robots"       gorm:"size:100;not null"`
	IsActive        bool               `json:"is_active"         gorm:"index;not null"`
	Visits          []LandingPageVisit `json:"-"                 gorm:"foreignKey:LandingPageID;constraint:OnDelete:CASCADE"`
}

func (LandingPage) TableName() string { return "landing_pages" }

// Validate runs on every write.
func (p *LandingPage) Validate() error {
	if len(strings.TrimSpace(p.HTMLContent)) < MinHTMLLength {
		return ErrHTMLTooShort
	}
	return nil
}

// LandingPageTemplate is a reusable skeleton with {{name}} placeholders.
type LandingPageTemplate struct {
	Base
	Name               string            `json:"name"                gorm:"size:100;uniqueIndex;not null"`
	Description        string            `json:"description"         gorm:"type:text"`
	HTMLTemplate       string            `json:"html_template"       gorm:"type:longtext;not null"`
	CSSContent         string            `json:"css_content"         gorm:"type:longtext"`
	JSContent          string            `json:"js_content"          gorm:"type:longtext"`
	AvailableVariables map[string]string `json:"available_variables" gorm:"type:longtext;serializer:json"`
	IsActive           bool              `json:"is_active"           gorm:"index;not null"`
}

func (LandingPageTemplate) TableName() string { return "landing_page_templates" }

func (t *LandingPageTemplate) Validate() error {
	if len(strings.TrimSpace(t.HTMLTemplate)) < MinHTMLLength {
		return ErrHTMLTooShort
	}
	return nil
}

// SlugHistory records slugs retired by link rotation. Retired slugs never resolve again.
type SlugHistory struct {
	Base
	Slug          string `json:"slug"            gorm:"size:50;uniqueIndex;not null"`
	LandingPageID string `json:"landing_page_id" gorm:"type:char(36);index;not null"`
}

func (SlugHistory) TableName() string { return "landing_slug_history" }
