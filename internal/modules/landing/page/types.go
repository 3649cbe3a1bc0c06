package page

import (
	"time"

	"github.com/prometeylabs/lander/internal/models"
)

type CreatePageDTO struct {
	Title           string `json:"title"             binding:"required,max=200"`
	HTMLContent     string `json:"html_content"      binding:"required"`
	CSSContent      string `json:"css_content"`
	JSContent       string `json:"js_content"`
	GooglePixelID   string `json:"google_pixel_id"   binding:"omitempty,pixel_id"`
	FacebookPixelID string `json:"facebook_pixel_id" binding:"omitempty,pixel_id"`
	MetaRobots      string `json:"meta_robots"       binding:"max=100"`
	IsActive        *bool  `json:"is_active"`
}

type UpdatePageDTO struct {
	Title           *string `json:"title"             binding:"omitempty,min=1,max=200"`
	HTMLContent     *string `json:"html_content"`
	CSSContent      *string `json:"css_content"`
	JSContent       *string `json:"js_content"`
	GooglePixelID   *string `json:"google_pixel_id"   binding:"omitempty,pixel_id"`
	FacebookPixelID *string `json:"facebook_pixel_id" binding:"omitempty,pixel_id"`
	MetaRobots      *string `json:"meta_robots"       binding:"omitempty,max=100"`
	IsActive        *bool   `json:"is_active"`
}

type StatusDTO struct {
	Action string `json:"action" binding:"required,oneof=activate deactivate"`
}

// ListQuery filters the staff listing.
type ListQuery struct {
	Search   string
	IsActive *bool
}

// Stats summarizes the traffic of one page.
type Stats struct {
	Visits           int64            `json:"visits"`
	AverageTimeSpent float64          `json:"average_time_spent"`
	Interactions     map[string]int64 `json:"interactions"`
	Leads            int64            `json:"leads"`
}

type pageResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	URL             string    `json:"url"`
	HTMLContent     string    `json:"html_content,omitempty"`
	CSSContent      string    `json:"css_content,omitempty"`
	JSContent       string    `json:"js_content,omitempty"`
	GooglePixelID   string    `json:"google_pixel_id"`
	FacebookPixelID string    `json:"facebook_pixel_id"`
	MetaRobots      string    `json:"meta_robots"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// toResponse renders a page for the API. The listing omits page bodies.
func toResponse(p *models.LandingPage, siteURL string, withContent bool) pageResponse {
	out := pageResponse{
		ID: p.ID, Title: p.Title, Slug: p.Slug, URL: AbsoluteURL(siteURL, p.Slug),
		GooglePixelID: p.GooglePixelID, FacebookPixelID: p.FacebookPixelID,
		MetaRobots: p.MetaRobots, IsActive: p.IsActive,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
	if withContent {
		out.HTMLContent = p.HTMLContent
		out.CSSContent = p.CSSContent
		out.JSContent = p.JSContent
	}
	return out
}
