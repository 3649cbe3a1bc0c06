package pagetemplate

import (
	"time"

	"github.com/prometeylabs/lander/internal/models"
)

type CreateTemplateDTO struct {
	Name               string            `json:"name"                binding:"required,max=100"`
	Description        string            `json:"description"`
	HTMLTemplate       string            `json:"html_template"       binding:"required"`
	CSSContent         string            `json:"css_content"`
	JSContent          string            `json:"js_content"`
	AvailableVariables map[string]string `json:"available_variables"`
	IsActive           *bool             `json:"is_active"`
}

type UpdateTemplateDTO struct {
	Name               *string            `json:"name"                binding:"omitempty,min=1,max=100"`
	Description        *string            `json:"description"`
	HTMLTemplate       *string            `json:"html_template"`
	CSSContent         *string            `json:"css_content"`
	JSContent          *string            `json:"js_content"`
	AvailableVariables *map[string]string `json:"available_variables"`
	IsActive           *bool              `json:"is_active"`
}

// InstantiateDTO creates a landing page from a template. Page options mirror page creation.
type InstantiateDTO struct {
	TemplateID      string                 `json:"template_id"       binding:"required"`
	Title           string                 `json:"title"             binding:"required,max=200"`
	Variables       map[string]interface{} `json:"variables"`
	GooglePixelID   string                 `json:"google_pixel_id"   binding:"omitempty,pixel_id"`
	FacebookPixelID string                 `json:"facebook_pixel_id" binding:"omitempty,pixel_id"`
	MetaRobots      string                 `json:"meta_robots"       binding:"max=100"`
	IsActive        *bool                  `json:"is_active"`
}

type templateResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	HTMLTemplate       string            `json:"html_template,omitempty"`
	CSSContent         string            `json:"css_content,omitempty"`
	JSContent          string            `json:"js_content,omitempty"`
	AvailableVariables map[string]string `json:"available_variables"`
	Placeholders       []string          `json:"placeholders"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func toResponse(t *models.LandingPageTemplate, withContent bool) templateResponse {
	vars := t.AvailableVariables
	if vars == nil {
		vars = map[string]string{}
	}
	placeholders := Placeholders(t.HTMLTemplate + "\n" + t.CSSContent + "\n" + t.JSContent)
	if placeholders == nil {
		placeholders = []string{}
	}
	out := templateResponse{
		ID: t.ID, Name: t.Name, Description: t.Description,
		AvailableVariables: vars, Placeholders: placeholders,
		IsActive: t.IsActive, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
	if withContent {
		out.HTMLTemplate = t.HTMLTemplate
		out.CSSContent = t.CSSContent
		out.JSContent = t.JSContent
	}
	return out
}
