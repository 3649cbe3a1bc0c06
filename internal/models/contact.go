package models

import "time"

// Lead channels. RequestType decides which optional field group is meaningful.
const (
	RequestContact = "contact"
	RequestBuilder = "builder"
	RequestPromin  = "promin"
	RequestCourse  = "course"
	RequestLanding = "landing"
)

// ContactRequest is a lead captured from a site form or a landing page.
type ContactRequest struct {
	Base
	Name          string `json:"name"           gorm:"size:100;not null"`
	ContactMethod string `json:"contact_method" gorm:"size:100;not null"`
	Message       string `json:"message"        gorm:"type:text"`
	RequestType   string `json:"request_type"   gorm:"size:20;index;not null"`

	BuilderSiteType string `json:"builder_site_type,omitempty" gorm:"size:50"`
	BuilderModules  string `json:"builder_modules,omitempty"   gorm:"type:text"`
	BuilderDesign   string `json:"builder_design,omitempty"    gorm:"size:20"`
	BuilderPages    *int   `json:"builder_pages,omitempty"`
	BuilderPackage  string `json:"builder_package,omitempty"   gorm:"size:20"`
	BuilderPrice    string `json:"builder_price,omitempty"     gorm:"size:20"`

	ProjectName        string     `json:"project_name,omitempty"        gorm:"size:100"`
	ProjectType        string     `json:"project_type,omitempty"        gorm:"size:50"`
	ProjectDescription string     `json:"project_description,omitempty" gorm:"type:text"`
	ProjectBudget      string     `json:"project_budget,omitempty"      gorm:"size:50"`
	ProjectDeadline    *time.Time `json:"project_deadline,omitempty"    gorm:"type:date"`

	CoursePackage    string `json:"course_package,omitempty"    gorm:"size:20"`
	CourseExperience string `json:"course_experience,omitempty" gorm:"size:20"`

	LandingPageID *string `json:"landing_page_id,omitempty" gorm:"type:char(36);index"`

	IsProcessed bool   `json:"is_processed" gorm:"index;not null"`
	Notes       string `json:"notes"        gorm:"type:text"`
}

func (ContactRequest) TableName() string { return "contact_requests" }
