package lead

import "github.com/prometeylabs/lander/internal/models"

// contactFields are shared by every site form.
type contactFields struct {
	Name          string `json:"name"           form:"name"           binding:"required,max=100"`
	ContactMethod string `json:"contact_method" form:"contact_method" binding:"required,max=100,contact_method"`
	Message       string `json:"message"        form:"message"        binding:"max=5000"`
}

type ContactDTO struct {
	contactFields
}

type BuilderDTO struct {
	contactFields
	BuilderSiteType string `json:"builder_site_type" form:"builder_site_type" binding:"max=50"`
	BuilderModules  string `json:"builder_modules"   form:"builder_modules"   binding:"max=2000"`
	BuilderDesign   string `json:"builder_design"    form:"builder_design"    binding:"max=20"`
	BuilderPages    *int   `json:"builder_pages"     form:"builder_pages"     binding:"omitempty,min=1,max=1000"`
	BuilderPackage  string `json:"builder_package"   form:"builder_package"   binding:"max=20"`
	BuilderPrice    string `json:"builder_price"     form:"builder_price"     binding:"max=20"`
}

type ProminDTO struct {
	contactFields
	ProjectName        string `json:"project_name"        form:"project_name"        binding:"required,max=100"`
	ProjectType        string `json:"project_type"        form:"project_type"        binding:"required,oneof=cultural social educational startup volunteer other"`
	ProjectDescription string `json:"project_description" form:"project_description" binding:"required,max=5000"`
	ProjectBudget      string `json:"project_budget"      form:"project_budget"      binding:"max=50"`
	ProjectDeadline    string `json:"project_deadline"    form:"project_deadline"    binding:"omitempty,datetime=2006-01-02"`
}

type CourseDTO struct {
	contactFields
	CoursePackage    string `json:"course_package"    form:"course_package"    binding:"required,oneof=starter full premium"`
	CourseExperience string `json:"course_experience" form:"course_experience" binding:"required,oneof=none beginner basic intermediate advanced"`
}

// LandingSubmitDTO is posted by the form on a rendered landing page.
type LandingSubmitDTO struct {
	LandingPageID string `json:"landing_page_id" binding:"required,max=36"`
	Name          string `json:"name"            binding:"required,max=100"`
	Contact       string `json:"contact"         binding:"required,max=100,contact_method"`
	Message       string `json:"message"         binding:"max=5000"`
	VisitID       string `json:"visit_id"        binding:"omitempty,max=36"`
}

// UpdateDTO is the staff triage patch.
type UpdateDTO struct {
	IsProcessed *bool   `json:"is_processed"`
	Notes       *string `json:"notes" binding:"omitempty,max=5000"`
}

type ListQuery struct {
	RequestType string
	IsProcessed *bool
}

// knownType reports whether t is a request_type filter value.
func knownType(t string) bool {
	switch t {
	case models.RequestContact, models.RequestBuilder, models.RequestPromin, models.RequestCourse, models.RequestLanding:
		return true
	}
	return false
}
