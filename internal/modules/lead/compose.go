package lead

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/mail"
	"github.com/prometeylabs/lander/internal/pkg/sanitize"
)

const courseMessageFallback = "Course application (no additional message)"

var typeLabels = map[string]string{
	models.RequestContact: "Contact request",
	models.RequestBuilder: "Site builder request",
	models.RequestPromin:  "Promin project",
	models.RequestCourse:  "Course application",
	models.RequestLanding: "Landing page lead",
}

var coursePackages = map[string]string{
	"starter": "Starter package - 3 999 UAH",
	"full":    "Full course - 11 249 UAH",
	"premium": "Premium package - 13 999 UAH",
}

var courseExperience = map[string]string{
	"none":         "Beginner - no experience",
	"beginner":     "Beginner - no experience",
	"basic":        "Basic - some HTML/CSS",
	"intermediate": "Intermediate - knows programming basics",
	"advanced":     "Advanced - wants to learn AI tooling",
}

// TypeLabel is the human name of a request type.
func TypeLabel(requestType string) string {
	if label, ok := typeLabels[requestType]; ok {
		return label
	}
	return "Request"
}

func (f contactFields) base(requestType string) *models.ContactRequest {
	return &models.ContactRequest{
		Name:          sanitize.Text(strings.TrimSpace(f.Name), 100),
		ContactMethod: strings.TrimSpace(f.ContactMethod),
		Message:       strings.TrimSpace(f.Message),
		RequestType:   requestType,
	}
}

func (d *ContactDTO) toRequest() *models.ContactRequest {
	return d.base(models.RequestContact)
}

func (d *BuilderDTO) toRequest() *models.ContactRequest {
	req := d.base(models.RequestBuilder)
	req.BuilderSiteType = d.BuilderSiteType
	req.BuilderModules = d.BuilderModules
	req.BuilderDesign = d.BuilderDesign
	req.BuilderPages = d.BuilderPages
	req.BuilderPackage = d.BuilderPackage
	req.BuilderPrice = d.BuilderPrice
	return req
}

// toRequest uses the project description as the message when none was given.
func (d *ProminDTO) toRequest() *models.ContactRequest {
	req := d.base(models.RequestPromin)
	req.ProjectName = strings.TrimSpace(d.ProjectName)
	req.ProjectType = d.ProjectType
	req.ProjectDescription = strings.TrimSpace(d.ProjectDescription)
	req.ProjectBudget = d.ProjectBudget
	if d.ProjectDeadline != "" {
		if deadline, err := time.Parse("2006-01-02", d.ProjectDeadline); err == nil {
			req.ProjectDeadline = &deadline
		}
	}
	if req.Message == "" && req.ProjectDescription != "" {
		req.Message = fmt.Sprintf("Project: %s\n\n%s", req.ProjectName, req.ProjectDescription)
	}
	return req
}

// toRequest prefixes the message with the chosen package and experience level.
func (d *CourseDTO) toRequest() *models.ContactRequest {
	req := d.base(models.RequestCourse)
	req.CoursePackage = d.CoursePackage
	req.CourseExperience = d.CourseExperience

	var info []string
	if d.CoursePackage != "" {
		info = append(info, "Package: "+lookup(coursePackages, d.CoursePackage))
	}
	if d.CourseExperience != "" {
		info = append(info, "Experience: "+lookup(courseExperience, d.CourseExperience))
	}

	var parts []string
	if len(info) > 0 {
		parts = append(parts, strings.Join(info, "\n"))
	}
	if req.Message != "" {
		parts = append(parts, "Additional message: "+req.Message)
	}
	if len(parts) == 0 {
		req.Message = courseMessageFallback
	} else {
		req.Message = strings.Join(parts, "\n\n")
	}
	return req
}

func (d *LandingSubmitDTO) toRequest() *models.ContactRequest {
	pageID := d.LandingPageID
	return &models.ContactRequest{
		Name:          sanitize.Text(strings.TrimSpace(d.Name), 100),
		ContactMethod: strings.TrimSpace(d.Contact),
		Message:       strings.TrimSpace(d.Message),
		RequestType:   models.RequestLanding,
		LandingPageID: &pageID,
	}
}

func lookup(names map[string]string, key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return key
}

// leadFields lists the channel-specific values shown in notification emails.
func leadFields(req *models.ContactRequest) []mail.LeadField {
	var fields []mail.LeadField
	add := func(label, value string) {
		if value != "" {
			fields = append(fields, mail.LeadField{Label: label, Value: value})
		}
	}

	switch req.RequestType {
	case models.RequestBuilder:
		add("Site type", req.BuilderSiteType)
		add("Modules", req.BuilderModules)
		add("Design", req.BuilderDesign)
		if req.BuilderPages != nil {
			add("Pages", strconv.Itoa(*req.BuilderPages))
		}
		add("Package", req.BuilderPackage)
		add("Price", req.BuilderPrice)
	case models.RequestPromin:
		add("Project", req.ProjectName)
		add("Project type", req.ProjectType)
		add("Budget", req.ProjectBudget)
		if req.ProjectDeadline != nil {
			add("Deadline", req.ProjectDeadline.Format("02.01.2006"))
		}
	case models.RequestCourse:
		add("Package", lookup(coursePackages, req.CoursePackage))
		add("Experience", lookup(courseExperience, req.CourseExperience))
	case models.RequestLanding:
		if req.LandingPageID != nil {
			add("Landing page", *req.LandingPageID)
		}
	}
	return fields
}
