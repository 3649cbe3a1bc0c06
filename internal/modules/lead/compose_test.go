package lead

import (
	"testing"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProminMessageFallsBackToDescription(t *testing.T) {
	dto := &ProminDTO{
		contactFields:      contactFields{Name: "Olena", ContactMethod: "olena@example.com"},
		ProjectName:        "Library nights",
		ProjectType:        "cultural",
		ProjectDescription: "Evening readings for kids",
		ProjectDeadline:    "2026-12-01",
	}
	req := dto.toRequest()
	assert.Equal(t, models.RequestPromin, req.RequestType)
	assert.Equal(t, "Project: Library nights\n\nEvening readings for kids", req.Message)
	require.NotNil(t, req.ProjectDeadline)
	assert.Equal(t, "2026-12-01", req.ProjectDeadline.Format("2006-01-02"))

	dto.Message = "Call me after 6pm"
	assert.Equal(t, "Call me after 6pm", dto.toRequest().Message)
}

func TestCourseMessageComposition(t *testing.T) {
	dto := &CourseDTO{
		contactFields:    contactFields{Name: "Taras", ContactMethod: "@taras_dev"},
		CoursePackage:    "full",
		CourseExperience: "basic",
	}
	assert.Equal(t, "Package: Full course - 11 249 UAH\nExperience: Basic - some HTML/CSS", dto.toRequest().Message)

	dto.Message = "Is there a night group?"
	assert.Equal(t,
		"Package: Full course - 11 249 UAH\nExperience: Basic - some HTML/CSS\n\nAdditional message: Is there a night group?",
		dto.toRequest().Message)

	empty := &CourseDTO{contactFields: contactFields{Name: "A", ContactMethod: "@someone"}}
	assert.Equal(t, courseMessageFallback, empty.toRequest().Message)
}

func TestNameIsStripped(t *testing.T) {
	dto := &ContactDTO{contactFields{Name: "  <b>Ivan</b> ", ContactMethod: " ivan@example.com "}}
	req := dto.toRequest()
	assert.Equal(t, "Ivan", req.Name)
	assert.Equal(t, "ivan@example.com", req.ContactMethod)
}

func TestLeadFields(t *testing.T) {
	pages := 5
	req := (&BuilderDTO{
		contactFields:   contactFields{Name: "B", ContactMethod: "b@example.com"},
		BuilderSiteType: "shop",
		BuilderPages:    &pages,
	}).toRequest()

	fields := leadFields(req)
	require.Len(t, fields, 2)
	assert.Equal(t, "Site type", fields[0].Label)
	assert.Equal(t, "5", fields[1].Value)

	landing := (&LandingSubmitDTO{LandingPageID: "page-1", Name: "L", Contact: "l@example.com"}).toRequest()
	assert.Equal(t, models.RequestLanding, landing.RequestType)
	assert.Equal(t, "page-1", leadFields(landing)[0].Value)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Course application", TypeLabel(models.RequestCourse))
	assert.Equal(t, "Request", TypeLabel("unknown"))
}
