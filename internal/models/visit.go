package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Interaction kinds accepted from the tracking script.
const (
	InteractionClick       = "click"
	InteractionSubmit      = "submit"
	InteractionScrollDeep  = "scroll_deep"
	InteractionViewElement = "view_element"
)

// IsInteractionKind reports whether kind is one of the recorded interaction kinds.
func IsInteractionKind(kind string) bool {
	switch kind {
	case InteractionClick, InteractionSubmit, InteractionScrollDeep, InteractionViewElement:
		return true
	}
	return false
}

// Sample is one pointer or scroll sample reported by the browser.
type Sample map[string]float64

// PathData holds the movement samples collected during a visit.
type PathData struct {
	MouseMovements  []Sample `json:"mouse_movements,omitempty"`
	ScrollPositions []Sample `json:"scroll_positions,omitempty"`
}

// LandingPageVisit is one rendering of a landing page for one client.
type LandingPageVisit struct {
	ID            string                   `json:"id"              gorm:"type:char(36);primaryKey"`
	LandingPageID string                   `json:"landing_page_id" gorm:"type:char(36);index;not null"`
	IPAddress     string                   `json:"ip_address"      gorm:"size:45"`
	UserAgent     string                   `json:"user_agent"      gorm:"size:255"`
	Referrer      string                   `json:"referrer"        gorm:"type:text"`
	VisitTime     time.Time                `json:"visit_time"      gorm:"autoCreateTime;index"`
	TimeSpent     int                      `json:"time_spent"      gorm:"not null"`
	PathData      PathData                 `json:"path_data"       gorm:"type:longtext;serializer:json"`
	MetaData      string                   `json:"-"               gorm:"type:longtext"`
	Interactions  []LandingPageInteraction `json:"-"               gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE"`
}

func (LandingPageVisit) TableName() string { return "landing_page_visits" }

func (v *LandingPageVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = NewID()
	}
	return nil
}

// DecodeMeta decodes the stored meta_data. A payload cut by the size cap is opaque and fails.
func (v *LandingPageVisit) DecodeMeta() (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if v.MetaData == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(v.MetaData), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Meta is DecodeMeta for display. An undecodable payload is returned under "raw".
func (v *LandingPageVisit) Meta() map[string]interface{} {
	out, err := v.DecodeMeta()
	if err != nil {
		return map[string]interface{}{"raw": v.MetaData}
	}
	return out
}

// LandingPageInteraction is a discrete client-side event. Rows are never updated.
type LandingPageInteraction struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	VisitID         string    `json:"visit_id"         gorm:"type:char(36);index;not null"`
	ElementID       string    `json:"element_id"       gorm:"size:100"`
	ElementType     string    `json:"element_type"     gorm:"size:50"`
	InteractionType string    `json:"interaction_type" gorm:"size:20;index;not null"`
	Timestamp       time.Time `json:"timestamp"        gorm:"autoCreateTime"`
}

func (LandingPageInteraction) TableName() string { return "landing_page_interactions" }

func (i *LandingPageInteraction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}
