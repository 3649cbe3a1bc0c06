package models

import "time"

// StaffUser can manage landing pages, templates and leads.
type StaffUser struct {
	Base
	Username    string     `json:"username"      gorm:"size:150;uniqueIndex;not null"`
	Password    string     `json:"-"             gorm:"not null"`
	IsStaff     bool       `json:"is_staff"      gorm:"not null"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip" gorm:"size:45"`
}

func (StaffUser) TableName() string { return "staff_users" }
