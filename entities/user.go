package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Email           string      `gorm:"uniqueIndex" json:"email"`
	DisplayName     string      `json:"display_name"`
	PhotoURL        string      `json:"photo_url"`
	PasswordHash    string      `json:"-"`
	Provider        string      `json:"provider"`
	ProviderSubject string      `gorm:"index" json:"-"`
	Role            string      `json:"role"`
	SelectedCampus  string      `json:"selected_campus"`
	Filters         UserFilters `gorm:"serializer:json" json:"filters"`
	LastLogin       *time.Time  `json:"last_login,omitempty"`
	Timestamp
}

type UserFilters struct {
	Categories []string `json:"categories"`
	TodayOnly  bool     `json:"today_only"`
	StartHour  int      `json:"start_hour"`
	StartAmPm  string   `json:"start_ampm"`
	EndHour    int      `json:"end_hour"`
	EndAmPm    string   `json:"end_ampm"`
}
