package entities

import (
	"time"

	"github.com/google/uuid"
)

// Pin is one food event. Latitude/Longitude are nullable so that records written
// without a location can be detected and skipped instead of rendered at 0,0.
type Pin struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CampusID     string    `gorm:"index" json:"campus_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Host         string    `json:"host"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Date         string    `json:"date"`       // YYYY-MM-DD
	StartTime    string    `json:"start_time"` // HH:MM
	EndTime      string    `json:"end_time"`   // HH:MM
	Cost         string    `json:"cost"`       // "Free", "Paid"
	Category     string    `json:"category"`   // comma-joined tags
	Upvotes      int       `json:"upvotes"`
	VotedUserIDs []string  `gorm:"serializer:json" json:"voted_user_ids"`

	Bookmarks []*PinBookmark `gorm:"foreignKey:PinID"`
	Timestamp
}

type PinBookmark struct {
	PinID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"pin_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
