package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	MessageSuccessCreatePin      = "pin created successfully"
	MessageSuccessUpdatePin      = "pin updated successfully"
	MessageSuccessDeletePin      = "pin deleted successfully"
	MessageSuccessGetPins        = "pins retrieved successfully"
	MessageSuccessGetPinView     = "pin view retrieved successfully"
	MessageSuccessToggleBookmark = "bookmark toggled successfully"
	MessageSuccessGetBookmarks   = "bookmarks retrieved successfully"

	MessageFailedCreatePin      = "failed to create pin"
	MessageFailedUpdatePin      = "failed to update pin"
	MessageFailedDeletePin      = "failed to delete pin"
	MessageFailedGetPins        = "failed to retrieve pins"
	MessageFailedGetPinView     = "failed to retrieve pin view"
	MessageFailedToggleBookmark = "failed to toggle bookmark"
	MessageFailedGetBookmarks   = "failed to retrieve bookmarks"
	MessageFailedStream         = "failed to open stream"

	ErrPinNotFound  = errors.New("pin not found")
	ErrMalformedPin = errors.New("malformed pin record")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime  = errors.New("invalid time, expected HH:MM")
	ErrEmptyUpdate  = errors.New("no fields to update")
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type Cost string

const (
	CostFree Cost = "Free"
	CostPaid Cost = "Paid"
)

func CostFromFree(isFree bool) Cost {
	if isFree {
		return CostFree
	}
	return CostPaid
}

func (c Cost) IsFree() bool { return c != CostPaid }

type LatLng struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type (
	// Pin is a normalized food event as seen by every client.
	Pin struct {
		ID           string      `json:"id"`
		Title        string      `json:"title"`
		Description  string      `json:"description"`
		Host         string      `json:"host"`
		Location     LatLng      `json:"location"`
		Date         string      `json:"date"`
		StartTime    string      `json:"start_time"`
		EndTime      string      `json:"end_time"`
		Cost         Cost        `json:"cost"`
		Category     CategorySet `json:"category"`
		UserID       string      `json:"user_id"`
		CreatedAt    time.Time   `json:"created_at"`
		CampusID     string      `json:"campus_id"`
		Upvotes      int         `json:"upvotes"`
		VotedUserIDs []string    `json:"voted_user_ids"`
		BookmarkedBy []string    `json:"bookmarked_by"`
	}

	// EventSet is one full snapshot of pins, in store order.
	EventSet []Pin

	CreatePinRequest struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description" validate:"required"`
		Host        string   `json:"host" validate:"required"`
		Location    LatLng   `json:"location" validate:"required"`
		Date        string   `json:"date" validate:"required,yyyymmdd"`
		StartTime   string   `json:"start_time" validate:"required,hhmm"`
		EndTime     string   `json:"end_time" validate:"required,hhmm"`
		IsFree      bool     `json:"is_free"`
		Category    []string `json:"category" validate:"dive,category"`
		CampusID    string   `json:"campus_id" validate:"required,campus"`
	}

	// UpdatePinRequest carries only the fields being changed.
	UpdatePinRequest struct {
		Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
		Description *string   `json:"description,omitempty" validate:"omitempty,min=1"`
		Host        *string   `json:"host,omitempty" validate:"omitempty,min=1"`
		Location    *LatLng   `json:"location,omitempty"`
		Date        *string   `json:"date,omitempty" validate:"omitempty,yyyymmdd"`
		StartTime   *string   `json:"start_time,omitempty" validate:"omitempty,hhmm"`
		EndTime     *string   `json:"end_time,omitempty" validate:"omitempty,hhmm"`
		IsFree      *bool     `json:"is_free,omitempty"`
		Category    *[]string `json:"category,omitempty" validate:"omitempty,dive,category"`
	}

	CreatePinResponse struct {
		ID string `json:"id"`
	}

	ToggleBookmarkResponse struct {
		PinID      string `json:"pin_id"`
		Bookmarked bool   `json:"bookmarked"`
	}

	BookmarksResponse struct {
		PinIDs []string `json:"pin_ids"`
	}
)

func (r UpdatePinRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Host == nil && r.Location == nil &&
		r.Date == nil && r.StartTime == nil && r.EndTime == nil && r.IsFree == nil && r.Category == nil
}

func (p Pin) IsOwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}

func (p Pin) IsBookmarkedBy(userID string) bool {
	return slices.Contains(p.BookmarkedBy, userID)
}

// ByCampus returns the pins whose CampusID equals campusID, preserving order.
func (s EventSet) ByCampus(campusID string) EventSet {
	out := make(EventSet, 0, len(s))
	for _, p := range s {
		if p.CampusID == campusID {
			out = append(out, p)
		}
	}
	return out
}

func (s EventSet) Find(id string) (Pin, bool) {
	for _, p := range s {
		if p.ID == id {
			return p, true
		}
	}
	return Pin{}, false
}

// BookmarkedBy returns the ids of pins bookmarked by userID.
func (s EventSet) BookmarkedBy(userID string) []string {
	ids := make([]string, 0)
	for _, p := range s {
		if p.IsBookmarkedBy(userID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, ErrInvalidTime
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	return t.Hour(), t.Minute(), nil
}

func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
