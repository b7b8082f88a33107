package eventform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FoodShare/domain"
	"FoodShare/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Store is the write side of the event store used on submit.
type Store interface {
	Create(ctx context.Context, req domain.CreatePinRequest) (string, error)
	Update(ctx context.Context, id string, req domain.UpdatePinRequest) error
}

// Form holds every editable field of a food event.
type Form struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Host        string             `json:"host" validate:"required"`
	Location    domain.LatLng      `json:"location"`
	Date        string             `json:"date" validate:"required,yyyymmdd"`
	Start       TimeParts          `json:"start"`
	End         TimeParts          `json:"end"`
	IsFree      bool               `json:"is_free"`
	Categories  domain.CategorySet `json:"categories"`
}

var formValidator = utils.NewValidator()

// New returns an empty form anchored at loc with the picker defaults.
func New(loc domain.LatLng, date string) Form {
	return Form{
		Location: loc,
		Date:     date,
		Start:    Midnight,
		End:      TimeParts{Hour: 1, Minute: 0, AmPm: domain.PM},
		IsFree:   true,
	}
}

// FromPin pre-populates an edit form. A missing time opens as 12:00 AM.
func FromPin(p domain.Pin) (Form, error) {
	start, err := fromStored(p.StartTime)
	if err != nil {
		return Form{}, fmt.Errorf("start time: %w", err)
	}
	end, err := fromStored(p.EndTime)
	if err != nil {
		return Form{}, fmt.Errorf("end time: %w", err)
	}
	return Form{
		Title:       p.Title,
		Description: p.Description,
		Host:        p.Host,
		Location:    p.Location,
		Date:        p.Date,
		Start:       start,
		End:         end,
		IsFree:      p.Cost.IsFree(),
		Categories:  p.Category,
	}, nil
}

func fromStored(hhmm string) (TimeParts, error) {
	if strings.TrimSpace(hhmm) == "" {
		return Midnight, nil
	}
	return FromClock(hhmm)
}

// Validate checks field shapes and returns the stored 24-hour times.
func (f Form) Validate() (start, end string, err error) {
	if err := formValidator.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "", "", fmt.Errorf("invalid %s: %w", verrs[0].Field(), err)
		}
		return "", "", err
	}
	start, err = f.Start.To24()
	if err != nil {
		return "", "", err
	}
	end, err = f.End.To24()
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func (f Form) CreateRequest(campusID string) (domain.CreatePinRequest, error) {
	start, end, err := f.Validate()
	if err != nil {
		return domain.CreatePinRequest{}, err
	}
	return domain.CreatePinRequest{
		Title:       f.Title,
		Description: f.Description,
		Host:        f.Host,
		Location:    f.Location,
		Date:        f.Date,
		StartTime:   start,
		EndTime:     end,
		IsFree:      f.IsFree,
		Category:    f.Categories.Strings(),
		CampusID:    campusID,
	}, nil
}

// UpdateRequest carries only the fields that differ from orig.
func (f Form) UpdateRequest(orig domain.Pin) (domain.UpdatePinRequest, error) {
	start, end, err := f.Validate()
	if err != nil {
		return domain.UpdatePinRequest{}, err
	}
	var req domain.UpdatePinRequest
	if f.Title != orig.Title {
		req.Title = &f.Title
	}
	if f.Description != orig.Description {
		req.Description = &f.Description
	}
	if f.Host != orig.Host {
		req.Host = &f.Host
	}
	if f.Location != orig.Location {
		loc := f.Location
		req.Location = &loc
	}
	if f.Date != orig.Date {
		req.Date = &f.Date
	}
	if start != orig.StartTime {
		req.StartTime = &start
	}
	if end != orig.EndTime {
		req.EndTime = &end
	}
	if f.IsFree != orig.Cost.IsFree() {
		req.IsFree = &f.IsFree
	}
	if f.Categories != orig.Category {
		cats := f.Categories.Strings()
		req.Category = &cats
	}
	return req, nil
}

// Submit creates a new event. Without a signed-in user nothing is sent.
func (f Form) Submit(ctx context.Context, userID, campusID string, store Store) (string, error) {
	if userID == "" {
		return "", domain.ErrNotSignedIn
	}
	req, err := f.CreateRequest(campusID)
	if err != nil {
		return "", err
	}
	return store.Create(ctx, req)
}

// SubmitEdit saves changes to orig. An unchanged form sends nothing.
func (f Form) SubmitEdit(ctx context.Context, userID string, orig domain.Pin, store Store) error {
	if userID == "" {
		return domain.ErrNotSignedIn
	}
	req, err := f.UpdateRequest(orig)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		return nil
	}
	return store.Update(ctx, orig.ID, req)
}
