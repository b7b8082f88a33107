package pin

import (
	"FoodShare/domain"
	"FoodShare/entities"
	"FoodShare/pkg/realtime"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SampleID is the fixed id of the record seeded into an empty collection.
var SampleID = uuid.MustParse("5f00d5a4-0000-4000-8000-000000000001")

type (
	// DeleteNotifier is told who had bookmarked a pin that was just deleted.
	DeleteNotifier interface {
		PinDeleted(ctx context.Context, pin domain.Pin, bookmarkers []string)
	}

	PinService interface {
		CreatePin(ctx context.Context, req domain.CreatePinRequest, userID string) (*domain.CreatePinResponse, error)
		GetPin(ctx context.Context, id string) (*domain.Pin, error)
		ListAll(ctx context.Context) (domain.EventSet, error)
		ListByCampus(ctx context.Context, campusID string) (domain.EventSet, error)
		ListMine(ctx context.Context, userID string) (domain.EventSet, error)
		UpdatePin(ctx context.Context, id string, req domain.UpdatePinRequest, userID string) (*domain.Pin, error)
		DeletePin(ctx context.Context, id string, userID string) error
		ToggleBookmark(ctx context.Context, id string, userID string) (*domain.ToggleBookmarkResponse, error)
		GetBookmarks(ctx context.Context, userID string) ([]string, error)
		SeedIfEmpty(ctx context.Context, campus domain.Campus) (bool, error)
	}

	pinService struct {
		pinRepository PinRepository
		broker        realtime.Broker
		notifier      DeleteNotifier
		now           func() time.Time
	}
)

func NewPinService(pinRepository PinRepository, broker realtime.Broker, notifier DeleteNotifier) PinService {
	return &pinService{
		pinRepository: pinRepository,
		broker:        broker,
		notifier:      notifier,
		now:           time.Now,
	}
}

func (s *pinService) publish(ctx context.Context, change realtime.Change) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, change); err != nil {
		log.Errorf("publish %s for pin %s: %v", change.Type, change.PinID, err)
	}
}

func (s *pinService) CreatePin(ctx context.Context, req domain.CreatePinRequest, userID string) (*domain.CreatePinResponse, error) {
	if userID == "" {
		return nil, domain.ErrNotSignedIn
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	cats, err := domain.ParseCategoryList(req.Category)
	if err != nil {
		return nil, err
	}

	lat, lng := req.Location.Lat, req.Location.Lng
	pin := &entities.Pin{
		ID:           uuid.New(),
		UserID:       userUUID,
		CampusID:     req.CampusID,
		Title:        req.Title,
		Description:  req.Description,
		Host:         req.Host,
		Latitude:     &lat,
		Longitude:    &lng,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Cost:         string(domain.CostFromFree(req.IsFree)),
		Category:     cats.Join(),
		VotedUserIDs: []string{},
		Timestamp:    entities.Timestamp{CreatedAt: s.now()},
	}
	if err := s.pinRepository.CreatePin(ctx, pin); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.Change{Type: realtime.ChangeCreated, PinID: pin.ID.String(), CampusID: pin.CampusID, UserID: userID})
	return &domain.CreatePinResponse{ID: pin.ID.String()}, nil
}

func (s *pinService) getEntity(ctx context.Context, id string) (*entities.Pin, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrPinNotFound
	}
	pin, err := s.pinRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPinNotFound
		}
		return nil, err
	}
	return pin, nil
}

func (s *pinService) GetPin(ctx context.Context, id string) (*domain.Pin, error) {
	entity, err := s.getEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	pin, err := toDomain(entity)
	if err != nil {
		return nil, err
	}
	return &pin, nil
}

func (s *pinService) ListAll(ctx context.Context) (domain.EventSet, error) {
	pins, err := s.pinRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.normalize(pins), nil
}

func (s *pinService) ListByCampus(ctx context.Context, campusID string) (domain.EventSet, error) {
	pins, err := s.pinRepository.ListByCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	return s.normalize(pins), nil
}

func (s *pinService) ListMine(ctx context.Context, userID string) (domain.EventSet, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}
	pins, err := s.pinRepository.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.normalize(pins), nil
}

func (s *pinService) normalize(pins []*entities.Pin) domain.EventSet {
	set, skipped := toEventSet(pins)
	if skipped > 0 {
		log.Warnf("skipped %d malformed pin records", skipped)
	}
	return set
}

// UpdatePin applies the changed fields. Only the owner may update.
func (s *pinService) UpdatePin(ctx context.Context, id string, req domain.UpdatePinRequest, userID string) (*domain.Pin, error) {
	if req.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	entity, err := s.getEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.UserID.String() != userID {
		return nil, domain.ErrPermissionDenied
	}

	fields, err := updateFields(req)
	if err != nil {
		return nil, err
	}
	if err := s.pinRepository.UpdatePin(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPinNotFound
		}
		return nil, err
	}

	s.publish(ctx, realtime.Change{Type: realtime.ChangeUpdated, PinID: id, CampusID: entity.CampusID, UserID: userID})
	return s.GetPin(ctx, id)
}

// DeletePin removes the pin and its bookmarks. Only the owner may delete.
func (s *pinService) DeletePin(ctx context.Context, id string, userID string) error {
	entity, err := s.getEntity(ctx, id)
	if err != nil {
		return err
	}
	if entity.UserID.String() != userID {
		return domain.ErrPermissionDenied
	}

	bookmarkers := s.bookmarkersToNotify(ctx, id, userID)
	if err := s.pinRepository.DeletePin(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPinNotFound
		}
		return err
	}
	s.publish(ctx, realtime.Change{Type: realtime.ChangeDeleted, PinID: id, CampusID: entity.CampusID, UserID: userID})

	if len(bookmarkers) > 0 {
		if pin, err := toDomain(entity); err == nil {
			s.notifier.PinDeleted(ctx, pin, bookmarkers)
		}
	}
	return nil
}

// bookmarkersToNotify lists who bookmarked pin id, the owner excluded. It must
// run before the bookmarks are deleted.
func (s *pinService) bookmarkersToNotify(ctx context.Context, id string, ownerID string) []string {
	if s.notifier == nil {
		return nil
	}
	ids, err := s.pinRepository.GetBookmarkUserIDs(ctx, id)
	if err != nil {
		log.Errorf("list bookmarkers of pin %s: %v", id, err)
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, uid := range ids {
		if uid != ownerID {
			out = append(out, uid)
		}
	}
	return out
}

func (s *pinService) ToggleBookmark(ctx context.Context, id string, userID string) (*domain.ToggleBookmarkResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrNotSignedIn
	}
	entity, err := s.getEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	bookmarked, err := s.pinRepository.ToggleBookmark(ctx, id, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPinNotFound
		}
		return nil, err
	}

	s.publish(ctx, realtime.Change{Type: realtime.ChangeBookmark, PinID: id, CampusID: entity.CampusID, UserID: userID})
	return &domain.ToggleBookmarkResponse{PinID: id, Bookmarked: bookmarked}, nil
}

func (s *pinService) GetBookmarks(ctx context.Context, userID string) ([]string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.pinRepository.GetBookmarkedPinIDs(ctx, userID)
}

// SeedIfEmpty writes one sample event at the campus center when the
// collection holds no events at all.
func (s *pinService) SeedIfEmpty(ctx context.Context, campus domain.Campus) (bool, error) {
	lat, lng := campus.Center.Lat, campus.Center.Lng
	sample := &entities.Pin{
		ID:           SampleID,
		UserID:       uuid.Nil,
		CampusID:     campus.ID,
		Title:        "Sample Food Event",
		Description:  "Enjoy free food in the park!",
		Host:         "FoodShare",
		Latitude:     &lat,
		Longitude:    &lng,
		Date:         "2024-06-01",
		StartTime:    "12:00",
		EndTime:      "14:00",
		Cost:         string(domain.CostFree),
		VotedUserIDs: []string{},
		Timestamp:    entities.Timestamp{CreatedAt: s.now()},
	}
	seeded, err := s.pinRepository.SeedIfEmpty(ctx, sample)
	if err != nil {
		return false, err
	}
	if seeded {
		s.publish(ctx, realtime.Change{Type: realtime.ChangeSeeded, PinID: SampleID.String(), CampusID: campus.ID})
	}
	return seeded, nil
}
