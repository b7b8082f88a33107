package pin

import (
	"FoodShare/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PinRepository interface {
		ListAll(ctx context.Context) ([]*entities.Pin, error)
		ListByCampus(ctx context.Context, campusID string) ([]*entities.Pin, error)
		ListByOwner(ctx context.Context, userID string) ([]*entities.Pin, error)
		GetByID(ctx context.Context, id string) (*entities.Pin, error)
		CreatePin(ctx context.Context, pin *entities.Pin) error
		UpdatePin(ctx context.Context, id string, fields map[string]any) error
		DeletePin(ctx context.Context, id string) error
		ToggleBookmark(ctx context.Context, pinID string, userID uuid.UUID) (bool, error)
		GetBookmarkedPinIDs(ctx context.Context, userID string) ([]string, error)
		GetBookmarkUserIDs(ctx context.Context, pinID string) ([]string, error)
		SeedIfEmpty(ctx context.Context, sample *entities.Pin) (bool, error)
	}

	pinRepository struct {
		db *gorm.DB
	}
)

func NewPinRepository(db *gorm.DB) PinRepository {
	return &pinRepository{db: db}
}

// snapshotQuery loads pins with their bookmarks in creation order.
func (r *pinRepository) snapshotQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Bookmarks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Order("id ASC")
}

func (r *pinRepository) ListAll(ctx context.Context) ([]*entities.Pin, error) {
	var pins []*entities.Pin
	if err := r.snapshotQuery(ctx).Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *pinRepository) ListByCampus(ctx context.Context, campusID string) ([]*entities.Pin, error) {
	var pins []*entities.Pin
	if err := r.snapshotQuery(ctx).Where("campus_id = ?", campusID).Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *pinRepository) ListByOwner(ctx context.Context, userID string) ([]*entities.Pin, error) {
	var pins []*entities.Pin
	if err := r.snapshotQuery(ctx).Where("user_id = ?", userID).Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *pinRepository) GetByID(ctx context.Context, id string) (*entities.Pin, error) {
	var pin entities.Pin
	if err := r.db.WithContext(ctx).Preload("Bookmarks").Where("id = ?", id).First(&pin).Error; err != nil {
		return nil, err
	}
	return &pin, nil
}

func (r *pinRepository) CreatePin(ctx context.Context, pin *entities.Pin) error {
	return r.db.WithContext(ctx).Omit("Bookmarks").Create(pin).Error
}

func (r *pinRepository) UpdatePin(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entities.Pin{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePin removes the pin and its bookmarks together.
func (r *pinRepository) DeletePin(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pin_id = ?", id).Delete(&entities.PinBookmark{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Pin{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ToggleBookmark adds the bookmark when absent and removes it when present.
// It reports whether the pin is bookmarked afterwards.
func (r *pinRepository) ToggleBookmark(ctx context.Context, pinID string, userID uuid.UUID) (bool, error) {
	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pin entities.Pin
		if err := tx.Select("id").Where("id = ?", pinID).First(&pin).Error; err != nil {
			return err
		}

		var existing entities.PinBookmark
		err := tx.Where("pin_id = ? AND user_id = ?", pinID, userID).First(&existing).Error
		switch {
		case err == nil:
			bookmarked = false
			return tx.Where("pin_id = ? AND user_id = ?", pinID, userID).Delete(&entities.PinBookmark{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			bookmarked = true
			return tx.Create(&entities.PinBookmark{PinID: pin.ID, UserID: userID}).Error
		default:
			return err
		}
	})
	return bookmarked, err
}

func (r *pinRepository) GetBookmarkedPinIDs(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.PinBookmark{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("pin_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *pinRepository) GetBookmarkUserIDs(ctx context.Context, pinID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.PinBookmark{}).
		Where("pin_id = ?", pinID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SeedIfEmpty inserts sample when the pins table has no rows. The sample's
// fixed id makes concurrent seeding insert at most one row.
func (r *pinRepository) SeedIfEmpty(ctx context.Context, sample *entities.Pin) (bool, error) {
	var seeded bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Pin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		res := tx.Omit("Bookmarks").Where(entities.Pin{ID: sample.ID}).FirstOrCreate(sample)
		if res.Error != nil {
			return res.Error
		}
		seeded = res.RowsAffected > 0
		return nil
	})
	return seeded, err
}
