package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// HolidayRepo is the repository for holidays
type HolidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo creates a new HolidayRepo
func NewHolidayRepo(db *gorm.DB) *HolidayRepo {
	return &HolidayRepo{db: db}
}

// Create creates a holiday
func (r *HolidayRepo) Create(ctx context.Context, h *entity.Holiday) error {
	now := entity.NowUnixMilli()
	h.CreatedAt = now
	h.UpdatedAt = now
	return r.db.WithContext(ctx).Create(h).Error
}

// GetById gets a holiday by id
func (r *HolidayRepo) GetById(ctx context.Context, id string) (*entity.Holiday, error) {
	var h entity.Holiday
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// ListRange lists holidays in the inclusive [from, to] date range
func (r *HolidayRepo) ListRange(ctx context.Context, from, to string) ([]*entity.Holiday, error) {
	var holidays []*entity.Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}

// Delete removes a holiday
func (r *HolidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Holiday{}).Error
}
