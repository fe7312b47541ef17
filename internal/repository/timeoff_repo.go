package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// TimeOffRepo is the repository for time-off entries
type TimeOffRepo struct {
	db *gorm.DB
}

// NewTimeOffRepo creates a new TimeOffRepo
func NewTimeOffRepo(db *gorm.DB) *TimeOffRepo {
	return &TimeOffRepo{db: db}
}

// Create creates a time-off entry
func (r *TimeOffRepo) Create(ctx context.Context, e *entity.TimeOffEntry) error {
	now := entity.NowUnixMilli()
	e.CreatedAt = now
	e.UpdatedAt = now
	return r.db.WithContext(ctx).Create(e).Error
}

// GetById gets an entry by id
func (r *TimeOffRepo) GetById(ctx context.Context, id string) (*entity.TimeOffEntry, error) {
	var e entity.TimeOffEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListRange lists entries overlapping the inclusive [from, to] date range.
// userId narrows to one user when non-empty.
func (r *TimeOffRepo) ListRange(ctx context.Context, from, to, userId string) ([]*entity.TimeOffEntry, error) {
	q := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from)
	if userId != "" {
		q = q.Where("user_id = ?", userId)
	}

	var entries []*entity.TimeOffEntry
	err := q.Order("start_date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountOverlapping counts a user's entries overlapping the given range,
// excluding excludeId when non-empty.
func (r *TimeOffRepo) CountOverlapping(ctx context.Context, userId, from, to, excludeId string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.TimeOffEntry{}).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userId, to, from)
	if excludeId != "" {
		q = q.Where("id <> ?", excludeId)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// Update updates entry fields by id
func (r *TimeOffRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.TimeOffEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes an entry
func (r *TimeOffRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.TimeOffEntry{}).Error
}
