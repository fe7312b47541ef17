package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// TimesheetRepo is the repository for timesheet entries
type TimesheetRepo struct {
	db *gorm.DB
}

// NewTimesheetRepo creates a new TimesheetRepo
func NewTimesheetRepo(db *gorm.DB) *TimesheetRepo {
	return &TimesheetRepo{db: db}
}

// Create creates a timesheet entry
func (r *TimesheetRepo) Create(ctx context.Context, e *entity.TimesheetEntry) error {
	now := entity.NowUnixMilli()
	e.CreatedAt = now
	e.UpdatedAt = now
	return r.db.WithContext(ctx).Create(e).Error
}

// GetById gets an entry by id
func (r *TimesheetRepo) GetById(ctx context.Context, id string) (*entity.TimesheetEntry, error) {
	var e entity.TimesheetEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListRange lists a user's entries for the inclusive [from, to] date range
func (r *TimesheetRepo) ListRange(ctx context.Context, userId, from, to string) ([]*entity.TimesheetEntry, error) {
	var entries []*entity.TimesheetEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date >= ? AND work_date <= ?", userId, from, to).
		Order("work_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumMinutes totals a user's logged minutes over a date range
func (r *TimesheetRepo) SumMinutes(ctx context.Context, userId, from, to string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.TimesheetEntry{}).
		Where("user_id = ? AND work_date >= ? AND work_date <= ?", userId, from, to).
		Select("COALESCE(SUM(minutes), 0)").
		Scan(&total).Error
	return total, err
}

// Update updates entry fields by id
func (r *TimesheetRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.TimesheetEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes an entry
func (r *TimesheetRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.TimesheetEntry{}).Error
}
