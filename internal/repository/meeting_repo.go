package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// MeetingRepo is the repository for meetings
type MeetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo creates a new MeetingRepo
func NewMeetingRepo(db *gorm.DB) *MeetingRepo {
	return &MeetingRepo{db: db}
}

// Create creates a meeting
func (r *MeetingRepo) Create(ctx context.Context, m *entity.Meeting) error {
	now := entity.NowUnixMilli()
	m.CreatedAt = now
	m.UpdatedAt = now
	return r.db.WithContext(ctx).Create(m).Error
}

// GetById gets a meeting by id
func (r *MeetingRepo) GetById(ctx context.Context, id string) (*entity.Meeting, error) {
	var m entity.Meeting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListRange lists meetings starting within [from, to) unix-milli bounds
func (r *MeetingRepo) ListRange(ctx context.Context, from, to int64) ([]*entity.Meeting, error) {
	var meetings []*entity.Meeting
	err := r.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// Update updates meeting fields by id
func (r *MeetingRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a meeting
func (r *MeetingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Meeting{}).Error
}
