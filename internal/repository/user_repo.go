package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// UserRepo is the repository for user directory operations
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new UserRepo
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetById gets a user by id
func (r *UserRepo) GetById(ctx context.Context, userId string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", userId).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIds gets users by id list, in one query
func (r *UserRepo) GetByIds(ctx context.Context, userIds []string) ([]*entity.User, error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	var users []*entity.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIds).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListByTeam gets all users in a team
func (r *UserRepo) ListByTeam(ctx context.Context, teamId string) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).Where("team_id = ?", teamId).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates user fields
func (r *UserRepo) Update(ctx context.Context, userId string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userId).
		Updates(updates).Error
}
