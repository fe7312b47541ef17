package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/pkg/errcode"
)

// UserService serves the user directory
type UserService struct {
	userRepo *repository.UserRepo
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser gets one user's public info
func (s *UserService) GetUser(ctx context.Context, userId string) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

// GetUsers gets public info for a batch of user ids in one lookup. Unknown
// ids are simply absent from the result.
func (s *UserService) GetUsers(ctx context.Context, userIds []string) ([]*entity.UserInfo, error) {
	users, err := s.userRepo.GetByIds(ctx, userIds)
	if err != nil {
		log.CtxError(ctx, "get users failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}

	result := make([]*entity.UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToUserInfo())
	}
	return result, nil
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userId string, req *UpdateProfileRequest) error {
	updates := make(map[string]interface{})
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.userRepo.Update(ctx, userId, updates); err != nil {
		log.CtxError(ctx, "update profile failed: user_id=%s, error=%v", userId, err)
		return errcode.ErrInternalServer
	}
	return nil
}
