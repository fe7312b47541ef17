package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepo is the repository for team operations
type TeamRepo struct {
	db *gorm.DB
}

// NewTeamRepo creates a new TeamRepo
func NewTeamRepo(db *gorm.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// Create creates a team in tx
func (r *TeamRepo) Create(ctx context.Context, tx *gorm.DB, team *entity.Team) error {
	now := entity.NowUnixMilli()
	team.CreatedAt = now
	team.UpdatedAt = now
	return tx.WithContext(ctx).Create(team).Error
}

// GetById gets a team by id
func (r *TeamRepo) GetById(ctx context.Context, teamId string) (*entity.Team, error) {
	var team entity.Team
	err := r.db.WithContext(ctx).Where("id = ?", teamId).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// AddMember adds a member, idempotently
func (r *TeamRepo) AddMember(ctx context.Context, tx *gorm.DB, teamId, userId string) error {
	member := &entity.TeamMember{
		TeamId:    teamId,
		UserId:    userId,
		CreatedAt: entity.NowUnixMilli(),
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
}

// RemoveMember removes a member
func (r *TeamRepo) RemoveMember(ctx context.Context, teamId, userId string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Delete(&entity.TeamMember{}).Error
}

// GetMemberIds gets all member ids of a team
func (r *TeamRepo) GetMemberIds(ctx context.Context, teamId string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).
		Where("team_id = ?", teamId).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsMember checks team membership
func (r *TeamRepo) IsMember(ctx context.Context, teamId, userId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
