package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/idgen"
	"gorm.io/gorm"
)

// TeamService handles team-related business logic. Every team owns a team
// conversation; membership changes keep the participant rows in step.
type TeamService struct {
	teamRepo *repository.TeamRepo
	convRepo *repository.ConversationRepo
	repos    *repository.Repositories
}

// NewTeamService creates a new TeamService
func NewTeamService(repos *repository.Repositories) *TeamService {
	return &TeamService{
		teamRepo: repos.Team,
		convRepo: repos.Conversation,
		repos:    repos,
	}
}

// CreateTeamRequest represents a create team request
type CreateTeamRequest struct {
	Name      string   `json:"name"`
	MemberIds []string `json:"member_ids"`
}

// CreateTeam creates a team, its membership rows and its team conversation
func (s *TeamService) CreateTeam(ctx context.Context, ownerId string, req *CreateTeamRequest) (*entity.TeamInfo, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errcode.ErrInvalidParam
	}

	teamId, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate team id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	convId, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate conversation id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	memberIds := dedupeWith(req.MemberIds, ownerId)

	team := &entity.Team{
		Id:             teamId,
		Name:           name,
		OwnerId:        ownerId,
		ConversationId: convId,
	}
	conv := &entity.Conversation{
		Id:        convId,
		Type:      constant.ConversationTypeTeam,
		Name:      &name,
		TeamId:    teamId,
		CreatedBy: ownerId,
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			return err
		}
		for _, uid := range memberIds {
			if err := s.teamRepo.AddMember(ctx, tx, teamId, uid); err != nil {
				return err
			}
		}
		return s.convRepo.Create(ctx, tx, conv, memberIds)
	})
	if err != nil {
		log.CtxError(ctx, "create team failed: name=%s, error=%v", name, err)
		return nil, errcode.ErrInternalServer
	}

	return &entity.TeamInfo{
		Id:             teamId,
		Name:           name,
		OwnerId:        ownerId,
		ConversationId: convId,
		MemberIds:      memberIds,
		CreatedAt:      team.CreatedAt,
	}, nil
}

// GetTeam gets team info with members
func (s *TeamService) GetTeam(ctx context.Context, teamId string) (*entity.TeamInfo, error) {
	team, err := s.teamRepo.GetById(ctx, teamId)
	if err != nil {
		log.CtxError(ctx, "get team failed: team_id=%s, error=%v", teamId, err)
		return nil, errcode.ErrInternalServer
	}
	if team == nil {
		return nil, errcode.ErrTeamNotFound
	}

	memberIds, err := s.teamRepo.GetMemberIds(ctx, teamId)
	if err != nil {
		log.CtxError(ctx, "get team members failed: team_id=%s, error=%v", teamId, err)
		return nil, errcode.ErrInternalServer
	}

	return &entity.TeamInfo{
		Id:             team.Id,
		Name:           team.Name,
		OwnerId:        team.OwnerId,
		ConversationId: team.ConversationId,
		MemberIds:      memberIds,
		CreatedAt:      team.CreatedAt,
	}, nil
}

// AddMember adds a user to the team and its conversation
func (s *TeamService) AddMember(ctx context.Context, teamId, userId string) error {
	team, err := s.teamRepo.GetById(ctx, teamId)
	if err != nil {
		log.CtxError(ctx, "get team failed: team_id=%s, error=%v", teamId, err)
		return errcode.ErrInternalServer
	}
	if team == nil {
		return errcode.ErrTeamNotFound
	}

	isMember, err := s.teamRepo.IsMember(ctx, teamId, userId)
	if err != nil {
		log.CtxError(ctx, "check membership failed: team_id=%s, error=%v", teamId, err)
		return errcode.ErrInternalServer
	}
	if isMember {
		return errcode.ErrAlreadyTeamMember
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.teamRepo.AddMember(ctx, tx, teamId, userId); err != nil {
			return err
		}
		now := entity.NowUnixMilli()
		return tx.WithContext(ctx).Create(&entity.Participant{
			ConversationId: team.ConversationId,
			UserId:         userId,
			CreatedAt:      now,
			UpdatedAt:      now,
		}).Error
	})
	if err != nil {
		log.CtxError(ctx, "add team member failed: team_id=%s, user_id=%s, error=%v", teamId, userId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// dedupeWith returns ids deduplicated with required always included
func dedupeWith(ids []string, required string) []string {
	seen := map[string]bool{required: true}
	result := []string{required}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
