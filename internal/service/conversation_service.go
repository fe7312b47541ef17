package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"
	"gorm.io/gorm"
)

// ConversationService handles conversation-related business logic
type ConversationService struct {
	convRepo  *repository.ConversationRepo
	userRepo  *repository.UserRepo
	repos     *repository.Repositories
	publisher EventPublisher
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories) *ConversationService {
	return &ConversationService{
		convRepo:  repos.Conversation,
		userRepo:  repos.User,
		repos:     repos,
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *ConversationService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// ListConversations gets all conversations visible to a user, folded with the
// user's own membership state, most recent activity first.
func (s *ConversationService) ListConversations(ctx context.Context, userId string) ([]*entity.ConversationInfo, error) {
	convs, memberships, err := s.convRepo.ListByUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	result := make([]*entity.ConversationInfo, 0, len(convs))
	for _, conv := range convs {
		info, err := s.toInfo(ctx, conv, memberships[conv.Id], userId)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

// GetConversation gets one conversation as seen by a user
func (s *ConversationService) GetConversation(ctx context.Context, userId, conversationId string) (*entity.ConversationInfo, error) {
	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}

	participant, err := s.convRepo.GetParticipant(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "get participant failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if participant == nil {
		return nil, errcode.ErrNotParticipant
	}

	return s.toInfo(ctx, conv, participant, userId)
}

// StartDirectConversation gets or creates the direct conversation between the
// caller and peer. Direct conversations are deduplicated by participant pair.
func (s *ConversationService) StartDirectConversation(ctx context.Context, userId, peerId string) (*entity.ConversationInfo, error) {
	if peerId == "" {
		return nil, errcode.ErrInvalidParam
	}
	if peerId == userId {
		return nil, errcode.ErrSelfConversation
	}

	peer, err := s.userRepo.GetById(ctx, peerId)
	if err != nil {
		log.CtxError(ctx, "get peer user failed: peer_id=%s, error=%v", peerId, err)
		return nil, errcode.ErrInternalServer
	}
	if peer == nil {
		return nil, errcode.ErrUserNotFound
	}

	convId := entity.GenDirectConversationId(userId, peerId)
	existing, err := s.convRepo.GetById(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%s, error=%v", convId, err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil {
		return s.GetConversation(ctx, userId, convId)
	}

	conv := &entity.Conversation{
		Id:        convId,
		Type:      constant.ConversationTypeDirect,
		CreatedBy: userId,
	}
	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		return s.convRepo.Create(ctx, tx, conv, []string{userId, peerId})
	})
	if err != nil {
		log.CtxError(ctx, "create direct conversation failed: conversation_id=%s, error=%v", convId, err)
		return nil, errcode.ErrInternalServer
	}

	info, err := s.GetConversation(ctx, userId, convId)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(&entity.ChangeEvent{
		Type:           constant.EventInsert,
		Collection:     constant.CollectionConversations,
		Record:         conv,
		ConversationId: convId,
		UserIds:        []string{userId, peerId},
	})
	return info, nil
}

// MarkRead zeroes the caller's unread count for a conversation. This is the
// only path that resets unread.
func (s *ConversationService) MarkRead(ctx context.Context, userId, conversationId string) error {
	participant, err := s.convRepo.GetParticipant(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "get participant failed: conversation_id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	if participant == nil {
		return errcode.ErrNotParticipant
	}

	if err := s.convRepo.MarkRead(ctx, conversationId, userId); err != nil {
		log.CtxError(ctx, "mark read failed: conversation_id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// SetArchived flips the caller's archived flag for a conversation
func (s *ConversationService) SetArchived(ctx context.Context, userId, conversationId string, archived bool) error {
	participant, err := s.convRepo.GetParticipant(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "get participant failed: conversation_id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	if participant == nil {
		return errcode.ErrNotParticipant
	}

	if err := s.convRepo.SetArchived(ctx, conversationId, userId, archived); err != nil {
		log.CtxError(ctx, "set archived failed: conversation_id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// toInfo folds a conversation and one membership row into the per-user view.
// For direct conversations the counterpart user id is resolved from the id.
func (s *ConversationService) toInfo(ctx context.Context, conv *entity.Conversation, participant *entity.Participant, userId string) (*entity.ConversationInfo, error) {
	parts, err := s.convRepo.GetParticipants(ctx, conv.Id)
	if err != nil {
		log.CtxError(ctx, "get participants failed: conversation_id=%s, error=%v", conv.Id, err)
		return nil, errcode.ErrInternalServer
	}

	participantIds := make([]string, 0, len(parts))
	for _, p := range parts {
		participantIds = append(participantIds, p.UserId)
	}

	info := &entity.ConversationInfo{
		ConversationId: conv.Id,
		Type:           conv.Type,
		Name:           conv.Name,
		TeamId:         conv.TeamId,
		LastMessage:    conv.LastMessage,
		LastMessageAt:  conv.LastMessageAt,
		ParticipantIds: participantIds,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
	}
	if participant != nil {
		info.UnreadCount = participant.UnreadCount
		info.IsArchived = participant.IsArchived
	}
	if conv.Type == constant.ConversationTypeDirect {
		info.PeerUserId = directPeer(conv.Id, userId)
	}
	return info, nil
}

// directPeer extracts the counterpart user id from a direct conversation id
func directPeer(conversationId, userId string) string {
	raw := strings.TrimPrefix(conversationId, constant.DirectConversationPrefix)
	pair := strings.SplitN(raw, ":", 2)
	if len(pair) != 2 {
		return ""
	}
	if pair[0] == userId {
		return pair[1]
	}
	return pair[0]
}
