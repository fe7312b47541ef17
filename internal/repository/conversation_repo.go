package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepo is the repository for conversation and participant rows
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create creates a conversation with its participant rows in tx
func (r *ConversationRepo) Create(ctx context.Context, tx *gorm.DB, conv *entity.Conversation, participantIds []string) error {
	now := entity.NowUnixMilli()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if err := tx.WithContext(ctx).Create(conv).Error; err != nil {
		return err
	}

	parts := make([]*entity.Participant, 0, len(participantIds))
	for _, uid := range participantIds {
		parts = append(parts, &entity.Participant{
			ConversationId: conv.Id,
			UserId:         uid,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(parts).Error
}

// GetById gets a conversation by id
func (r *ConversationRepo) GetById(ctx context.Context, conversationId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", conversationId).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetParticipant gets one user's membership row
func (r *ConversationRepo) GetParticipant(ctx context.Context, conversationId, userId string) (*entity.Participant, error) {
	var p entity.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetParticipants gets all membership rows of a conversation
func (r *ConversationRepo) GetParticipants(ctx context.Context, conversationId string) ([]*entity.Participant, error) {
	var parts []*entity.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// ListByUser gets all conversations a user participates in, most recent
// activity first, together with the user's own membership row.
func (r *ConversationRepo) ListByUser(ctx context.Context, userId string) ([]*entity.Conversation, map[string]*entity.Participant, error) {
	var memberships []*entity.Participant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Find(&memberships).Error
	if err != nil {
		return nil, nil, err
	}
	if len(memberships) == 0 {
		return nil, nil, nil
	}

	byConv := make(map[string]*entity.Participant, len(memberships))
	convIds := make([]string, 0, len(memberships))
	for _, m := range memberships {
		byConv[m.ConversationId] = m
		convIds = append(convIds, m.ConversationId)
	}

	var convs []*entity.Conversation
	err = r.db.WithContext(ctx).
		Where("id IN ?", convIds).
		Order("last_message_at DESC, created_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, nil, err
	}
	return convs, byConv, nil
}

// BumpLastMessage updates the conversation's last-message summary and
// increments unread for every participant except the sender, in tx.
func (r *ConversationRepo) BumpLastMessage(ctx context.Context, tx *gorm.DB, conversationId, senderId, summary string, at int64) error {
	err := tx.WithContext(ctx).Model(&entity.Conversation{}).
		Where("id = ?", conversationId).
		Updates(map[string]interface{}{
			"last_message":    summary,
			"last_message_at": at,
			"updated_at":      at,
		}).Error
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&entity.Participant{}).
		Where("conversation_id = ? AND user_id <> ?", conversationId, senderId).
		Updates(map[string]interface{}{
			"unread_count": gorm.Expr("unread_count + 1"),
			"updated_at":   at,
		}).Error
}

// MarkRead zeroes one participant's unread count
func (r *ConversationRepo) MarkRead(ctx context.Context, conversationId, userId string) error {
	now := entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"last_read_at": now,
			"updated_at":   now,
		}).Error
}

// SetArchived flips one participant's archived flag. Conversations are never
// hard-deleted, archival only.
func (r *ConversationRepo) SetArchived(ctx context.Context, conversationId, userId string, archived bool) error {
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  entity.NowUnixMilli(),
		}).Error
}
