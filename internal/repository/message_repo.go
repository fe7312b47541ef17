package repository

import (
	"context"
	"errors"

	"github.com/teamleaf/teamops/internal/entity"
	"gorm.io/gorm"
)

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create creates a new message in tx
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	now := entity.NowUnixMilli()
	if msg.CreatedAt == 0 {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now
	return tx.WithContext(ctx).Create(msg).Error
}

// GetById gets a message by id
func (r *MessageRepo) GetById(ctx context.Context, messageId string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", messageId).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// ListPage returns one page of a conversation's messages. The page is taken
// from the newest end (offset 0 is the latest page) and returned oldest-first
// so callers can render ascending without re-sorting. limit is capped at 100.
func (r *MessageRepo) ListPage(ctx context.Context, conversationId string, limit, offset int) ([]*entity.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse into ascending created_at order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Update updates message fields by id
func (r *MessageRepo) Update(ctx context.Context, messageId string, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("id = ?", messageId).
		Updates(updates).Error
}

// Delete removes a message row entirely
func (r *MessageRepo) Delete(ctx context.Context, messageId string) error {
	return r.db.WithContext(ctx).Where("id = ?", messageId).Delete(&entity.Message{}).Error
}
