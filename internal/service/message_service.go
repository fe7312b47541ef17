package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mbeoliero/kit/log"
	"github.com/microcosm-cc/bluemonday"
	"github.com/teamleaf/teamops/internal/config"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/idgen"
	"gorm.io/gorm"
)

// lastMessageSummaryLen caps the conversation last-message preview
const lastMessageSummaryLen = 120

// MessageService handles message-related business logic
type MessageService struct {
	msgRepo   *repository.MessageRepo
	convRepo  *repository.ConversationRepo
	repos     *repository.Repositories
	publisher EventPublisher
	sanitizer *bluemonday.Policy
	maxLen    int
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories, cfg *config.Config) *MessageService {
	return &MessageService{
		msgRepo:   repos.Message,
		convRepo:  repos.Conversation,
		repos:     repos,
		publisher: nopPublisher{},
		sanitizer: bluemonday.StrictPolicy(),
		maxLen:    cfg.Sync.MaxMessageLength,
	}
}

// SetPublisher sets the change event publisher
func (s *MessageService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	ConversationId string              `json:"conversation_id"`
	Content        string              `json:"content"`
	Attachments    []entity.Attachment `json:"attachments,omitempty"`
}

// SendMessage validates, persists and fans out a new message. The content is
// sanitized to plain text before storage.
func (s *MessageService) SendMessage(ctx context.Context, senderId string, req *SendMessageRequest) (*entity.Message, error) {
	if req.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" && len(req.Attachments) == 0 {
		return nil, errcode.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.maxLen {
		return nil, errcode.ErrContentTooLong
	}

	participant, err := s.convRepo.GetParticipant(ctx, req.ConversationId, senderId)
	if err != nil {
		log.CtxError(ctx, "get participant failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if participant == nil {
		return nil, errcode.ErrNotParticipant
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate message id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	msg := &entity.Message{
		Id:             id,
		ConversationId: req.ConversationId,
		SenderId:       senderId,
		Content:        &content,
		CreatedAt:      now,
	}
	if err := msg.SetAttachments(req.Attachments); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}
		return s.convRepo.BumpLastMessage(ctx, tx, req.ConversationId, senderId, summarize(content), now)
	})
	if err != nil {
		log.CtxError(ctx, "create message failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	s.publishMessageEvent(ctx, constant.EventInsert, msg)
	return msg, nil
}

// ListMessages returns one page of a conversation's messages, oldest-first.
// offset counts back from the newest message.
func (s *MessageService) ListMessages(ctx context.Context, userId, conversationId string, limit, offset int) ([]*entity.Message, error) {
	participant, err := s.convRepo.GetParticipant(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "get participant failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if participant == nil {
		return nil, errcode.ErrNotParticipant
	}

	messages, err := s.msgRepo.ListPage(ctx, conversationId, limit, offset)
	if err != nil {
		log.CtxError(ctx, "list messages failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	return messages, nil
}

// EditMessage updates a message's content and stamps edited_at
func (s *MessageService) EditMessage(ctx context.Context, userId, messageId, newContent string) (*entity.Message, error) {
	content := strings.TrimSpace(s.sanitizer.Sanitize(newContent))
	if content == "" {
		return nil, errcode.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.maxLen {
		return nil, errcode.ErrContentTooLong
	}

	msg, err := s.getOwnMessage(ctx, userId, messageId)
	if err != nil {
		return nil, err
	}

	now := entity.NowUnixMilli()
	err = s.msgRepo.Update(ctx, messageId, map[string]interface{}{
		"content":   content,
		"edited_at": now,
	})
	if err != nil {
		log.CtxError(ctx, "edit message failed: message_id=%s, error=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}

	msg.Content = &content
	msg.EditedAt = &now
	s.publishMessageEvent(ctx, constant.EventUpdate, msg)
	return msg, nil
}

// DeleteMessage deletes a message. Soft deletion (the default) stamps
// deleted_at and clears the content; hard deletion removes the row.
func (s *MessageService) DeleteMessage(ctx context.Context, userId, messageId string, hard bool) error {
	msg, err := s.getOwnMessage(ctx, userId, messageId)
	if err != nil {
		return err
	}

	if hard {
		if err := s.msgRepo.Delete(ctx, messageId); err != nil {
			log.CtxError(ctx, "delete message failed: message_id=%s, error=%v", messageId, err)
			return errcode.ErrInternalServer
		}
		s.publishMessageEvent(ctx, constant.EventDelete, msg)
		return nil
	}

	now := entity.NowUnixMilli()
	err = s.msgRepo.Update(ctx, messageId, map[string]interface{}{
		"content":    nil,
		"deleted_at": now,
	})
	if err != nil {
		log.CtxError(ctx, "soft delete message failed: message_id=%s, error=%v", messageId, err)
		return errcode.ErrInternalServer
	}

	msg.Content = nil
	msg.DeletedAt = &now
	s.publishMessageEvent(ctx, constant.EventUpdate, msg)
	return nil
}

// getOwnMessage loads a message and checks sender ownership
func (s *MessageService) getOwnMessage(ctx context.Context, userId, messageId string) (*entity.Message, error) {
	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: message_id=%s, error=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}
	if msg == nil {
		return nil, errcode.ErrMessageNotFound
	}
	if msg.SenderId != userId {
		return nil, errcode.ErrNotSender
	}
	return msg, nil
}

// publishMessageEvent fans a message change out to conversation subscribers
func (s *MessageService) publishMessageEvent(ctx context.Context, eventType string, msg *entity.Message) {
	s.publisher.Publish(&entity.ChangeEvent{
		Type:           eventType,
		Collection:     constant.CollectionMessages,
		Record:         msg.ToMessageInfo(),
		ConversationId: msg.ConversationId,
	})
}

// summarize trims content down to the last-message preview length
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= lastMessageSummaryLen {
		return content
	}
	return string(runes[:lastMessageSummaryLen])
}
