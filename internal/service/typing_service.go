package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"

	"github.com/teamleaf/teamops/internal/entity"
)

// TypingAnnouncement is the typing record carried on typing change events
type TypingAnnouncement struct {
	ConversationId string `json:"conversation_id"`
	UserId         string `json:"user_id"`
	Typing         bool   `json:"typing"`
}

// TypingService tracks ephemeral typing state in Redis. An announcement is a
// key with the typing-window TTL, so stale typists expire on their own even
// when the explicit stop never arrives.
type TypingService struct {
	rdb       *redis.Client
	window    time.Duration
	publisher EventPublisher
}

// NewTypingService creates a new TypingService
func NewTypingService(rdb *redis.Client, window time.Duration) *TypingService {
	if window <= 0 {
		window = 3 * time.Second
	}
	return &TypingService{
		rdb:       rdb,
		window:    window,
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *TypingService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// Announce records or clears one user's typing state for a conversation and
// fans the announcement out to conversation subscribers.
func (s *TypingService) Announce(ctx context.Context, conversationId, userId string, typing bool) error {
	if conversationId == "" || userId == "" {
		return errcode.ErrInvalidParam
	}

	key := fmt.Sprintf(constant.RedisKeyTyping(), conversationId, userId)
	var err error
	if typing {
		err = s.rdb.Set(ctx, key, "1", s.window).Err()
	} else {
		err = s.rdb.Del(ctx, key).Err()
	}
	if err != nil {
		log.CtxError(ctx, "store typing state failed: conversation_id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}

	s.publisher.Publish(&entity.ChangeEvent{
		Type:       constant.EventUpdate,
		Collection: constant.CollectionTyping,
		Record: &TypingAnnouncement{
			ConversationId: conversationId,
			UserId:         userId,
			Typing:         typing,
		},
		ConversationId: conversationId,
	})
	return nil
}

// ActiveTypists returns user ids with a live typing announcement for the
// conversation. Expiry is handled by the key TTL.
func (s *TypingService) ActiveTypists(ctx context.Context, conversationId string) ([]string, error) {
	pattern := fmt.Sprintf(constant.RedisKeyTyping(), conversationId, "*")
	prefix := fmt.Sprintf(constant.RedisKeyTyping(), conversationId, "")

	var userIds []string
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		userIds = append(userIds, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		log.CtxError(ctx, "scan typing keys failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	return userIds, nil
}
