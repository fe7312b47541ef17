package service

import (
	"context"
	"fmt"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"
)

// PresenceEntry is the presence record carried on presence change events
type PresenceEntry struct {
	UserId string `json:"user_id"`
	Online bool   `json:"online"`
}

// PresenceService tracks online state in Redis. A user can hold several
// stream connections; the online flag drops only when the last one goes.
type PresenceService struct {
	rdb       *redis.Client
	publisher EventPublisher
}

// NewPresenceService creates a new PresenceService
func NewPresenceService(rdb *redis.Client) *PresenceService {
	return &PresenceService{
		rdb:       rdb,
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *PresenceService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// ConnOpened counts a new connection for the user. The first connection flips
// the user online and broadcasts the change.
func (s *PresenceService) ConnOpened(ctx context.Context, userId string) {
	connsKey := fmt.Sprintf(constant.RedisKeyOnlineConns(), userId)
	count, err := s.rdb.Incr(ctx, connsKey).Result()
	if err != nil {
		log.CtxError(ctx, "incr online conns failed: user_id=%s, error=%v", userId, err)
		return
	}
	if count != 1 {
		return
	}

	if err := s.rdb.Set(ctx, fmt.Sprintf(constant.RedisKeyOnline(), userId), constant.StatusOnline, 0).Err(); err != nil {
		log.CtxError(ctx, "set online failed: user_id=%s, error=%v", userId, err)
	}
	s.broadcast(userId, true)
}

// ConnClosed counts a closed connection. The last close flips the user
// offline and broadcasts the change.
func (s *PresenceService) ConnClosed(ctx context.Context, userId string) {
	connsKey := fmt.Sprintf(constant.RedisKeyOnlineConns(), userId)
	count, err := s.rdb.Decr(ctx, connsKey).Result()
	if err != nil {
		log.CtxError(ctx, "decr online conns failed: user_id=%s, error=%v", userId, err)
		return
	}
	if count > 0 {
		return
	}

	// Guard against unbalanced close calls leaving a negative counter
	if count < 0 {
		s.rdb.Set(ctx, connsKey, 0, 0)
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf(constant.RedisKeyOnline(), userId)).Err(); err != nil {
		log.CtxError(ctx, "del online failed: user_id=%s, error=%v", userId, err)
	}
	s.broadcast(userId, false)
}

// SetOnline explicitly announces a session's own status, for clients that
// manage presence over the HTTP API rather than a stream connection.
func (s *PresenceService) SetOnline(ctx context.Context, userId string, online bool) error {
	if userId == "" {
		return errcode.ErrInvalidParam
	}
	if online {
		s.ConnOpened(ctx, userId)
	} else {
		s.ConnClosed(ctx, userId)
	}
	return nil
}

// QueryOnline bulk-queries online status for a set of user ids
func (s *PresenceService) QueryOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	result := make(map[string]bool, len(userIds))
	if len(userIds) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(userIds))
	for _, uid := range userIds {
		keys = append(keys, fmt.Sprintf(constant.RedisKeyOnline(), uid))
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.CtxError(ctx, "mget online failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}
	for i, uid := range userIds {
		result[uid] = vals[i] != nil
	}
	return result, nil
}

// broadcast publishes a presence change to all subscribers
func (s *PresenceService) broadcast(userId string, online bool) {
	s.publisher.Publish(&entity.ChangeEvent{
		Type:       constant.EventUpdate,
		Collection: constant.CollectionPresence,
		Record: &PresenceEntry{
			UserId: userId,
			Online: online,
		},
	})
}
