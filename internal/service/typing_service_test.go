package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/pkg/constant"
)

// capturePublisher records published change events
type capturePublisher struct {
	events []*entity.ChangeEvent
}

func (p *capturePublisher) Publish(ev *entity.ChangeEvent) {
	p.events = append(p.events, ev)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestTypingAnnounceAndExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewTypingService(rdb, 3*time.Second)
	svc.SetPublisher(pub)
	ctx := context.Background()

	require.NoError(t, svc.Announce(ctx, "conv1", "alice", true))

	typists, err := svc.ActiveTypists(ctx, "conv1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, typists)

	// The key self-expires after the typing window; no explicit stop needed
	mr.FastForward(4 * time.Second)

	typists, err = svc.ActiveTypists(ctx, "conv1")
	require.NoError(t, err)
	assert.Empty(t, typists)
}

func TestTypingExplicitStop(t *testing.T) {
	_, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewTypingService(rdb, 3*time.Second)
	svc.SetPublisher(pub)
	ctx := context.Background()

	require.NoError(t, svc.Announce(ctx, "conv1", "alice", true))
	require.NoError(t, svc.Announce(ctx, "conv1", "alice", false))

	typists, err := svc.ActiveTypists(ctx, "conv1")
	require.NoError(t, err)
	assert.Empty(t, typists)

	require.Len(t, pub.events, 2)
	start := pub.events[0].Record.(*TypingAnnouncement)
	stop := pub.events[1].Record.(*TypingAnnouncement)
	assert.True(t, start.Typing)
	assert.False(t, stop.Typing)
	assert.Equal(t, "conv1", pub.events[0].ConversationId, "typing events are scoped to the conversation")
	assert.Equal(t, constant.CollectionTyping, pub.events[0].Collection)
}

func TestTypingScopedPerConversation(t *testing.T) {
	_, rdb := newTestRedis(t)

	svc := NewTypingService(rdb, 3*time.Second)
	ctx := context.Background()

	require.NoError(t, svc.Announce(ctx, "conv1", "alice", true))
	require.NoError(t, svc.Announce(ctx, "conv2", "bob", true))

	typists, err := svc.ActiveTypists(ctx, "conv1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, typists)
}

func TestTypingRejectsEmptyIds(t *testing.T) {
	_, rdb := newTestRedis(t)
	svc := NewTypingService(rdb, 3*time.Second)

	assert.Error(t, svc.Announce(context.Background(), "", "alice", true))
	assert.Error(t, svc.Announce(context.Background(), "conv1", "", true))
}
