package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceFirstConnFlipsOnline(t *testing.T) {
	_, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewPresenceService(rdb)
	svc.SetPublisher(pub)
	ctx := context.Background()

	svc.ConnOpened(ctx, "alice")
	svc.ConnOpened(ctx, "alice")

	online, err := svc.QueryOnline(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.True(t, online["alice"])

	// Only the first connection broadcasts
	require.Len(t, pub.events, 1)
	entry := pub.events[0].Record.(*PresenceEntry)
	assert.Equal(t, "alice", entry.UserId)
	assert.True(t, entry.Online)
}

func TestPresenceLastCloseFlipsOffline(t *testing.T) {
	_, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewPresenceService(rdb)
	svc.SetPublisher(pub)
	ctx := context.Background()

	svc.ConnOpened(ctx, "alice")
	svc.ConnOpened(ctx, "alice")
	svc.ConnClosed(ctx, "alice")

	online, err := svc.QueryOnline(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.True(t, online["alice"], "one connection still open")

	svc.ConnClosed(ctx, "alice")

	online, err = svc.QueryOnline(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.False(t, online["alice"])

	require.Len(t, pub.events, 2)
	entry := pub.events[1].Record.(*PresenceEntry)
	assert.False(t, entry.Online)
}

func TestPresenceUnbalancedCloseResetsCounter(t *testing.T) {
	_, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewPresenceService(rdb)
	svc.SetPublisher(pub)
	ctx := context.Background()

	svc.ConnClosed(ctx, "alice")
	svc.ConnOpened(ctx, "alice")

	online, err := svc.QueryOnline(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.True(t, online["alice"], "counter must not stay negative after an unmatched close")
}

func TestPresenceQueryOnlineBatch(t *testing.T) {
	_, rdb := newTestRedis(t)

	svc := NewPresenceService(rdb)
	ctx := context.Background()

	svc.ConnOpened(ctx, "alice")
	svc.ConnOpened(ctx, "carol")

	online, err := svc.QueryOnline(ctx, []string{"alice", "bob", "carol"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"alice": true, "bob": false, "carol": true}, online)
}

func TestPresenceQueryOnlineEmpty(t *testing.T) {
	_, rdb := newTestRedis(t)

	svc := NewPresenceService(rdb)
	online, err := svc.QueryOnline(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestPresenceSetOnlinePairing(t *testing.T) {
	_, rdb := newTestRedis(t)
	pub := &capturePublisher{}

	svc := NewPresenceService(rdb)
	svc.SetPublisher(pub)
	ctx := context.Background()

	require.NoError(t, svc.SetOnline(ctx, "alice", true))
	require.NoError(t, svc.SetOnline(ctx, "alice", false))
	assert.Error(t, svc.SetOnline(ctx, "", true))

	require.Len(t, pub.events, 2)
	assert.True(t, pub.events[0].Record.(*PresenceEntry).Online)
	assert.False(t, pub.events[1].Record.(*PresenceEntry).Online)
}
