package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamleaf/teamops/sdk"
)

func conv(id string, lastMessageAt, createdAt, unread int64, lastMessage string) *sdk.ConversationInfo {
	c := &sdk.ConversationInfo{
		ConversationId: id,
		Type:           sdk.ConversationDirect,
		LastMessageAt:  lastMessageAt,
		CreatedAt:      createdAt,
		UnreadCount:    unread,
	}
	if lastMessage != "" {
		c.LastMessage = strPtr(lastMessage)
	}
	return c
}

func convIds(convs []*sdk.ConversationInfo) []string {
	out := make([]string, len(convs))
	for i, c := range convs {
		out[i] = c.ConversationId
	}
	return out
}

func TestFetchAllSortsMostRecentFirst(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 0, "old"),
		conv("c2", 300, 2, 0, "new"),
		// No messages yet: sorts by creation time
		conv("c3", 0, 200, 0, ""),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	assert.Equal(t, []string{"c2", "c3", "c1"}, convIds(l.Snapshot()))
}

func TestSilentRefreshRetainsIdentityWhenUnchanged(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 2, "hello"),
		conv("c2", 300, 2, 0, "world"),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	first := l.Snapshot()
	l.SilentRefresh(context.Background())
	second := l.Snapshot()
	l.SilentRefresh(context.Background())
	third := l.Snapshot()

	require.NotEmpty(t, first)
	assert.True(t, &first[0] == &second[0], "unchanged refresh must retain the exact slice")
	assert.True(t, &second[0] == &third[0])
	assert.Same(t, first[0], second[0])
}

func TestSilentRefreshSwapsOnMeaningfulChange(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 0, "hello"),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	notifications := 0
	l.OnChange(func([]*sdk.ConversationInfo) { notifications++ })

	g.mu.Lock()
	g.conversations[0].UnreadCount = 5
	g.mu.Unlock()

	l.SilentRefresh(context.Background())
	assert.Equal(t, 1, notifications)
	assert.Equal(t, int64(5), l.Snapshot()[0].UnreadCount)
}

func TestSilentRefreshSwallowsErrors(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 0, "hello"),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	g.listErr = errors.New("backend down")
	l.SilentRefresh(context.Background())

	assert.Equal(t, []string{"c1"}, convIds(l.Snapshot()))
}

func TestStartDirectGetOrCreate(t *testing.T) {
	g := newFakeGateway()
	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	first, err := l.StartDirect(context.Background(), "bob")
	require.NoError(t, err)

	second, err := l.StartDirect(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationId, second.ConversationId)

	// The refresh after creation pulled the new conversation in
	assert.Equal(t, []string{first.ConversationId}, convIds(l.Snapshot()))
}

func TestTotalUnread(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 2, "a"),
		conv("c2", 200, 2, 3, "b"),
		conv("c3", 300, 3, 0, "c"),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))
	assert.Equal(t, int64(5), l.TotalUnread())
}

func TestConversationPushEvents(t *testing.T) {
	g := newFakeGateway()
	g.conversations = []*sdk.ConversationInfo{
		conv("c1", 100, 1, 0, "a"),
	}

	l := NewConversationList(g)
	require.NoError(t, l.FetchAll(context.Background()))

	l.handleEvent(sdk.EventInsert, conv("c2", 200, 2, 1, "b"))
	assert.Equal(t, []string{"c2", "c1"}, convIds(l.Snapshot()))

	updated := conv("c1", 300, 1, 4, "fresh")
	l.handleEvent(sdk.EventUpdate, updated)
	assert.Equal(t, []string{"c1", "c2"}, convIds(l.Snapshot()))
	assert.Equal(t, int64(4), l.Snapshot()[0].UnreadCount)
}
