package state

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamleaf/teamops/sdk"
)

const testConv = "dc_alice:bob"

func newTestStore(g *fakeGateway, opts ...MessageStoreOption) *MessageStore {
	return NewMessageStore(g, testConv, "alice", opts...)
}

func ids(msgs []*sdk.MessageInfo) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Id
	}
	return out
}

func assertAscending(t *testing.T, msgs []*sdk.MessageInfo) {
	t.Helper()
	for i := 1; i < len(msgs); i++ {
		assert.LessOrEqual(t, msgs[i-1].CreatedAt, msgs[i].CreatedAt,
			"created_at must be non-decreasing at index %d", i)
	}
}

func TestSendDeduplicatesAgainstPushAndRefresh(t *testing.T) {
	g := newFakeGateway()
	s := newTestStore(g)

	confirmed, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	// The push notification for the sender's own message races the send
	// confirmation; it must not add a second copy
	s.handleEvent(sdk.EventInsert, confirmed)

	// Neither must a background refresh returning the same id
	s.silentRefresh()

	count := 0
	for _, m := range s.Snapshot() {
		if m.Id == confirmed.Id {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, s.Snapshot(), 1)
}

func TestSendConfirmDeduplicatesEarlyPush(t *testing.T) {
	g := newFakeGateway()
	s := newTestStore(g)

	// The push insert for the sender's own message arrives while the send
	// call is still in flight, before the confirmation returns
	g.sendHook = func(m *sdk.MessageInfo) {
		s.handleEvent(sdk.EventInsert, m)
	}

	confirmed, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	count := 0
	for _, m := range s.Snapshot() {
		if m.Id == confirmed.Id {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, s.Snapshot(), 1)
	for _, m := range s.Snapshot() {
		assert.False(t, m.Sending, "temp entry must be gone after confirmation")
	}
}

func TestStartFetchFailureUnsubscribes(t *testing.T) {
	g := newFakeGateway()
	g.listErr = errors.New("backend down")
	s := newTestStore(g)

	require.Error(t, s.Start(context.Background()))
	require.NotNil(t, g.msgSub)
	assert.True(t, g.msgSub.unsubscribed, "subscription must not outlive a failed start")
}

func TestOrderPreservedAcrossMerges(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv,
		msg("m1", 100, "one"),
		msg("m2", 200, "two"),
		msg("m3", 300, "three"),
		msg("m4", 400, "four"),
	)

	s := newTestStore(g, WithPageSize(2))
	require.NoError(t, s.FetchPage(context.Background(), 0))
	assertAscending(t, s.Snapshot())
	assert.Equal(t, []string{"m3", "m4"}, ids(s.Snapshot()))

	require.NoError(t, s.LoadMore(context.Background()))
	assertAscending(t, s.Snapshot())
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ids(s.Snapshot()))

	s.handleEvent(sdk.EventInsert, msg("m5", 500, "five"))
	assertAscending(t, s.Snapshot())
}

func TestSendValidation(t *testing.T) {
	g := newFakeGateway()
	s := newTestStore(g, WithMaxContentLength(10))

	_, err := s.Send(context.Background(), "   ")
	assert.True(t, IsValidationError(err))

	_, err = s.Send(context.Background(), strings.Repeat("x", 11))
	assert.True(t, IsValidationError(err))

	// Nothing reached the gateway and nothing was inserted locally
	assert.Empty(t, s.Snapshot())
	assert.Zero(t, g.nextId)
}

func TestSendFailureRollsBackOptimisticEntry(t *testing.T) {
	g := newFakeGateway()
	g.sendErr = errors.New("backend down")
	s := newTestStore(g)

	var sawPending bool
	s.OnChange(func(snapshot []*sdk.MessageInfo) {
		for _, m := range snapshot {
			if m.Sending {
				sawPending = true
			}
		}
	})

	_, err := s.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, sawPending, "optimistic entry should have appeared before the failure")

	for _, m := range s.Snapshot() {
		assert.False(t, strings.HasPrefix(m.Id, tempIdPrefix))
	}
	assert.Empty(t, s.Snapshot())
}

func TestSendConfirmReplacesInPlace(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("a", 10, "a"), msg("b", 20, "b"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	var afterOptimistic []*sdk.MessageInfo
	s.OnChange(func(snapshot []*sdk.MessageInfo) {
		if afterOptimistic == nil && len(snapshot) == 3 && snapshot[2].Sending {
			afterOptimistic = snapshot
		}
	})

	confirmed, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	require.NotNil(t, afterOptimistic, "optimistic entry should appear at the tail immediately")
	assert.True(t, strings.HasPrefix(afterOptimistic[2].Id, tempIdPrefix))
	assert.True(t, afterOptimistic[2].Sending)

	final := s.Snapshot()
	require.Len(t, final, len(afterOptimistic), "replace must not change list length")
	assert.Equal(t, confirmed.Id, final[2].Id)
	assert.False(t, final[2].Sending)
	assert.Equal(t, "hello", *final[2].Content)
}

func TestSendMarksConversationRead(t *testing.T) {
	g := newFakeGateway()
	s := newTestStore(g)

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{testConv}, g.markReadCalls)
}

func TestLoadMoreDeduplicatesOverlap(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv,
		msg("m0", 100, "zero"),
		msg("m1", 200, "one"),
		msg("m2", 300, "two"),
	)

	s := newTestStore(g, WithPageSize(2))
	require.NoError(t, s.FetchPage(context.Background(), 0))
	require.Equal(t, []string{"m1", "m2"}, ids(s.Snapshot()))

	// Overlap the pages: the older fetch returns m0 and m1 again
	g.mu.Lock()
	g.messages[testConv] = []*sdk.MessageInfo{
		msg("m0", 100, "zero"),
		msg("m1", 200, "one"),
		msg("m1", 200, "one"),
		msg("m2", 300, "two"),
	}
	g.mu.Unlock()

	require.NoError(t, s.LoadMore(context.Background()))
	assert.Equal(t, []string{"m0", "m1", "m2"}, ids(s.Snapshot()))
}

func TestLoadMoreNoopWithoutMoreHistory(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g, WithPageSize(10))
	require.NoError(t, s.FetchPage(context.Background(), 0))
	assert.False(t, s.HasMore(), "short page means no more history")

	calls := g.listCalls
	require.NoError(t, s.LoadMore(context.Background()))
	assert.Equal(t, calls, g.listCalls, "loadMore should not hit the gateway")
}

func TestFetchErrorKeepsExistingState(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	g.listErr = errors.New("backend down")
	err := s.FetchPage(context.Background(), 0)
	require.Error(t, err)

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"m1"}, ids(s.Snapshot()), "failed fetch must not clear state")
}

func TestSilentRefreshMergesOnlyUnseen(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	notifications := 0
	s.OnChange(func([]*sdk.MessageInfo) { notifications++ })

	// Unchanged backend: no notification
	s.silentRefresh()
	assert.Zero(t, notifications)

	g.seedMessages(testConv, msg("m2", 200, "two"))
	s.silentRefresh()
	assert.Equal(t, 1, notifications)
	assert.Equal(t, []string{"m1", "m2"}, ids(s.Snapshot()))
}

func TestMessageSilentRefreshSwallowsErrors(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	g.listErr = errors.New("backend down")
	s.silentRefresh()
	assert.Equal(t, []string{"m1"}, ids(s.Snapshot()))
}

func TestStaleFetchDiscardedAfterClose(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	s.Close()
	assert.ErrorIs(t, s.FetchPage(context.Background(), 0), ErrClosed)
	_, err := s.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUpdateAndDeleteEvents(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"), msg("m2", 200, "two"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	edited := msg("m1", 100, "edited")
	s.handleEvent(sdk.EventUpdate, edited)
	assert.Equal(t, "edited", *s.Snapshot()[0].Content)

	s.handleEvent(sdk.EventDelete, msg("m2", 200, "two"))
	assert.Equal(t, []string{"m1"}, ids(s.Snapshot()))
}

func TestDeleteConfirmsBeforeRemoving(t *testing.T) {
	g := newFakeGateway()
	g.seedMessages(testConv, msg("m1", 100, "one"))

	s := newTestStore(g)
	require.NoError(t, s.FetchPage(context.Background(), 0))

	require.NoError(t, s.Delete(context.Background(), "m1", true))
	assert.Empty(t, s.Snapshot())
}
