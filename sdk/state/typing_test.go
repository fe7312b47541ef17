package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamleaf/teamops/sdk"
)

func newTestTracker(g *fakeGateway, window time.Duration) *TypingTracker {
	return NewTypingTracker(g, g, testConv, "alice", WithTypingWindow(window))
}

func TestFirstKeystrokeAnnouncesTyping(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	require.NoError(t, tr.InputActivity(context.Background()))
	require.NoError(t, tr.InputActivity(context.Background()))
	require.NoError(t, tr.InputActivity(context.Background()))

	// Only the idle->typing transition announces
	assert.Equal(t, []typingCall{{testConv, true}}, g.typingAnnouncements())
}

func TestInactivityAnnouncesStop(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, 50*time.Millisecond)
	defer tr.Close()

	require.NoError(t, tr.InputActivity(context.Background()))

	assert.Eventually(t, func() bool {
		calls := g.typingAnnouncements()
		return len(calls) == 2 && !calls[1].typing
	}, time.Second, 10*time.Millisecond, "the inactivity timer must announce stop without an explicit call")
}

func TestKeystrokeResetsInactivityTimer(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, 80*time.Millisecond)
	defer tr.Close()

	require.NoError(t, tr.InputActivity(context.Background()))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, tr.InputActivity(context.Background()))
	time.Sleep(50 * time.Millisecond)

	// 100ms elapsed but the window was pushed out at 50ms; still typing
	assert.Equal(t, []typingCall{{testConv, true}}, g.typingAnnouncements())
}

func TestSendStopsTyping(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	require.NoError(t, tr.InputActivity(context.Background()))
	tr.MessageSent(context.Background())

	assert.Equal(t, []typingCall{{testConv, true}, {testConv, false}}, g.typingAnnouncements())

	// Stop again is a no-op while idle
	tr.Stop(context.Background())
	assert.Len(t, g.typingAnnouncements(), 2)
}

func TestCloseAnnouncesStopWhileTyping(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, time.Second)

	require.NoError(t, tr.InputActivity(context.Background()))
	tr.Close()

	calls := g.typingAnnouncements()
	require.Len(t, calls, 2)
	assert.False(t, calls[1].typing)

	// A second close does not announce again
	tr.Close()
	assert.Len(t, g.typingAnnouncements(), 2)
}

func TestRemoteTypistsResolveNames(t *testing.T) {
	g := newFakeGateway()
	g.users["bob"] = &sdk.UserInfo{Id: "bob", DisplayName: "Bob"}
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "bob", active[0].UserId)
	require.NotNil(t, active[0].DisplayName)
	assert.Equal(t, "Bob", *active[0].DisplayName)
}

func TestLookupFailureKeepsTypistEntry(t *testing.T) {
	g := newFakeGateway()
	g.usersErr = errors.New("directory down")
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})

	active := tr.Active()
	require.Len(t, active, 1, "a failed name lookup must not drop the typist")
	assert.Equal(t, "bob", active[0].UserId)
	assert.Nil(t, active[0].DisplayName)
}

func TestRemoteTypistExpires(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, 40*time.Millisecond)
	defer tr.Close()

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})
	require.Len(t, tr.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(tr.Active()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestStaggeredRemoteTypistsExpireThroughSharedTimer(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, 80*time.Millisecond)
	defer tr.Close()

	var mu sync.Mutex
	var snapshots [][]Typist
	tr.OnChange(func(typists []Typist) {
		mu.Lock()
		snapshots = append(snapshots, typists)
		mu.Unlock()
	})

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})
	time.Sleep(40 * time.Millisecond)
	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "carol", Typing: true})

	// Both entries expire on their own, each pruned by the re-armed sweep
	// timer rather than a timer per announcement
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snapshots) > 0 && len(snapshots[len(snapshots)-1]) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCloseStopsExpirySweep(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, 30*time.Millisecond)

	var count atomic.Int32
	tr.OnChange(func([]Typist) { count.Add(1) })

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})
	tr.Close()

	before := count.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before, count.Load(), "a closed tracker must stay silent")
}

func TestRemoteStopClearsImmediately(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: true})
	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "bob", Typing: false})
	assert.Empty(t, tr.Active())
}

func TestOwnAnnouncementsIgnored(t *testing.T) {
	g := newFakeGateway()
	tr := newTestTracker(g, time.Second)
	defer tr.Close()

	tr.handleEvent(&sdk.TypingAnnouncement{ConversationId: testConv, UserId: "alice", Typing: true})
	assert.Empty(t, tr.Active())
}
