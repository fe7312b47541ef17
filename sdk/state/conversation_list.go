package state

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/sdk"
)

// ConversationListOption configures a ConversationList
type ConversationListOption func(*ConversationList)

// WithListRefreshInterval sets the silent refresh interval
func WithListRefreshInterval(d time.Duration) ConversationListOption {
	return func(l *ConversationList) {
		if d > 0 {
			l.refreshEvery = d
		}
	}
}

// ConversationList is the authoritative local view of the caller's
// conversation list, sorted most-recent first. Background refreshes only
// swap the list when something meaningfully changed, so an unchanged poll
// keeps the exact same slice and triggers no re-render.
type ConversationList struct {
	gw           ConversationGateway
	refreshEvery time.Duration

	mu            sync.Mutex
	conversations []*sdk.ConversationInfo
	closed        bool

	sub         sdk.Subscription
	stopRefresh chan struct{}
	onChange    func(snapshot []*sdk.ConversationInfo)
}

// NewConversationList creates a conversation list client
func NewConversationList(gw ConversationGateway, opts ...ConversationListOption) *ConversationList {
	l := &ConversationList{
		gw:           gw,
		refreshEvery: defaultRefreshInterval,
		stopRefresh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnChange registers the snapshot callback. Must be called before Start.
func (l *ConversationList) OnChange(fn func(snapshot []*sdk.ConversationInfo)) {
	l.onChange = fn
}

// Start fetches the full list, subscribes to push events and starts the
// background silent refresh.
func (l *ConversationList) Start(ctx context.Context) error {
	sub, err := l.gw.SubscribeConversations(ctx, l.handleEvent)
	if err != nil {
		return &FetchError{Op: "subscribe", Err: err}
	}

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()

	if err := l.FetchAll(ctx); err != nil {
		return err
	}

	go l.refreshLoop()
	return nil
}

// Close tears the list down
func (l *ConversationList) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	sub := l.sub
	l.mu.Unlock()

	close(l.stopRefresh)
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Snapshot returns the current list, most recent first. The returned slice
// is shared with future unchanged refreshes; callers must not mutate it.
func (l *ConversationList) Snapshot() []*sdk.ConversationInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conversations
}

// TotalUnread sums the unread counts across all conversations
func (l *ConversationList) TotalUnread() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, c := range l.conversations {
		total += c.UnreadCount
	}
	return total
}

// FetchAll replaces the list with a fresh fetch
func (l *ConversationList) FetchAll(ctx context.Context) error {
	convs, err := l.gw.ListConversations(ctx)
	if err != nil {
		return &FetchError{Op: "fetch conversations", Err: err}
	}
	sortConversations(convs)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.conversations = convs
	l.mu.Unlock()

	l.notify(convs)
	return nil
}

// SilentRefresh fetches the list and swaps local state only when it differs
// meaningfully from the cached copy. Failures are swallowed; a background
// poll must never interrupt the user.
func (l *ConversationList) SilentRefresh(ctx context.Context) {
	convs, err := l.gw.ListConversations(ctx)
	if err != nil {
		log.Debug("silent conversation refresh failed: %v", err)
		return
	}
	sortConversations(convs)

	l.mu.Lock()
	if l.closed || !meaningfullyDifferent(l.conversations, convs) {
		l.mu.Unlock()
		return
	}
	l.conversations = convs
	l.mu.Unlock()

	l.notify(convs)
}

// StartDirect gets or creates the direct conversation with a peer, then
// refreshes the list so the new entry shows up immediately.
func (l *ConversationList) StartDirect(ctx context.Context, peerId string) (*sdk.ConversationInfo, error) {
	conv, err := l.gw.StartDirectConversation(ctx, peerId)
	if err != nil {
		return nil, &FetchError{Op: "start direct conversation", Err: err}
	}

	if err := l.FetchAll(ctx); err != nil {
		log.Debug("refresh after start direct failed: %v", err)
	}
	return conv, nil
}

// handleEvent merges one pushed conversation change
func (l *ConversationList) handleEvent(evType string, conv *sdk.ConversationInfo) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}

	next := make([]*sdk.ConversationInfo, 0, len(l.conversations)+1)
	found := false
	for _, c := range l.conversations {
		if c.ConversationId == conv.ConversationId {
			found = true
			if evType != sdk.EventDelete {
				next = append(next, conv)
			}
			continue
		}
		next = append(next, c)
	}
	if !found && evType != sdk.EventDelete {
		next = append(next, conv)
	}
	sortConversations(next)
	l.conversations = next
	l.mu.Unlock()

	l.notify(next)
}

func (l *ConversationList) refreshLoop() {
	ticker := time.NewTicker(l.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			l.SilentRefresh(ctx)
			cancel()
		case <-l.stopRefresh:
			return
		}
	}
}

func (l *ConversationList) notify(snapshot []*sdk.ConversationInfo) {
	if l.onChange != nil {
		l.onChange(snapshot)
	}
}

// sortConversations orders by last-message timestamp descending, falling
// back to creation time for conversations with no messages yet
func sortConversations(convs []*sdk.ConversationInfo) {
	sort.SliceStable(convs, func(i, j int) bool {
		return sortKey(convs[i]) > sortKey(convs[j])
	})
}

func sortKey(c *sdk.ConversationInfo) int64 {
	if c.LastMessageAt > 0 {
		return c.LastMessageAt
	}
	return c.CreatedAt
}

// meaningfullyDifferent reports whether swapping current for fetched would
// change anything a list view renders: membership, unread counts, or the
// last-message summary line.
func meaningfullyDifferent(current, fetched []*sdk.ConversationInfo) bool {
	if len(current) != len(fetched) {
		return true
	}

	byId := make(map[string]*sdk.ConversationInfo, len(current))
	for _, c := range current {
		byId[c.ConversationId] = c
	}

	for _, f := range fetched {
		c, ok := byId[f.ConversationId]
		if !ok {
			return true
		}
		if c.UnreadCount != f.UnreadCount || c.LastMessageAt != f.LastMessageAt {
			return true
		}
		if !equalStringPtr(c.LastMessage, f.LastMessage) {
			return true
		}
	}
	return false
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
