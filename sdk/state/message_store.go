package state

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/sdk"
)

const (
	defaultPageSize         = 50
	defaultRefreshInterval  = 30 * time.Second
	defaultMaxContentLength = 4000

	tempIdPrefix = "temp-"
)

// MessageStoreOption configures a MessageStore
type MessageStoreOption func(*MessageStore)

// WithPageSize sets the fetch page size
func WithPageSize(n int) MessageStoreOption {
	return func(s *MessageStore) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRefreshInterval sets the silent refresh interval
func WithRefreshInterval(d time.Duration) MessageStoreOption {
	return func(s *MessageStore) {
		if d > 0 {
			s.refreshEvery = d
		}
	}
}

// WithMaxContentLength sets the local send length limit
func WithMaxContentLength(n int) MessageStoreOption {
	return func(s *MessageStore) {
		if n > 0 {
			s.maxContentLen = n
		}
	}
}

// MessageStore is the authoritative local view of one conversation's message
// history, kept in ascending created-at order. It merges three input paths
// through one reconcile function: explicit fetches, push events, and the
// background silent refresh.
type MessageStore struct {
	gw             MessageGateway
	conversationId string
	selfId         string
	pageSize       int
	maxContentLen  int
	refreshEvery   time.Duration

	mu         sync.Mutex
	messages   []*sdk.MessageInfo
	hasMore    bool
	fetching   bool
	generation int
	closed     bool

	sub         sdk.Subscription
	stopRefresh chan struct{}
	onChange    func(snapshot []*sdk.MessageInfo)
}

// NewMessageStore creates a message store for one conversation. selfId is
// the local user, used as the sender on optimistic entries.
func NewMessageStore(gw MessageGateway, conversationId, selfId string, opts ...MessageStoreOption) *MessageStore {
	s := &MessageStore{
		gw:             gw,
		conversationId: conversationId,
		selfId:         selfId,
		pageSize:       defaultPageSize,
		maxContentLen:  defaultMaxContentLength,
		refreshEvery:   defaultRefreshInterval,
		stopRefresh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers the snapshot callback. Must be called before Start.
func (s *MessageStore) OnChange(fn func(snapshot []*sdk.MessageInfo)) {
	s.onChange = fn
}

// Start loads the newest page, subscribes to push events and starts the
// background silent refresh.
func (s *MessageStore) Start(ctx context.Context) error {
	sub, err := s.gw.SubscribeMessages(ctx, s.conversationId, s.handleEvent)
	if err != nil {
		return &FetchError{Op: "subscribe", Err: err}
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	if err := s.FetchPage(ctx, 0); err != nil {
		// Leave no live subscription behind a failed start
		sub.Unsubscribe()
		s.mu.Lock()
		s.sub = nil
		s.mu.Unlock()
		return err
	}

	go s.refreshLoop()
	return nil
}

// Close tears the store down: unsubscribes, stops the refresh loop, and
// invalidates in-flight fetches so late responses are discarded.
func (s *MessageStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	sub := s.sub
	s.mu.Unlock()

	close(s.stopRefresh)
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Snapshot returns a copy of the current message list, oldest first
func (s *MessageStore) Snapshot() []*sdk.MessageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HasMore reports whether older pages are likely available
func (s *MessageStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// FetchPage fetches one page. offset=0 replaces local state with the newest
// page (optimistic in-flight entries are kept); offset>0 prepends older
// messages. A page exactly pageSize long means more history likely exists.
func (s *MessageStore) FetchPage(ctx context.Context, offset int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	gen := s.generation
	s.mu.Unlock()

	page, err := s.gw.ListMessages(ctx, s.conversationId, s.pageSize, offset)
	if err != nil {
		return &FetchError{Op: "fetch messages", Err: err}
	}

	s.mu.Lock()
	if s.generation != gen {
		// The store was closed or reset while the fetch was in flight
		s.mu.Unlock()
		return nil
	}

	if offset == 0 {
		pending := make([]*sdk.MessageInfo, 0)
		for _, m := range s.messages {
			if m.Sending {
				pending = append(pending, m)
			}
		}
		s.messages = append(page, pending...)
	} else {
		s.reconcileLocked(page, true)
	}
	s.hasMore = len(page) == s.pageSize

	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// LoadMore fetches the next older page. No-op when no more history is
// expected or a fetch is already in flight.
func (s *MessageStore) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.hasMore || s.fetching {
		s.mu.Unlock()
		return nil
	}
	s.fetching = true
	offset := 0
	for _, m := range s.messages {
		if !m.Sending {
			offset++
		}
	}
	s.mu.Unlock()

	err := s.FetchPage(ctx, offset)

	s.mu.Lock()
	s.fetching = false
	s.mu.Unlock()

	return err
}

// Send validates and optimistically appends the message, then confirms it
// with the server. The temporary entry is replaced in place on success and
// removed on failure. Sending also marks the conversation read for the
// sender.
func (s *MessageStore) Send(ctx context.Context, content string) (*sdk.MessageInfo, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, &ValidationError{Field: "content", Reason: "is empty"}
	}
	if utf8.RuneCountInString(trimmed) > s.maxContentLen {
		return nil, &ValidationError{Field: "content", Reason: fmt.Sprintf("exceeds %d characters", s.maxContentLen)}
	}

	temp := &sdk.MessageInfo{
		Id:             fmt.Sprintf("%s%d", tempIdPrefix, time.Now().UnixNano()),
		ConversationId: s.conversationId,
		SenderId:       s.selfId,
		Content:        &trimmed,
		CreatedAt:      time.Now().UnixMilli(),
		Sending:        true,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.messages = append(s.messages, temp)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	confirmed, err := s.gw.SendMessage(ctx, &sdk.SendMessageRequest{
		ConversationId: s.conversationId,
		Content:        trimmed,
	})
	if err != nil {
		s.mu.Lock()
		s.removeLocked(temp.Id)
		snapshot = s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snapshot)
		return nil, &FetchError{Op: "send", Err: err}
	}

	s.mu.Lock()
	if s.containsLocked(confirmed.Id) {
		// The push insert for our own message beat the confirmation;
		// drop the temp entry rather than duplicating the durable id
		s.removeLocked(temp.Id)
	} else {
		replaced := false
		for i, m := range s.messages {
			if m.Id == temp.Id {
				s.messages[i] = confirmed
				replaced = true
				break
			}
		}
		if !replaced {
			s.reconcileLocked([]*sdk.MessageInfo{confirmed}, false)
		}
	}
	snapshot = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	if err := s.gw.MarkRead(ctx, s.conversationId); err != nil {
		log.Debug("mark read after send failed: conversation_id=%s, error=%v", s.conversationId, err)
	}

	return confirmed, nil
}

// Edit replaces a message's content. Local state changes only after the
// server confirms.
func (s *MessageStore) Edit(ctx context.Context, messageId, newContent string) error {
	updated, err := s.gw.EditMessage(ctx, messageId, newContent)
	if err != nil {
		return &FetchError{Op: "edit", Err: err}
	}

	s.mu.Lock()
	for i, m := range s.messages {
		if m.Id == updated.Id {
			s.messages[i] = updated
			break
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// Delete removes a message after server confirmation. Deliberately not
// optimistic: a vanished-then-reappearing message is worse than a short
// delay.
func (s *MessageStore) Delete(ctx context.Context, messageId string, hard bool) error {
	if err := s.gw.DeleteMessage(ctx, messageId, hard); err != nil {
		return &FetchError{Op: "delete", Err: err}
	}

	if hard {
		s.mu.Lock()
		s.removeLocked(messageId)
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snapshot)
	}
	return nil
}

// handleEvent merges a push event. Insert events dedup by id since the
// sender's own confirmed message may arrive here as well.
func (s *MessageStore) handleEvent(evType string, msg *sdk.MessageInfo) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	switch evType {
	case sdk.EventInsert:
		s.reconcileLocked([]*sdk.MessageInfo{msg}, false)
	case sdk.EventUpdate:
		for i, m := range s.messages {
			if m.Id == msg.Id {
				s.messages[i] = msg
				break
			}
		}
	case sdk.EventDelete:
		s.removeLocked(msg.Id)
	}

	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// refreshLoop re-fetches the newest page on a fixed interval and merges
// unseen messages. Failures are logged and swallowed; background sync must
// never surface errors.
func (s *MessageStore) refreshLoop() {
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.silentRefresh()
		case <-s.stopRefresh:
			return
		}
	}
}

func (s *MessageStore) silentRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	page, err := s.gw.ListMessages(ctx, s.conversationId, s.pageSize, 0)
	if err != nil {
		log.Debug("silent message refresh failed: conversation_id=%s, error=%v", s.conversationId, err)
		return
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	changed := s.reconcileLocked(page, false)
	var snapshot []*sdk.MessageInfo
	if changed {
		snapshot = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.notify(snapshot)
	}
}

// reconcileLocked merges incoming messages, adding only ids not already
// present. Existing entries are never reordered. Reports whether anything
// was added. Every merge path (push insert, load-more prepend, silent
// refresh) funnels through here so the dedup rule cannot diverge.
func (s *MessageStore) reconcileLocked(incoming []*sdk.MessageInfo, prepend bool) bool {
	seen := make(map[string]struct{}, len(s.messages))
	for _, m := range s.messages {
		seen[m.Id] = struct{}{}
	}

	fresh := make([]*sdk.MessageInfo, 0, len(incoming))
	for _, m := range incoming {
		if _, ok := seen[m.Id]; ok {
			continue
		}
		seen[m.Id] = struct{}{}
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		return false
	}

	if prepend {
		s.messages = append(fresh, s.messages...)
	} else {
		s.messages = append(s.messages, fresh...)
		// A late-arriving older message must not break ascending order
		if !sort.SliceIsSorted(s.messages, func(i, j int) bool {
			return s.messages[i].CreatedAt < s.messages[j].CreatedAt
		}) {
			sort.SliceStable(s.messages, func(i, j int) bool {
				return s.messages[i].CreatedAt < s.messages[j].CreatedAt
			})
		}
	}
	return true
}

func (s *MessageStore) containsLocked(messageId string) bool {
	for _, m := range s.messages {
		if m.Id == messageId {
			return true
		}
	}
	return false
}

func (s *MessageStore) removeLocked(messageId string) {
	for i, m := range s.messages {
		if m.Id == messageId {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

func (s *MessageStore) snapshotLocked() []*sdk.MessageInfo {
	snapshot := make([]*sdk.MessageInfo, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

func (s *MessageStore) notify(snapshot []*sdk.MessageInfo) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}
