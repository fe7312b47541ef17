package state

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/sdk"
)

const defaultTypingWindow = 3 * time.Second

// Typist is one user currently typing. DisplayName is nil when the
// directory lookup failed; the entry is still shown by id.
type Typist struct {
	UserId      string
	DisplayName *string
}

// TypingTrackerOption configures a TypingTracker
type TypingTrackerOption func(*TypingTracker)

// WithTypingWindow sets the inactivity window
func WithTypingWindow(d time.Duration) TypingTrackerOption {
	return func(t *TypingTracker) {
		if d > 0 {
			t.window = d
		}
	}
}

// TypingTracker handles both halves of typing presence for one
// conversation: announcing the local user's typing state, and tracking who
// else is typing from remote announcements.
//
// Local state machine: idle -> typing on the first keystroke (announces
// start), each keystroke resets the inactivity timer, and the timer firing,
// a send, or Close all return to idle (announce stop).
type TypingTracker struct {
	gw             TypingGateway
	dir            DirectoryGateway
	conversationId string
	selfId         string
	window         time.Duration

	mu       sync.Mutex
	typing   bool
	timer    *time.Timer
	sweep    *time.Timer
	expiries map[string]time.Time
	names    map[string]*string
	closed   bool

	sub      sdk.Subscription
	onChange func(typists []Typist)
}

// NewTypingTracker creates a typing tracker for one conversation
func NewTypingTracker(gw TypingGateway, dir DirectoryGateway, conversationId, selfId string, opts ...TypingTrackerOption) *TypingTracker {
	t := &TypingTracker{
		gw:             gw,
		dir:            dir,
		conversationId: conversationId,
		selfId:         selfId,
		window:         defaultTypingWindow,
		expiries:       make(map[string]time.Time),
		names:          make(map[string]*string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnChange registers the typist snapshot callback. Must be called before
// Start.
func (t *TypingTracker) OnChange(fn func(typists []Typist)) {
	t.onChange = fn
}

// Start subscribes to remote typing announcements
func (t *TypingTracker) Start(ctx context.Context) error {
	sub, err := t.gw.SubscribeTyping(ctx, t.conversationId, t.handleEvent)
	if err != nil {
		return &FetchError{Op: "subscribe", Err: err}
	}

	t.mu.Lock()
	t.sub = sub
	t.mu.Unlock()
	return nil
}

// Close stops the tracker. If the local user was mid-typing a stop
// announcement goes out first.
func (t *TypingTracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	wasTyping := t.typing
	t.typing = false
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.sweep != nil {
		t.sweep.Stop()
	}
	sub := t.sub
	t.mu.Unlock()

	if wasTyping {
		t.announceStop()
	}
	if sub != nil {
		sub.Unsubscribe()
	}
}

// InputActivity records one keystroke. The first one announces typing;
// every one pushes the inactivity timer out by the full window.
func (t *TypingTracker) InputActivity(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}

	first := !t.typing
	t.typing = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.window, t.inactivityExpired)
	t.mu.Unlock()

	if first {
		if err := t.gw.AnnounceTyping(ctx, t.conversationId, true); err != nil {
			return &FetchError{Op: "announce typing", Err: err}
		}
	}
	return nil
}

// MessageSent transitions back to idle immediately, as sending a message
// implies typing finished
func (t *TypingTracker) MessageSent(ctx context.Context) {
	t.stopTyping()
}

// Stop explicitly transitions back to idle
func (t *TypingTracker) Stop(ctx context.Context) {
	t.stopTyping()
}

// Active returns who is currently typing, stale entries excluded, sorted by
// user id for a stable display order
func (t *TypingTracker) Active() []Typist {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeLocked()
}

func (t *TypingTracker) activeLocked() []Typist {
	now := time.Now()
	typists := make([]Typist, 0, len(t.expiries))
	for userId, expiry := range t.expiries {
		if now.After(expiry) {
			delete(t.expiries, userId)
			continue
		}
		typists = append(typists, Typist{UserId: userId, DisplayName: t.names[userId]})
	}
	sort.Slice(typists, func(i, j int) bool {
		return typists[i].UserId < typists[j].UserId
	})
	return typists
}

func (t *TypingTracker) inactivityExpired() {
	t.stopTyping()
}

func (t *TypingTracker) stopTyping() {
	t.mu.Lock()
	if !t.typing || t.closed {
		t.mu.Unlock()
		return
	}
	t.typing = false
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	t.announceStop()
}

func (t *TypingTracker) announceStop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.gw.AnnounceTyping(ctx, t.conversationId, false); err != nil {
		log.Debug("announce typing stop failed: conversation_id=%s, error=%v", t.conversationId, err)
	}
}

// handleEvent applies one remote typing announcement
func (t *TypingTracker) handleEvent(a *sdk.TypingAnnouncement) {
	if a.UserId == t.selfId {
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	needLookup := false
	if a.Typing {
		t.expiries[a.UserId] = time.Now().Add(t.window)
		if _, ok := t.names[a.UserId]; !ok {
			needLookup = true
		}
		// Re-arm the sweep so the entry disappears even if no further
		// announcement arrives
		t.scheduleSweepLocked()
	} else {
		delete(t.expiries, a.UserId)
	}
	t.mu.Unlock()

	if needLookup {
		t.resolveNames()
	}

	t.mu.Lock()
	typists := t.activeLocked()
	t.mu.Unlock()

	t.notify(typists)
}

// scheduleSweepLocked arms the shared expiry timer for the soonest upcoming
// expiry. One timer serves every remote typist; Close stops it.
func (t *TypingTracker) scheduleSweepLocked() {
	var next time.Time
	for _, expiry := range t.expiries {
		if next.IsZero() || expiry.Before(next) {
			next = expiry
		}
	}
	if next.IsZero() {
		return
	}

	d := time.Until(next) + 10*time.Millisecond
	if t.sweep == nil {
		t.sweep = time.AfterFunc(d, t.expiryCheck)
		return
	}
	t.sweep.Stop()
	t.sweep.Reset(d)
}

func (t *TypingTracker) expiryCheck() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	before := len(t.expiries)
	typists := t.activeLocked()
	changed := len(t.expiries) != before
	t.scheduleSweepLocked()
	t.mu.Unlock()

	if changed {
		t.notify(typists)
	}
}

// resolveNames resolves every uncached typist id in one batched directory
// lookup. A failed lookup degrades to a nil name; typist entries are never
// dropped over it.
func (t *TypingTracker) resolveNames() {
	if t.dir == nil {
		return
	}

	t.mu.Lock()
	missing := make([]string, 0)
	for id := range t.expiries {
		if _, ok := t.names[id]; !ok {
			missing = append(missing, id)
		}
	}
	t.mu.Unlock()

	if len(missing) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := t.dir.GetUsers(ctx, missing)
	if err != nil {
		log.Debug("typist name lookup failed: %v", err)
		users = nil
	}

	t.mu.Lock()
	for _, id := range missing {
		t.names[id] = nil
	}
	for _, u := range users {
		name := u.DisplayName
		t.names[u.Id] = &name
	}
	t.mu.Unlock()
}

func (t *TypingTracker) notify(typists []Typist) {
	if t.onChange != nil {
		t.onChange(typists)
	}
}
