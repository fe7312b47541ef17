package state

import (
	"context"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/sdk"
)

// PresenceTracker maintains an online/offline map for a fixed set of user
// ids, and owns the local session's paired online/offline announcements:
// Start announces online, Close announces offline exactly once, on every
// exit path.
type PresenceTracker struct {
	gw      PresenceGateway
	tracked map[string]struct{}

	mu        sync.Mutex
	online    map[string]bool
	announced bool
	closed    bool

	sub      sdk.Subscription
	onChange func(online map[string]bool)
}

// NewPresenceTracker creates a presence tracker for the given user ids
func NewPresenceTracker(gw PresenceGateway, userIds []string) *PresenceTracker {
	tracked := make(map[string]struct{}, len(userIds))
	for _, id := range userIds {
		tracked[id] = struct{}{}
	}
	return &PresenceTracker{
		gw:      gw,
		tracked: tracked,
		online:  make(map[string]bool, len(userIds)),
	}
}

// OnChange registers the presence snapshot callback. Must be called before
// Start.
func (p *PresenceTracker) OnChange(fn func(online map[string]bool)) {
	p.onChange = fn
}

// Start announces the local session online, bulk-fetches the initial status
// of the tracked set and subscribes to announcements. Even when the fetch
// or subscribe fails, the online announcement stands and Close will pair it
// with an offline one.
func (p *PresenceTracker) Start(ctx context.Context) error {
	if err := p.gw.SetOnline(ctx, true); err != nil {
		return &FetchError{Op: "announce online", Err: err}
	}
	p.mu.Lock()
	p.announced = true
	p.mu.Unlock()

	sub, err := p.gw.SubscribePresence(ctx, p.handleEvent)
	if err != nil {
		return &FetchError{Op: "subscribe", Err: err}
	}
	p.mu.Lock()
	p.sub = sub
	p.mu.Unlock()

	ids := make([]string, 0, len(p.tracked))
	for id := range p.tracked {
		ids = append(ids, id)
	}
	status, err := p.gw.QueryOnline(ctx, ids)
	if err != nil {
		return &FetchError{Op: "fetch presence", Err: err}
	}

	p.mu.Lock()
	for id, on := range status {
		if _, ok := p.tracked[id]; ok {
			p.online[id] = on
		}
	}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.notify(snapshot)
	return nil
}

// Close announces the local session offline, pairing the Start
// announcement. Safe to call on every exit path; only the first call does
// anything.
func (p *PresenceTracker) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	announced := p.announced
	sub := p.sub
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if announced {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.gw.SetOnline(ctx, false); err != nil {
			log.Debug("announce offline failed: %v", err)
		}
	}
}

// IsOnline reports the last known status of a tracked user
func (p *PresenceTracker) IsOnline(userId string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userId]
}

// Snapshot returns a copy of the current presence map
func (p *PresenceTracker) Snapshot() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// handleEvent applies one announcement. Untracked ids are ignored, not
// stored.
func (p *PresenceTracker) handleEvent(e *sdk.PresenceEntry) {
	if _, ok := p.tracked[e.UserId]; !ok {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.online[e.UserId] = e.Online
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.notify(snapshot)
}

func (p *PresenceTracker) snapshotLocked() map[string]bool {
	snapshot := make(map[string]bool, len(p.online))
	for id, on := range p.online {
		snapshot[id] = on
	}
	return snapshot
}

func (p *PresenceTracker) notify(snapshot map[string]bool) {
	if p.onChange != nil {
		p.onChange(snapshot)
	}
}
