package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/teamleaf/teamops/sdk"
)

// fakeSub records unsubscribe calls
type fakeSub struct {
	unsubscribed bool
}

func (s *fakeSub) Unsubscribe() { s.unsubscribed = true }

type typingCall struct {
	conversationId string
	typing         bool
}

// fakeGateway is an in-memory gateway implementing every interface the sync
// layer consumes. Handlers registered through Subscribe* can be invoked by
// tests to simulate push events.
type fakeGateway struct {
	mu sync.Mutex

	messages      map[string][]*sdk.MessageInfo // ascending created_at
	conversations []*sdk.ConversationInfo
	users         map[string]*sdk.UserInfo
	onlineStatus  map[string]bool

	nextId int

	sendErr  error
	listErr  error
	queryErr error
	usersErr error

	// sendHook runs after SendMessage stored the message, before it
	// returns. Lets tests race a push delivery against the confirmation.
	sendHook func(m *sdk.MessageInfo)

	msgSub *fakeSub

	markReadCalls []string
	typingCalls   []typingCall
	onlineCalls   []bool
	listCalls     int

	msgHandler      func(evType string, msg *sdk.MessageInfo)
	convHandler     func(evType string, conv *sdk.ConversationInfo)
	typingHandler   func(t *sdk.TypingAnnouncement)
	presenceHandler func(p *sdk.PresenceEntry)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		messages:     make(map[string][]*sdk.MessageInfo),
		users:        make(map[string]*sdk.UserInfo),
		onlineStatus: make(map[string]bool),
	}
}

func strPtr(s string) *string { return &s }

func msg(id string, createdAt int64, content string) *sdk.MessageInfo {
	return &sdk.MessageInfo{
		Id:        id,
		Content:   strPtr(content),
		CreatedAt: createdAt,
	}
}

func (g *fakeGateway) seedMessages(conversationId string, msgs ...*sdk.MessageInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages[conversationId] = append(g.messages[conversationId], msgs...)
}

// ListMessages pages backwards from the newest message, each page ascending,
// matching the server's pagination contract
func (g *fakeGateway) ListMessages(ctx context.Context, conversationId string, limit, offset int) ([]*sdk.MessageInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++

	if g.listErr != nil {
		return nil, g.listErr
	}

	all := g.messages[conversationId]
	end := len(all) - offset
	if end <= 0 {
		return nil, nil
	}
	start := end - limit
	if start < 0 {
		start = 0
	}

	page := make([]*sdk.MessageInfo, end-start)
	copy(page, all[start:end])
	return page, nil
}

func (g *fakeGateway) SendMessage(ctx context.Context, req *sdk.SendMessageRequest) (*sdk.MessageInfo, error) {
	g.mu.Lock()

	if g.sendErr != nil {
		g.mu.Unlock()
		return nil, g.sendErr
	}

	g.nextId++
	m := &sdk.MessageInfo{
		Id:             fmt.Sprintf("m%d", g.nextId),
		ConversationId: req.ConversationId,
		Content:        strPtr(req.Content),
		CreatedAt:      int64(1000 + g.nextId),
	}
	g.messages[req.ConversationId] = append(g.messages[req.ConversationId], m)
	hook := g.sendHook
	g.mu.Unlock()

	if hook != nil {
		hook(m)
	}
	return m, nil
}

func (g *fakeGateway) EditMessage(ctx context.Context, messageId, content string) (*sdk.MessageInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, msgs := range g.messages {
		for _, m := range msgs {
			if m.Id == messageId {
				updated := *m
				updated.Content = strPtr(content)
				return &updated, nil
			}
		}
	}
	return nil, sdk.ErrMessageNotFound
}

func (g *fakeGateway) DeleteMessage(ctx context.Context, messageId string, hard bool) error {
	return nil
}

func (g *fakeGateway) MarkRead(ctx context.Context, conversationId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.markReadCalls = append(g.markReadCalls, conversationId)
	return nil
}

func (g *fakeGateway) SubscribeMessages(ctx context.Context, conversationId string, handler func(evType string, msg *sdk.MessageInfo)) (sdk.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.msgHandler = handler
	g.msgSub = &fakeSub{}
	return g.msgSub, nil
}

func (g *fakeGateway) ListConversations(ctx context.Context) ([]*sdk.ConversationInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++

	if g.listErr != nil {
		return nil, g.listErr
	}

	out := make([]*sdk.ConversationInfo, len(g.conversations))
	for i, c := range g.conversations {
		copied := *c
		out[i] = &copied
	}
	return out, nil
}

func (g *fakeGateway) StartDirectConversation(ctx context.Context, peerId string) (*sdk.ConversationInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := "dc_me:" + peerId
	for _, c := range g.conversations {
		if c.ConversationId == id {
			return c, nil
		}
	}
	conv := &sdk.ConversationInfo{
		ConversationId: id,
		Type:           sdk.ConversationDirect,
		PeerUserId:     peerId,
		CreatedAt:      1,
	}
	g.conversations = append(g.conversations, conv)
	return conv, nil
}

func (g *fakeGateway) SubscribeConversations(ctx context.Context, handler func(evType string, conv *sdk.ConversationInfo)) (sdk.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.convHandler = handler
	return &fakeSub{}, nil
}

func (g *fakeGateway) AnnounceTyping(ctx context.Context, conversationId string, typing bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.typingCalls = append(g.typingCalls, typingCall{conversationId, typing})
	return nil
}

func (g *fakeGateway) SubscribeTyping(ctx context.Context, conversationId string, handler func(t *sdk.TypingAnnouncement)) (sdk.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.typingHandler = handler
	return &fakeSub{}, nil
}

func (g *fakeGateway) SetOnline(ctx context.Context, online bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onlineCalls = append(g.onlineCalls, online)
	return nil
}

func (g *fakeGateway) QueryOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.queryErr != nil {
		return nil, g.queryErr
	}

	out := make(map[string]bool, len(userIds))
	for _, id := range userIds {
		out[id] = g.onlineStatus[id]
	}
	return out, nil
}

func (g *fakeGateway) SubscribePresence(ctx context.Context, handler func(p *sdk.PresenceEntry)) (sdk.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presenceHandler = handler
	return &fakeSub{}, nil
}

func (g *fakeGateway) GetUsers(ctx context.Context, userIds []string) ([]*sdk.UserInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.usersErr != nil {
		return nil, g.usersErr
	}

	out := make([]*sdk.UserInfo, 0, len(userIds))
	for _, id := range userIds {
		if u, ok := g.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (g *fakeGateway) typingAnnouncements() []typingCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]typingCall, len(g.typingCalls))
	copy(out, g.typingCalls)
	return out
}

func (g *fakeGateway) onlineAnnouncements() []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]bool, len(g.onlineCalls))
	copy(out, g.onlineCalls)
	return out
}
