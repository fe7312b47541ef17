// Package state holds the stateful client-side sync layer: local views of
// messages, conversations, typing and presence that stay consistent with
// the server through both explicit fetches and the change stream.
package state

import (
	"context"

	"github.com/teamleaf/teamops/sdk"
)

// MessageGateway is the slice of the API a MessageStore needs
type MessageGateway interface {
	ListMessages(ctx context.Context, conversationId string, limit, offset int) ([]*sdk.MessageInfo, error)
	SendMessage(ctx context.Context, req *sdk.SendMessageRequest) (*sdk.MessageInfo, error)
	EditMessage(ctx context.Context, messageId, content string) (*sdk.MessageInfo, error)
	DeleteMessage(ctx context.Context, messageId string, hard bool) error
	MarkRead(ctx context.Context, conversationId string) error
	SubscribeMessages(ctx context.Context, conversationId string, handler func(evType string, msg *sdk.MessageInfo)) (sdk.Subscription, error)
}

// ConversationGateway is the slice of the API a ConversationList needs
type ConversationGateway interface {
	ListConversations(ctx context.Context) ([]*sdk.ConversationInfo, error)
	StartDirectConversation(ctx context.Context, peerId string) (*sdk.ConversationInfo, error)
	SubscribeConversations(ctx context.Context, handler func(evType string, conv *sdk.ConversationInfo)) (sdk.Subscription, error)
}

// TypingGateway is the slice of the API a TypingTracker needs
type TypingGateway interface {
	AnnounceTyping(ctx context.Context, conversationId string, typing bool) error
	SubscribeTyping(ctx context.Context, conversationId string, handler func(t *sdk.TypingAnnouncement)) (sdk.Subscription, error)
}

// PresenceGateway is the slice of the API a PresenceTracker needs
type PresenceGateway interface {
	SetOnline(ctx context.Context, online bool) error
	QueryOnline(ctx context.Context, userIds []string) (map[string]bool, error)
	SubscribePresence(ctx context.Context, handler func(p *sdk.PresenceEntry)) (sdk.Subscription, error)
}

// DirectoryGateway resolves user ids to profiles
type DirectoryGateway interface {
	GetUsers(ctx context.Context, userIds []string) ([]*sdk.UserInfo, error)
}

// Gateway bundles an API client and an open stream into the gateway
// interfaces the sync layer consumes
type Gateway struct {
	api    *sdk.Client
	stream *sdk.Stream
}

// NewGateway creates a Gateway from an API client and an open stream
func NewGateway(api *sdk.Client, stream *sdk.Stream) *Gateway {
	return &Gateway{api: api, stream: stream}
}

func (g *Gateway) ListMessages(ctx context.Context, conversationId string, limit, offset int) ([]*sdk.MessageInfo, error) {
	return g.api.ListMessages(ctx, conversationId, limit, offset)
}

func (g *Gateway) SendMessage(ctx context.Context, req *sdk.SendMessageRequest) (*sdk.MessageInfo, error) {
	return g.api.SendMessage(ctx, req)
}

func (g *Gateway) EditMessage(ctx context.Context, messageId, content string) (*sdk.MessageInfo, error) {
	return g.api.EditMessage(ctx, messageId, content)
}

func (g *Gateway) DeleteMessage(ctx context.Context, messageId string, hard bool) error {
	return g.api.DeleteMessage(ctx, messageId, hard)
}

func (g *Gateway) MarkRead(ctx context.Context, conversationId string) error {
	return g.api.MarkRead(ctx, conversationId)
}

func (g *Gateway) SubscribeMessages(ctx context.Context, conversationId string, handler func(evType string, msg *sdk.MessageInfo)) (sdk.Subscription, error) {
	return g.stream.SubscribeMessages(ctx, conversationId, handler)
}

func (g *Gateway) ListConversations(ctx context.Context) ([]*sdk.ConversationInfo, error) {
	return g.api.ListConversations(ctx)
}

func (g *Gateway) StartDirectConversation(ctx context.Context, peerId string) (*sdk.ConversationInfo, error) {
	return g.api.StartDirectConversation(ctx, peerId)
}

func (g *Gateway) SubscribeConversations(ctx context.Context, handler func(evType string, conv *sdk.ConversationInfo)) (sdk.Subscription, error) {
	return g.stream.SubscribeConversations(ctx, handler)
}

func (g *Gateway) AnnounceTyping(ctx context.Context, conversationId string, typing bool) error {
	return g.api.AnnounceTyping(ctx, conversationId, typing)
}

func (g *Gateway) SubscribeTyping(ctx context.Context, conversationId string, handler func(t *sdk.TypingAnnouncement)) (sdk.Subscription, error) {
	return g.stream.SubscribeTyping(ctx, conversationId, handler)
}

func (g *Gateway) SetOnline(ctx context.Context, online bool) error {
	return g.api.SetOnline(ctx, online)
}

func (g *Gateway) QueryOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	return g.api.QueryOnline(ctx, userIds)
}

func (g *Gateway) SubscribePresence(ctx context.Context, handler func(p *sdk.PresenceEntry)) (sdk.Subscription, error) {
	return g.stream.SubscribePresence(ctx, handler)
}

func (g *Gateway) GetUsers(ctx context.Context, userIds []string) ([]*sdk.UserInfo, error) {
	return g.api.GetUsers(ctx, userIds)
}
