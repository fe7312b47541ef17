package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Stream protocol request identifiers, mirroring the server side
const (
	wsSubscribe   int32 = 1
	wsUnsubscribe int32 = 2
	wsPushEvent   int32 = 10
)

const (
	streamWriteWait   = 10 * time.Second
	streamPongWait    = 60 * time.Second
	streamPingPeriod  = 54 * time.Second
	streamCallTimeout = 10 * time.Second
)

type wsRequest struct {
	ReqIdentifier int32  `json:"req_identifier"`
	RequestId     string `json:"request_id"`
	Data          []byte `json:"data"`
}

type wsResponse struct {
	ReqIdentifier int32  `json:"req_identifier"`
	RequestId     string `json:"request_id"`
	ErrCode       int    `json:"err_code"`
	ErrMsg        string `json:"err_msg"`
	Data          []byte `json:"data"`
}

type wsEvent struct {
	SubscriptionId string          `json:"subscription_id"`
	Type           string          `json:"type"`
	Collection     string          `json:"collection"`
	Record         json.RawMessage `json:"record"`
}

// ChangeEvent is a single change delivered on the stream
type ChangeEvent struct {
	Type       string
	Collection string
	Record     json.RawMessage
}

// EventHandler receives change events for one subscription
type EventHandler func(ev *ChangeEvent)

// Stream is a live connection to the change stream endpoint. One stream
// multiplexes any number of collection subscriptions.
type Stream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan *wsResponse
	subs    map[string]*streamSub

	closeOnce sync.Once
	done      chan struct{}

	// OnClose, when set, is called once after the stream stops reading
	OnClose func(err error)
}

type streamSub struct {
	id      string
	stream  *Stream
	handler EventHandler
	once    sync.Once
}

// Unsubscribe stops delivery for this subscription
func (s *streamSub) Unsubscribe() {
	s.once.Do(func() {
		s.stream.mu.Lock()
		delete(s.stream.subs, s.id)
		s.stream.mu.Unlock()

		data, _ := json.Marshal(map[string]string{"subscription_id": s.id})
		req := &wsRequest{
			ReqIdentifier: wsUnsubscribe,
			RequestId:     uuid.New().String(),
			Data:          data,
		}
		// Best effort; the server drops the registration with the
		// connection anyway
		s.stream.write(req)
	})
}

// OpenStream dials the change stream endpoint and starts the read loop
func (c *Client) OpenStream(ctx context.Context) (*Stream, error) {
	if c.streamURL == "" {
		return nil, fmt.Errorf("stream url not configured")
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.streamURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial stream: %w", err)
	}

	s := &Stream{
		conn:    conn,
		pending: make(map[string]chan *wsResponse),
		subs:    make(map[string]*streamSub),
		done:    make(chan struct{}),
	}

	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		return nil
	})

	go s.readLoop()
	go s.pingLoop()

	return s, nil
}

// Close tears the stream down. All subscriptions stop delivering.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
	return nil
}

// Subscribe registers a handler for one collection. conversationId narrows
// chat-scoped collections to a single conversation; pass "" for global
// collections like presence.
func (s *Stream) Subscribe(ctx context.Context, collection, conversationId string, handler EventHandler) (Subscription, error) {
	body := map[string]string{"collection": collection}
	if conversationId != "" {
		body["conversation_id"] = conversationId
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := s.call(ctx, &wsRequest{
		ReqIdentifier: wsSubscribe,
		RequestId:     uuid.New().String(),
		Data:          data,
	})
	if err != nil {
		return nil, err
	}
	if resp.ErrCode != 0 {
		return nil, &Error{Code: resp.ErrCode, Msg: resp.ErrMsg}
	}

	var sr struct {
		SubscriptionId string `json:"subscription_id"`
	}
	if err := json.Unmarshal(resp.Data, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode subscribe response: %w", err)
	}

	sub := &streamSub{id: sr.SubscriptionId, stream: s, handler: handler}
	s.mu.Lock()
	s.subs[sub.id] = sub
	s.mu.Unlock()

	return sub, nil
}

// SubscribeMessages subscribes to message changes in one conversation
func (s *Stream) SubscribeMessages(ctx context.Context, conversationId string, handler func(evType string, msg *MessageInfo)) (Subscription, error) {
	return s.Subscribe(ctx, CollectionMessages, conversationId, func(ev *ChangeEvent) {
		var msg MessageInfo
		if err := json.Unmarshal(ev.Record, &msg); err != nil {
			return
		}
		handler(ev.Type, &msg)
	})
}

// SubscribeConversations subscribes to conversation list changes
func (s *Stream) SubscribeConversations(ctx context.Context, handler func(evType string, conv *ConversationInfo)) (Subscription, error) {
	return s.Subscribe(ctx, CollectionConversations, "", func(ev *ChangeEvent) {
		var conv ConversationInfo
		if err := json.Unmarshal(ev.Record, &conv); err != nil {
			return
		}
		handler(ev.Type, &conv)
	})
}

// SubscribeTyping subscribes to typing announcements in one conversation
func (s *Stream) SubscribeTyping(ctx context.Context, conversationId string, handler func(t *TypingAnnouncement)) (Subscription, error) {
	return s.Subscribe(ctx, CollectionTyping, conversationId, func(ev *ChangeEvent) {
		var t TypingAnnouncement
		if err := json.Unmarshal(ev.Record, &t); err != nil {
			return
		}
		handler(&t)
	})
}

// SubscribePresence subscribes to online / offline announcements
func (s *Stream) SubscribePresence(ctx context.Context, handler func(p *PresenceEntry)) (Subscription, error) {
	return s.Subscribe(ctx, CollectionPresence, "", func(ev *ChangeEvent) {
		var p PresenceEntry
		if err := json.Unmarshal(ev.Record, &p); err != nil {
			return
		}
		handler(&p)
	})
}

// call sends a request and waits for its matching response
func (s *Stream) call(ctx context.Context, req *wsRequest) (*wsResponse, error) {
	ch := make(chan *wsResponse, 1)
	s.mu.Lock()
	s.pending[req.RequestId] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, req.RequestId)
		s.mu.Unlock()
	}()

	if err := s.write(req); err != nil {
		return nil, err
	}

	timer := time.NewTimer(streamCallTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, fmt.Errorf("stream closed")
	case <-timer.C:
		return nil, fmt.Errorf("stream call timed out")
	}
}

func (s *Stream) write(req *wsRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

func (s *Stream) readLoop() {
	var readErr error
	defer func() {
		s.Close()
		if s.OnClose != nil {
			s.OnClose(readErr)
		}
	}()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			readErr = err
			return
		}

		var resp wsResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			continue
		}

		if resp.ReqIdentifier == wsPushEvent {
			s.dispatchEvent(resp.Data)
			continue
		}

		s.mu.Lock()
		ch, ok := s.pending[resp.RequestId]
		s.mu.Unlock()
		if ok {
			ch <- &resp
		}
	}
}

func (s *Stream) dispatchEvent(data []byte) {
	var ev wsEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}

	s.mu.Lock()
	sub, ok := s.subs[ev.SubscriptionId]
	s.mu.Unlock()
	if !ok {
		return
	}

	sub.handler(&ChangeEvent{
		Type:       ev.Type,
		Collection: ev.Collection,
		Record:     ev.Record,
	})
}

func (s *Stream) pingLoop() {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
