package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/pkg/errcode"
	"golang.org/x/time/rate"
)

// subscription is one (collection, filter) registration on a connection
type subscription struct {
	Id             string
	Collection     string
	ConversationId string
}

// Client represents a connected stream client
type Client struct {
	mu        sync.Mutex
	conn      ClientConn
	UserId    string
	ConnId    string
	server    *StreamServer
	subs      map[string]*subscription
	limiter   *rate.Limiter
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId, connId string, server *StreamServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:    conn,
		UserId:  userId,
		ConnId:  connId,
		server:  server,
		subs:    make(map[string]*subscription),
		limiter: rate.NewLimiter(rate.Limit(server.cfg.Stream.InboundRate), server.cfg.Stream.InboundBurst),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// readLoop continuously reads requests from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%s, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}
	}
}

// handleMessage handles a single inbound request
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return c.replyError(&req, errcode.ErrInvalidProtocol)
	}

	if !c.limiter.Allow() {
		return c.replyError(&req, errcode.ErrTooManyRequests)
	}

	log.CtxDebug(c.ctx, "received request: req_identifier=%d, user_id=%s", req.ReqIdentifier, c.UserId)

	switch req.ReqIdentifier {
	case WSSubscribe:
		return c.handleSubscribe(&req)
	case WSUnsubscribe:
		return c.handleUnsubscribe(&req)
	default:
		return c.replyError(&req, errcode.ErrInvalidProtocol)
	}
}

// handleSubscribe registers a (collection, filter) subscription. Chat-scoped
// collections require the caller to be a conversation participant.
func (c *Client) handleSubscribe(req *WSRequest) error {
	var sub SubscribeReq
	if err := Decode(req.Data, &sub); err != nil {
		return c.replyError(req, errcode.ErrInvalidProtocol)
	}
	if sub.Collection == "" {
		return c.replyError(req, errcode.ErrInvalidParam)
	}

	if sub.ConversationId != "" {
		if err := c.server.checkParticipant(c.ctx, c.UserId, sub.ConversationId); err != nil {
			if e, ok := err.(*errcode.Error); ok {
				return c.replyError(req, e)
			}
			return c.replyError(req, errcode.ErrInternalServer)
		}
	}

	s := &subscription{
		Id:             uuid.New().String(),
		Collection:     sub.Collection,
		ConversationId: sub.ConversationId,
	}

	c.mu.Lock()
	c.subs[s.Id] = s
	c.mu.Unlock()

	data, _ := Encode(&SubscribeResp{SubscriptionId: s.Id})
	return c.reply(req, data)
}

// handleUnsubscribe removes a subscription
func (c *Client) handleUnsubscribe(req *WSRequest) error {
	var unsub UnsubscribeReq
	if err := Decode(req.Data, &unsub); err != nil {
		return c.replyError(req, errcode.ErrInvalidProtocol)
	}

	c.mu.Lock()
	delete(c.subs, unsub.SubscriptionId)
	c.mu.Unlock()

	return c.reply(req, nil)
}

// Deliver pushes a change event to every matching subscription on this
// connection. record is the pre-marshaled event record.
func (c *Client) Deliver(ev *entity.ChangeEvent, record json.RawMessage) {
	if c.closed.Load() {
		return
	}
	if len(ev.UserIds) > 0 && !containsString(ev.UserIds, c.UserId) {
		return
	}

	c.mu.Lock()
	var matched []*subscription
	for _, s := range c.subs {
		if s.Collection != ev.Collection {
			continue
		}
		if ev.ConversationId != "" && s.ConversationId != ev.ConversationId {
			continue
		}
		matched = append(matched, s)
	}
	c.mu.Unlock()

	for _, s := range matched {
		data, err := Encode(&WSEvent{
			SubscriptionId: s.Id,
			Type:           ev.Type,
			Collection:     ev.Collection,
			Record:         record,
		})
		if err != nil {
			log.CtxError(c.ctx, "encode event failed: %v", err)
			continue
		}
		resp := &WSResponse{
			ReqIdentifier: WSPushEvent,
			Data:          data,
		}
		raw, _ := Encode(resp)
		if err := c.conn.WriteMessage(raw); err != nil {
			log.CtxWarn(c.ctx, "push event failed: user_id=%s, error=%v", c.UserId, err)
			return
		}
	}
}

// reply sends a success response
func (c *Client) reply(req *WSRequest, data []byte) error {
	resp := &WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		RequestId:     req.RequestId,
		Data:          data,
	}
	raw, err := Encode(resp)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(raw)
}

// replyError sends an error response
func (c *Client) replyError(req *WSRequest, e *errcode.Error) error {
	resp := &WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		RequestId:     req.RequestId,
		ErrCode:       e.Code,
		ErrMsg:        e.Msg,
	}
	raw, err := Encode(resp)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(raw)
}

// close tears the connection down once
func (c *Client) close() {
	if c.closed.Swap(true) {
		return
	}
	c.cancel()
	c.conn.Close()
	c.server.unregisterChan <- c
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
