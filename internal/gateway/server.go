package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/config"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/jwt"
)

// StreamServer serves the change-notification websocket endpoint and fans
// change events out to matching subscriptions. It implements
// service.EventPublisher.
type StreamServer struct {
	cfg            *config.Config
	repos          *repository.Repositories
	presence       *service.PresenceService
	registry       *ConnRegistry
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *entity.ChangeEvent
	upgrader       *websocket.Upgrader
	httpServer     *http.Server
	done           chan struct{}
}

// NewStreamServer creates a new stream server
func NewStreamServer(cfg *config.Config, repos *repository.Repositories, presence *service.PresenceService) *StreamServer {
	s := &StreamServer{
		cfg:            cfg,
		repos:          repos,
		presence:       presence,
		registry:       NewConnRegistry(),
		registerChan:   make(chan *Client, 256),
		unregisterChan: make(chan *Client, 256),
		pushChan:       make(chan *entity.ChangeEvent, cfg.Stream.PushChannelSize),
		done:           make(chan struct{}),
	}
	s.upgrader = &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return s
}

// Publish queues a change event for fan-out. Drops the event when the
// push channel is full rather than blocking the caller.
func (s *StreamServer) Publish(ev *entity.ChangeEvent) {
	select {
	case s.pushChan <- ev:
	default:
		log.Warn("push channel full, dropping event: collection=%s, type=%s", ev.Collection, ev.Type)
	}
}

// Run starts the event loop, push workers, and the websocket listener.
// Blocks until the http server stops.
func (s *StreamServer) Run() error {
	go s.eventLoop()

	workers := s.cfg.Stream.PushWorkerNum
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		go s.pushWorker()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Stream.Port),
		Handler: mux,
	}

	log.Info("stream server listening on :%d", s.cfg.Stream.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener and the fan-out loops
func (s *StreamServer) Shutdown(ctx context.Context) error {
	close(s.done)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// eventLoop owns connection registration and presence transitions
func (s *StreamServer) eventLoop() {
	for {
		select {
		case c := <-s.registerChan:
			s.registry.Register(c)
			s.presence.ConnOpened(c.ctx, c.UserId)
			log.Info("client registered: user_id=%s, conn_id=%s, total=%d", c.UserId, c.ConnId, s.registry.Count())

		case c := <-s.unregisterChan:
			if s.registry.Unregister(c) {
				s.presence.ConnClosed(context.Background(), c.UserId)
				log.Info("client unregistered: user_id=%s, conn_id=%s, total=%d", c.UserId, c.ConnId, s.registry.Count())
			}

		case <-s.done:
			return
		}
	}
}

// pushWorker marshals each event once and delivers it to every client
func (s *StreamServer) pushWorker() {
	for {
		select {
		case ev := <-s.pushChan:
			record, err := json.Marshal(ev.Record)
			if err != nil {
				log.Error("marshal event record failed: collection=%s, error=%v", ev.Collection, err)
				continue
			}
			for _, c := range s.registry.AllClients() {
				c.Deliver(ev, record)
			}

		case <-s.done:
			return
		}
	}
}

// handleStream authenticates and upgrades a stream connection
func (s *StreamServer) handleStream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if auth := r.Header.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
			token = auth[7:]
		}
	}
	if token == "" {
		http.Error(w, errcode.ErrTokenMissing.Msg, http.StatusUnauthorized)
		return
	}

	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		http.Error(w, errcode.ErrTokenInvalid.Msg, http.StatusUnauthorized)
		return
	}

	if s.cfg.Stream.MaxConnNum > 0 && s.registry.Count() >= s.cfg.Stream.MaxConnNum {
		http.Error(w, errcode.ErrConnOverLimit.Msg, http.StatusServiceUnavailable)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}

	conn := NewWebSocketClientConn(
		wsConn,
		s.cfg.Stream.MaxMessageSize,
		s.cfg.Stream.PongWait,
		s.cfg.Stream.PingPeriod,
		s.cfg.Stream.WriteWait,
		s.cfg.Stream.WriteChannelSize,
	)

	client := NewClient(conn, claims.UserId, uuid.New().String(), s)
	s.registerChan <- client

	go client.readLoop()
}

// checkParticipant verifies conversation membership for scoped subscriptions
func (s *StreamServer) checkParticipant(ctx context.Context, userId, conversationId string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := s.repos.Conversation.GetParticipant(ctx, conversationId, userId)
	if err != nil {
		return errcode.ErrInternalServer.Wrap(err)
	}
	if p == nil {
		return errcode.ErrNotParticipant
	}
	return nil
}
