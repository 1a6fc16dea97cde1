// Package natsrpc serves dispatcher patterns as NATS request/reply subjects.
// Each pattern is its own subject; replicas share work through a queue group.
package natsrpc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/response"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, pattern string, payload []byte) api.Envelope
	Patterns() []string
}

// Connect dials url, retrying with backoff while the broker comes up. Once
// connected the client reconnects on its own.
func Connect(ctx context.Context, url string, attempts uint64) (*nats.Conn, error) {
	var nc *nats.Conn
	backoff := retry.WithMaxRetries(attempts, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		nc, err = nats.Connect(url,
			nats.Name("watch-auth"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Log.Warn("nats disconnected", "error", err)
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.Log.Info("nats reconnected", "url", c.ConnectedUrl())
			}),
		)
		if err != nil {
			logger.Log.Warn("nats not reachable yet", "url", url, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("NATS_CONNECT_FAILED").With("url", url).Wrap(err)
	}
	return nc, nil
}

type Server struct {
	nc         *nats.Conn
	dispatcher Dispatcher
	queue      string

	subs []*nats.Subscription

	// mu guards closed so no inflight.Add can race with Shutdown's Wait.
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	// base context for handlers; cancelled on Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(nc *nats.Conn, dispatcher Dispatcher, queue string) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{nc: nc, dispatcher: dispatcher, queue: queue, ctx: ctx, cancel: cancel}
}

// Start subscribes every pattern of the dispatcher.
func (s *Server) Start() error {
	for _, pattern := range s.dispatcher.Patterns() {
		sub, err := s.nc.QueueSubscribe(pattern, s.queue, s.handle(pattern))
		if err != nil {
			s.unsubscribeAll()
			return oops.Code("NATS_SUBSCRIBE_FAILED").With("subject", pattern).Wrap(err)
		}
		s.subs = append(s.subs, sub)
		logger.Log.Info("listening", "subject", pattern, "queue", s.queue)
	}
	return s.nc.Flush()
}

// handle replies from a separate goroutine so one slow hash does not hold up
// the subscription.
func (s *Server) handle(pattern string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		if !s.acquire() {
			logger.Log.Debug("dropping message during shutdown", "subject", msg.Subject)
			return
		}
		go func() {
			defer s.inflight.Done()
			env := s.dispatcher.Dispatch(s.ctx, pattern, msg.Data)
			s.reply(msg, env)
		}()
	}
}

// acquire registers one in-flight message unless shutdown has begun.
func (s *Server) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight.Add(1)
	return true
}

// stopAccepting makes every later acquire fail.
func (s *Server) stopAccepting() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Server) reply(msg *nats.Msg, env api.Envelope) {
	if msg.Reply == "" {
		logger.Log.Warn("dropping reply for message without reply subject", "subject", msg.Subject)
		return
	}
	b, err := json.Marshal(env)
	if err != nil {
		logger.Log.Error("failed to encode reply", "subject", msg.Subject, "error", err)
		b, _ = json.Marshal(response.Internal())
	}
	if err := msg.Respond(b); err != nil {
		logger.Log.Error("failed to send reply", "subject", msg.Subject, "error", err)
	}
}

// Shutdown stops taking new messages, waits for in-flight ones and drains
// the connection.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopAccepting()
	s.unsubscribeAll()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
	s.cancel()

	if err := s.nc.Drain(); err != nil {
		return oops.Code("NATS_DRAIN_FAILED").Wrap(err)
	}
	return nil
}

func (s *Server) unsubscribeAll() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed && err != nats.ErrBadSubscription {
			logger.Log.Warn("unsubscribe failed", "subject", sub.Subject, "error", err)
		}
	}
	s.subs = nil
}
