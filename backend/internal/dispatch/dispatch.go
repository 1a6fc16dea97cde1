// Package dispatch routes message-pattern operations to handlers.
//
// Both transports (NATS request/reply and HTTP) hand raw payloads to a
// Dispatcher, which decodes them, runs the operation and always produces an
// envelope. Infrastructure errors never leak past this point.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/response"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/service"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/middleware/metrics"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/utils"
)

const (
	PatternStore = "auth_store"
	PatternLogin = "auth_login"

	// unknownPatternLabel keeps caller-chosen patterns out of metric labels.
	unknownPatternLabel = "unknown"
)

// HandlerFunc runs one operation over a raw JSON payload. A returned error
// is an infrastructure failure; decode errors carry a status code.
type HandlerFunc func(ctx context.Context, payload []byte) (api.Envelope, error)

type Dispatcher struct {
	routes  map[string]HandlerFunc
	timeout time.Duration
}

// New builds the routing table for the auth operations. A zero timeout
// leaves the caller's deadline untouched.
func New(auth service.AuthService, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		routes: map[string]HandlerFunc{
			PatternStore: decoded(auth.Store),
			PatternLogin: decoded(auth.Login),
		},
		timeout: timeout,
	}
}

// decoded adapts a typed operation to a raw-payload handler.
func decoded[Req any](op func(context.Context, Req) (api.Envelope, error)) HandlerFunc {
	return func(ctx context.Context, payload []byte) (api.Envelope, error) {
		var req Req
		if err := utils.Decode(payload, &req); err != nil {
			return api.Envelope{}, err
		}
		return op(ctx, req)
	}
}

// Patterns lists every routed pattern.
func (d *Dispatcher) Patterns() []string {
	patterns := make([]string, 0, len(d.routes))
	for p := range d.routes {
		patterns = append(patterns, p)
	}
	return patterns
}

func (d *Dispatcher) Handles(pattern string) bool {
	_, ok := d.routes[pattern]
	return ok
}

// Dispatch runs pattern over payload and always returns an envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, pattern string, payload []byte) api.Envelope {
	start := time.Now()
	requestId := uuid.NewString()
	log := logger.Log.With("request_id", requestId, "pattern", pattern)

	env := d.dispatch(ctx, pattern, payload, requestId)

	elapsed := time.Since(start)
	metrics.ObserveDispatch(d.metricLabel(pattern), env.Status, elapsed)
	log.Debug("dispatched", "status", env.Status, "elapsed", elapsed)
	return env
}

func (d *Dispatcher) metricLabel(pattern string) string {
	if d.Handles(pattern) {
		return pattern
	}
	return unknownPatternLabel
}

func (d *Dispatcher) dispatch(ctx context.Context, pattern string, payload []byte, requestId string) api.Envelope {
	handler, ok := d.routes[pattern]
	if !ok {
		logger.Log.Warn("unknown pattern", "request_id", requestId, "pattern", pattern)
		return response.New(response.StatusNotFound, response.MsgUnknownPattern)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	env, err := handler(ctx, payload)
	if err == nil {
		return env
	}
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		return response.New(e.StatusCode, e.Message)
	}
	logger.LogError("operation failed", err, "request_id", requestId, "pattern", pattern)
	return response.Internal()
}
