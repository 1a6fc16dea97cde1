package handler

import (
	"context"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, pattern string, payload []byte) api.Envelope
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	dispatcher  Dispatcher
	health      HealthChecker
	maxBodySize int64
}

// DefaultMaxBodySize bounds request bodies; auth payloads are tiny.
const DefaultMaxBodySize = 64 << 10

func New(dispatcher Dispatcher, health HealthChecker) *Handler {
	return &Handler{dispatcher: dispatcher, health: health, maxBodySize: DefaultMaxBodySize}
}
