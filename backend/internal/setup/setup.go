package setup

import (
	"context"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/dispatch"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/handler"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/service"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/storage/pg"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/validation"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/config"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/crypto"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/jwt"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config     *config.Config
	Storage    *pg.Storage
	Auth       *service.Auth
	Dispatcher *dispatch.Dispatcher
	Handler    *handler.Handler
	Jwt        jwt.JwtService
}

// SetupDependencies connects to the database and wires every component.
// Schema migration is left to the caller.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg.Private.Pg)
	if err != nil {
		return nil, err
	}

	deps := Wire(cfg, storage)
	deps.Storage = storage
	return deps, nil
}

// Wire builds everything above the storage layer.
func Wire(cfg *config.Config, storage Storage) *Dependencies {
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	hasher := crypto.NewBcryptHasher(cfg.Public.BcryptCost)

	auth := service.NewAuth(storage, hasher, jwtService, validation.New())
	dispatcher := dispatch.New(auth, cfg.Public.RequestTimeout)
	h := handler.New(dispatcher, storage)

	return &Dependencies{
		Config:     cfg,
		Auth:       auth,
		Dispatcher: dispatcher,
		Handler:    h,
		Jwt:        jwtService,
	}
}

// Storage is what the service layer and probes need from the database.
type Storage interface {
	service.AuthStorage
	handler.HealthChecker
}
