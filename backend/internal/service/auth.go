package service

import (
	"context"

	"github.com/samber/oops"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/response"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/validation"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
)

// AuthService is the credential workflow exposed to transports. Business
// outcomes come back as envelopes; a non-nil error always means the
// infrastructure failed.
type AuthService interface {
	Store(ctx context.Context, req api.RegisterRequest) (api.Envelope, error)
	Login(ctx context.Context, req api.LoginRequest) (api.Envelope, error)
}

type Auth struct {
	storage   AuthStorage
	hasher    Hasher
	jwt       Jwt
	validator Validator
}

type AuthStorage interface {
	// UserByEmail returns nil, nil when no identity has the email.
	UserByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	// SaveUser returns errors.ErrDuplicateEmail when the email is taken.
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, digest string) (bool, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Validator interface {
	Registration(req api.RegisterRequest) (domain.Registration, validation.Result)
	Login(req api.LoginRequest) (domain.Credentials, validation.Result)
}

func NewAuth(storage AuthStorage, hasher Hasher, jwt Jwt, validator Validator) *Auth {
	return &Auth{
		storage:   storage,
		hasher:    hasher,
		jwt:       jwt,
		validator: validator,
	}
}

// Store registers a new identity.
// The password is hashed before the uniqueness check, so a duplicate email
// still pays the hashing cost.
func (a *Auth) Store(ctx context.Context, req api.RegisterRequest) (api.Envelope, error) {
	reg, res := a.validator.Registration(req)
	if !res.Valid() {
		return response.New(response.StatusValidation, res.Message()), nil
	}

	passHash, err := a.hasher.Hash(reg.Password.Reveal())
	if err != nil {
		return api.Envelope{}, err
	}

	existing, err := a.storage.UserByEmail(ctx, reg.Email)
	if err != nil {
		return api.Envelope{}, err
	}
	if existing != nil {
		return response.New(response.StatusConflict, response.MsgEmailExists), nil
	}

	user, err := a.storage.SaveUser(ctx, domain.User{
		Email:    reg.Email,
		FullName: reg.FullName,
		PassHash: passHash,
	})
	if errors.IsDuplicateEmail(err) {
		// Lost a race with a concurrent registration of the same email.
		logger.Log.Info("duplicate email on insert", "email", reg.Email)
		return response.New(response.StatusConflict, response.MsgEmailExists), nil
	}
	if err != nil {
		return api.Envelope{}, err
	}

	logger.Log.Info("identity registered", "user_id", user.Id)
	return response.New(response.StatusCreated, response.MsgSuccess), nil
}

// Login checks credentials and issues an access token.
// Unknown email and wrong password are reported differently.
func (a *Auth) Login(ctx context.Context, req api.LoginRequest) (api.Envelope, error) {
	creds, res := a.validator.Login(req)
	if !res.Valid() {
		return response.New(response.StatusValidation, res.Message()), nil
	}

	user, err := a.storage.UserByEmail(ctx, creds.Email)
	if err != nil {
		return api.Envelope{}, err
	}
	if user == nil {
		return response.New(response.StatusUnauthorized, response.MsgEmailNotFound), nil
	}

	ok, err := a.hasher.Compare(creds.Password.Reveal(), user.PassHash)
	if err != nil {
		return api.Envelope{}, oops.With("user_id", user.Id).Wrap(err)
	}
	if !ok {
		return response.New(response.StatusUnauthorized, response.MsgInvalidPassword), nil
	}

	token, err := a.jwt.NewToken(*user)
	if err != nil {
		return api.Envelope{}, oops.With("user_id", user.Id).Wrap(err)
	}

	return response.New(response.StatusLoggedIn, api.LoginResponse{
		Jwt: domain.AuthToken{AccessToken: token},
		User: domain.User{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}), nil
}
