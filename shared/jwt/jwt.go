package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
	internal_errors "github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

// Claims is the token payload: sub is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserId parses the sub claim back into a domain id.
func (c *Claims) UserId() (domain.UserId, error) {
	var id domain.UserId
	if _, err := fmt.Sscan(c.Subject, &id); err != nil {
		return 0, fmt.Errorf("malformed subject %q: %w", c.Subject, err)
	}
	return id, nil
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// WithClock replaces the issuance clock. Signing is deterministic for a fixed
// key, user and time.
func (j *Jwt) WithClock(now func() time.Time) *Jwt {
	j.now = now
	return j
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	if j.secretKey == "" {
		return "", oops.Code("TOKEN_KEY_MISSING").Errorf("jwt signing key is not configured")
	}

	issuedAt := j.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.Id),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("user_id", user.Id).Wrap(err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return claims, nil
}
