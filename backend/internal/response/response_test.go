package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
)

func TestNew(t *testing.T) {
	t.Run("string message", func(t *testing.T) {
		env := New(StatusCreated, MsgSuccess)
		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":201,"message":"Success"}`, string(b))
	})

	t.Run("structured message", func(t *testing.T) {
		payload := api.LoginResponse{
			Jwt:  domain.AuthToken{AccessToken: "token"},
			User: domain.User{Id: 1, Email: "a@b.com", FullName: "Maria Silva", PassHash: "digest"},
		}
		b, err := json.Marshal(New(StatusLoggedIn, payload))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"status":200,"message":{"jwt":{"access_token":"token"},"user":{"id":1,"email":"a@b.com","fullName":"Maria Silva"}}}`,
			string(b))
	})

	t.Run("status is not checked", func(t *testing.T) {
		env := New(299, nil)
		assert.Equal(t, 299, env.Status)
		assert.Nil(t, env.Message)
	})
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, 400, StatusValidation)
	assert.Equal(t, 401, StatusUnauthorized)
	assert.Equal(t, 500, StatusConflict)
	assert.Equal(t, 200, StatusLoggedIn)
	assert.Equal(t, 201, StatusCreated)
	assert.Equal(t, New(500, "Internal server error"), Internal())
}
