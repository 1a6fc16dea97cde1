// Package response builds the outward (status, message) envelope and holds
// the status and message vocabulary shared by every operation.
package response

import (
	"net/http"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
)

// Statuses are HTTP-style codes carried inside the envelope. A duplicate email
// is reported as 500 rather than 409; existing clients depend on it.
const (
	StatusLoggedIn     = http.StatusOK
	StatusCreated      = http.StatusCreated
	StatusValidation   = http.StatusBadRequest
	StatusUnauthorized = http.StatusUnauthorized
	StatusNotFound     = http.StatusNotFound
	StatusConflict     = http.StatusInternalServerError
	StatusInternal     = http.StatusInternalServerError
)

const (
	MsgSuccess         = "Success"
	MsgEmailExists     = "Email já existe"
	MsgEmailNotFound   = "Email não encontrado"
	MsgInvalidPassword = "Senha Inválida"
	MsgUnknownPattern  = "Unknown pattern"
	MsgInternal        = "Internal server error"
)

// New wraps status and message into an envelope. message is either a string
// or a JSON-serializable payload.
func New(status int, message any) api.Envelope {
	return api.Envelope{Status: status, Message: message}
}

func Internal() api.Envelope {
	return New(StatusInternal, MsgInternal)
}
