package utils

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
)

const InvalidJsonMessage = "Body is invalid json"

// Decode unmarshals a raw payload, rejecting trailing garbage. Failures are
// reported as 400 so transports can answer them like validation errors.
func Decode(data []byte, body any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(body); err != nil {
		logger.Log.Debug("payload decode failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: InvalidJsonMessage, StatusCode: http.StatusBadRequest}
	}
	if dec.More() {
		return &errors.ErrorWithStatusCode{Message: InvalidJsonMessage, StatusCode: http.StatusBadRequest}
	}
	return nil
}

// WriteJSON encodes v with the given status. Encoding is done before the
// header is written so a failure can still become a 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
	w.Write([]byte("\n"))
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		http.Error(w, err.Error(), e.StatusCode)
		return
	}
	// default error is 500
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
