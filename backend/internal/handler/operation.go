package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/utils"
)

// Operation dispatches the body to the pattern named in the path and writes
// the envelope, using its status as the HTTP status.
func (h *Handler) Operation(w http.ResponseWriter, r *http.Request) {
	pattern := chi.URLParam(r, "pattern")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Request body too large", StatusCode: http.StatusRequestEntityTooLarge})
			return
		}
		logger.Log.Warn("failed to read request body", "pattern", pattern, "error", err)
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Bad request", StatusCode: http.StatusBadRequest})
		return
	}

	env := h.dispatcher.Dispatch(r.Context(), pattern, body)
	utils.WriteJSON(w, env.Status, env)
}
