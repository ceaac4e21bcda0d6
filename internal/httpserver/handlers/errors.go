package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// writeError renders err through the error taxonomy. Store causes are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	de := domain.AsError(err)
	status := statusFor(de.Kind)

	if de.Kind == domain.KindStore {
		cause := de.Err
		if cause == nil {
			cause = err
		}
		log.Error("request failed on store",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(cause),
		)
	}

	respond.Error(w, status, de.Code(), de.Error())
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindInvalidID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
