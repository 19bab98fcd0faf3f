package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Problem details returned by a service are passed through unchanged.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Session Errors =====
	case errors.Is(err, service.ErrUnauthorized):
		return model.NewUnauthorizedError("unauthorized access")
	case errors.Is(err, service.ErrForbidden):
		return model.NewForbiddenError("forbidden access")
	case errors.Is(err, service.ErrEmailRequired):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrJobNotFound):
		return model.NewNotFoundError("job")
	case errors.Is(err, service.ErrApplicationNotFound):
		return model.NewNotFoundError("application")

	// ===== Store Errors → 503 =====
	case errors.Is(err, service.ErrStoreUnavailable):
		return model.NewServiceUnavailableError("")

	default:
		return model.NewInternalError("")
	}
}

// writeServiceError logs unexpected failures and writes the mapped problem
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), operation+" failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	WriteError(w, problem)
}
