package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable code carried by every problem response
type ErrorCode int

const (
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeForbidden    ErrorCode = 2001

	ErrCodeNotFound ErrorCode = 3001
	ErrCodeConflict ErrorCode = 3003

	ErrCodeValidation  ErrorCode = 4001
	ErrCodeBadRequest  ErrorCode = 4002
	ErrCodeRateLimited ErrorCode = 4003

	ErrCodeInternal    ErrorCode = 5001
	ErrCodeUnavailable ErrorCode = 5003
)

// problemTypeBase prefixes every problem type URI.
const problemTypeBase = "https://job-portal-pro.web.app/errors/"

// ProblemDetails is an RFC 9457 problem response. It doubles as an error so
// services can return a ready-made response through their error chain.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Code     ErrorCode    `json:"code,omitempty"`
}

// FieldError names one rejected field of a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes p with the problem+json content type and p.Status
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newProblem(kind string, status int, code ErrorCode, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemTypeBase + kind,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Code:   code,
	}
}

// NewUnauthorizedError is returned for a missing, invalid or expired session
func NewUnauthorizedError(detail string) *ProblemDetails {
	return newProblem("unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized, detail)
}

// NewForbiddenError is returned when a valid session asks for another
// identity's data
func NewForbiddenError(detail string) *ProblemDetails {
	return newProblem("forbidden", http.StatusForbidden, ErrCodeForbidden, detail)
}

func NewNotFoundError(resource string) *ProblemDetails {
	return newProblem("not-found", http.StatusNotFound, ErrCodeNotFound, resource+" not found")
}

// NewValidationError summarizes errs in Detail and lists them all in Errors
func NewValidationError(errs []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	switch len(errs) {
	case 0:
	case 1:
		detail = errs[0].Field + ": " + errs[0].Message
	default:
		detail = fmt.Sprintf("%s: %s (and %d more errors)", errs[0].Field, errs[0].Message, len(errs)-1)
	}
	p := newProblem("validation", http.StatusUnprocessableEntity, ErrCodeValidation, detail)
	p.Title = "Validation Error"
	p.Errors = errs
	return p
}

func NewBadRequestError(detail string) *ProblemDetails {
	return newProblem("bad-request", http.StatusBadRequest, ErrCodeBadRequest, detail)
}

func NewConflictError(detail string) *ProblemDetails {
	return newProblem("conflict", http.StatusConflict, ErrCodeConflict, detail)
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return newProblem("rate-limited", http.StatusTooManyRequests, ErrCodeRateLimited,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter))
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return newProblem("internal", http.StatusInternalServerError, ErrCodeInternal, detail)
}

// NewServiceUnavailableError is returned while the store cannot be reached
func NewServiceUnavailableError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "The service is temporarily unavailable"
	}
	return newProblem("unavailable", http.StatusServiceUnavailable, ErrCodeUnavailable, detail)
}
