// Package helpers provides common test utilities for HTTP level tests.
//
// This package includes request builders, session cookie minting, and
// assertion helpers for Problem Details responses.
package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// Test token settings
const (
	TestSecret = "test-access-key"
	TestIssuer = "job-portal-test"
	TestTTL    = 5 * time.Hour
)

// ============================================================================
// Session Helpers
// ============================================================================

// NewTestTokens creates a token service on clock. A nil clock uses the real one.
func NewTestTokens(t *testing.T, clock clockwork.Clock) *jwt.Service {
	t.Helper()

	tokens, err := jwt.NewService(jwt.Config{
		Secret:     TestSecret,
		Issuer:     TestIssuer,
		Expiration: TestTTL,
		Clock:      clock,
	})
	if err != nil {
		t.Fatalf("helpers: failed to create token service: %v", err)
	}
	return tokens
}

// SessionCookie signs a session for email and returns it as the cookie the
// server expects
func SessionCookie(t *testing.T, tokens *jwt.Service, email string) *http.Cookie {
	t.Helper()

	token, err := tokens.Sign(jwt.Claims{Identity: map[string]any{"email": email}})
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

// ============================================================================
// Request Builder
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    io.Reader
	headers map[string]string
	cookies []*http.Cookie
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets a JSON body
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		rb.t.Fatalf("helpers: failed to marshal body: %v", err)
	}
	rb.body = bytes.NewReader(b)
	rb.headers["Content-Type"] = "application/json"
	return rb
}

// WithRawBody sets the body verbatim
func (rb *RequestBuilder) WithRawBody(body string) *RequestBuilder {
	rb.body = strings.NewReader(body)
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithCookie adds a cookie to the request
func (rb *RequestBuilder) WithCookie(c *http.Cookie) *RequestBuilder {
	rb.cookies = append(rb.cookies, c)
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	req := httptest.NewRequest(rb.method, rb.path, rb.body)
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	for _, c := range rb.cookies {
		req.AddCookie(c)
	}
	return req
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// DecodeProblem checks the Problem Details content type and decodes the body
func DecodeProblem(t *testing.T, resp *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()

	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected application/problem+json, got %q. Body: %s", ct, resp.Body.String())
	}

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v. Body: %s", err, resp.Body.String())
	}
	if problem.Status != resp.Code {
		t.Errorf("problem.status %d does not match response status %d", problem.Status, resp.Code)
	}
	return problem
}

// HasFieldError reports whether problem names field
func HasFieldError(problem model.ProblemDetails, field string) bool {
	for _, fe := range problem.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// AssertValidationError checks for a 422 naming field
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	AssertStatus(t, resp, http.StatusUnprocessableEntity)
	if problem := DecodeProblem(t, resp); !HasFieldError(problem, field) {
		t.Errorf("expected validation error for field %q, got %+v", field, problem.Errors)
	}
}

// DecodeResponse decodes a JSON response body
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}

// ============================================================================
// Pointer Helpers
// ============================================================================

// IntPtr returns a pointer to an int
func IntPtr(i int) *int {
	return &i
}

// FloatPtr returns a pointer to a float64
func FloatPtr(f float64) *float64 {
	return &f
}
