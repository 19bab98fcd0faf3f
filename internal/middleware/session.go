package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "token"

// SessionVerifier validates a session token
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*jwt.Claims, error)
}

// Session returns middleware that requires a valid session cookie. The
// verified claims are stored in the request context.
func Session(verifier SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(SessionCookie); err == nil {
				token = c.Value
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				slog.DebugContext(r.Context(), "session rejected",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				model.NewUnauthorizedError("unauthorized access").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts the session claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// GetEmail returns the session email, or "" for anonymous requests
func GetEmail(ctx context.Context) string {
	return GetClaims(ctx).Email()
}
