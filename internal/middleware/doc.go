// Package middleware provides HTTP middleware for the job portal API.
//
// # Global Middleware
//
// Every request passes through the same chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(origins),
//	    middleware.Compress,
//	    middleware.RateLimit(limiter),
//	    middleware.Idempotency(store),
//	    middleware.Metrics(httpMetrics),
//	)
//
// Metrics must wrap the mux directly: it reads the matched route from
// r.Pattern, which ServeMux sets on the request value it receives.
//
// # Sessions
//
// Session guards individual routes. It reads the "token" cookie, verifies
// it and stores the claims in the request context:
//
//	mux.Handle("GET /apply-jobs", middleware.Session(sessions)(h))
//
//	claims := middleware.GetClaims(r.Context())
//
// # Idempotency
//
// POST and PATCH requests carrying an Idempotency-Key header are recorded
// in an IdempotencyStore and replayed on retry. MemoryIdempotencyStore serves
// a single instance; RedisIdempotencyStore is shared between instances.
package middleware
