// Package handler provides HTTP request handlers for the job portal API.
//
// # Handler Pattern
//
// Each handler struct wraps one service. Methods decode the request, call
// the service and write the result:
//
//   - Success bodies are bare JSON documents, arrays or acknowledgments
//     ({"acknowledged":true,"insertedId":"job:..."}).
//   - Errors go through MapServiceError and are written as RFC 9457 Problem
//     Details with Content-Type application/problem+json.
//
// # Routes
//
//	GET    /                     banner
//	GET    /health               store ping
//	POST   /jwt                  issue the session cookie
//	POST   /logout               clear the session cookie
//	GET    /jobs                 list jobs (email, search, sort, min, max, limit, offset)
//	POST   /jobs                 create a job
//	GET    /jobs/{id}            fetch a job
//	GET    /apply-jobs           the caller's applications (session, ?email=)
//	GET    /apply-jobs/jobs/{id} applications for a job (session)
//	POST   /apply-jobs           apply to a job
//	PATCH  /apply-jobs/{id}      update an application's status
//
// Routes marked "session" are wrapped with middleware.Session; the handlers
// read the verified claims with middleware.GetClaims.
package handler
