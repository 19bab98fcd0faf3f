// Package helpers provides test utility functions for the job portal API.
//
// # Session Helpers
//
// Mint session cookies without going through POST /jwt:
//
//	tokens := helpers.NewTestTokens(t, clock)
//	cookie := helpers.SessionCookie(t, tokens, "seeker@example.com")
//
// # Request Builder
//
//	req := helpers.NewRequest(t, http.MethodGet, "/apply-jobs?email=seeker@example.com").
//		WithCookie(cookie).
//		Build()
//
// # Assertion Helpers
//
//	helpers.AssertStatus(t, rr, http.StatusOK)
//	helpers.AssertValidationError(t, rr, "jobId")
//	problem := helpers.DecodeProblem(t, rr)
package helpers
