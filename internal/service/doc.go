// Package service implements the business logic layer for the Job Portal API.
//
// Services validate requests, enforce session ownership and orchestrate
// repository calls. They sit between the HTTP handlers and data access.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Repository interfaces are declared here, next to their consumers
//   - Validation failures are returned as *model.ProblemDetails
//   - Other failures are sentinel errors, mapped to HTTP by the handler package
//
// # Error Handling
//
//	var (
//	    ErrJobNotFound      = errors.New("job not found")
//	    ErrStoreUnavailable = errors.New("store temporarily unavailable")
//	)
//
// Store transport failures are wrapped in ErrStoreUnavailable so the handler
// layer can answer 503 without knowing about the database package.
//
// # Example Usage
//
//	svc := NewApplicationService(ApplicationServiceConfig{
//	    ApplicationRepo: applicationRepository,
//	    JobRepo:         jobRepository,
//	})
//	apps, err := svc.ListMine(ctx, middleware.GetClaims(ctx), email)
package service
