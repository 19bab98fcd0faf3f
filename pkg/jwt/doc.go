// Package jwt provides the signed session tokens used by the job portal API.
//
// Tokens are compact JWS values signed with HMAC-SHA256. The signing key is
// derived from a configured secret with HKDF, so the raw secret never signs
// anything directly.
//
// # Token Generation
//
//	svc, err := jwt.NewService(jwt.Config{
//	    Secret:     os.Getenv("ACCESS_KEY"),
//	    Issuer:     "job-portal",
//	    Expiration: 5 * time.Hour,
//	})
//
//	token, err := svc.Sign(jwt.Claims{
//	    Identity: map[string]any{"email": "a@x.com"},
//	})
//
// # Token Validation
//
//	claims, err := svc.Validate(token)
//	if err != nil {
//	    // ErrTokenExpired, ErrInvalidSignature, ErrInvalidToken, ...
//	}
//	email := claims.Email()
//
// # Claims
//
// The caller's identity payload is stored at the top level of the claims
// object next to iss, iat, nbf and exp. Those four are reserved and always
// set by the service.
package jwt
