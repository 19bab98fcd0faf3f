// Package config manages application configuration for the Job Portal API.
//
// Configuration is read from environment variables with
// github.com/caarlos0/env. A .env file in the working directory is loaded
// first with github.com/joho/godotenv when present.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection and circuit breaker settings
//   - SessionConfig: session token key, lifetime and issuer
//   - RedisConfig: optional shared idempotency store
//   - RateLimitConfig: per-client request rate
//   - LogConfig: slog level and format
//
// # Environment Variables
//
//	PORT                    - HTTP server port (default: 5000)
//	APP_ENV / NODE_ENV      - development, production or test
//	ACCESS_KEY              - session signing secret (required)
//	SESSION_TTL             - session lifetime (default: 5h)
//	DB_HOST, DB_PORT        - SurrealDB endpoint
//	DB_USER, DB_PASS        - SurrealDB credentials
//	DB_NAMESPACE            - SurrealDB namespace (default: jobPortal)
//	DB_DATABASE             - SurrealDB database (default: main)
//	CORS_ALLOWED_ORIGINS    - comma separated origin list
//	REDIS_URL               - enables the Redis idempotency store
//	APPLICANTS_OWNER_CHECK  - restrict applicant lists to the job owner
package config
