package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements the Database interface for SurrealDB
type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates a new SurrealDB instance
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealDB) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Sign in as root user
	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealDB) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query executes a query and returns results
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, classifyClientError(err)
	}

	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return output, nil
}

// QueryOne executes a query and returns a single result
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return FirstRecord(results)
}

// Execute runs a query without returning results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// classifyClientError separates transport failures from statement failures
// so the breaker only counts the former.
func classifyClientError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("query canceled: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrConnection, err)
	case errors.As(err, &netErr), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %v", ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
}

// StatementRecords returns the records produced by statement i of a Query
// result. A statement that returned a single object yields a one-element slice.
func StatementRecords(results []interface{}, i int) []interface{} {
	if i < 0 || i >= len(results) {
		return nil
	}

	resp, ok := results[i].(map[string]interface{})
	if !ok {
		return nil
	}
	switch v := resp["result"].(type) {
	case []interface{}:
		return v
	case nil:
		return nil
	default:
		return []interface{}{v}
	}
}

// FirstRecord returns the first record of the first statement, or ErrNotFound.
func FirstRecord(results []interface{}) (interface{}, error) {
	records := StatementRecords(results, 0)
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}
