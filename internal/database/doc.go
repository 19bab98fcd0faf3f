// Package database provides SurrealDB connectivity for the Job Portal API.
//
// The Database interface hides the driver from repositories:
//
//	type Database interface {
//	    Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
//	    QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
//	    Execute(ctx context.Context, query string, vars map[string]interface{}) error
//	    ...
//	}
//
// Query returns one {status, result} wrapper per statement. QueryOne unwraps
// the first statement and returns its first record, or ErrNotFound.
//
// # Connection Management
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "jobPortal",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "root",
//	})
//	if err := db.Connect(ctx); err != nil {
//	    return err
//	}
//	defer db.Close()
//
// Production code wraps the connection in a Breaker so a dead store fails
// fast with ErrUnavailable instead of tying up every request.
//
// # Transactions
//
// Transactions are batch based. TxBuilder collects statements, namespaces
// their variables, and ExecuteTransaction sends them wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION as a single request.
//
// # Migrations
//
// Migrate applies the embedded *.surql files in name order and records each
// applied file in the migration table.
//
// # Error Types
//
//   - ErrNotFound: record does not exist
//   - ErrConnection: connecting to or talking to the store failed
//   - ErrQuery: the store rejected a statement
//   - ErrUnavailable: the circuit breaker is open
package database
