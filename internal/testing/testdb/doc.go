// Package testdb provides SurrealDB test databases for integration tests.
//
// The first call to New starts a SurrealDB container with testcontainers-go
// and reuses it for the rest of the test binary. Set TEST_DB_HOST (and
// optionally TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD) to use a running
// server instead.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t) // skipped under -short
//	    result := tdb.MustQuery("SELECT * FROM job", nil)
//	}
//
// Each TestDB gets a unique namespace with every embedded migration applied.
// The namespace is removed when the test finishes.
package testdb
