// Package fixtures provides test data factories for integration tests.
//
// Create a factory over a test database:
//
//	f := fixtures.New(tdb.DB)
//	job := f.CreateJob(t, fixtures.WithSalary(50000, 90000))
//	appID := f.CreateApplication(t, job.ID, fixtures.Email())
//
// Unique titles, emails and companies are generated automatically. Data is
// removed together with the test namespace.
package fixtures
