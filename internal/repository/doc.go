// Package repository implements the data access layer for the Job Portal API.
//
// Each repository handles the statements for one table of the SurrealDB
// store: JobRepository for job and ApplicationRepository for application.
//
// # Repository Pattern
//
//   - Constructor function (NewXxxRepository) accepts a database.Database
//   - Methods return model structs, or nil for a record that does not exist
//   - Store failures are returned wrapped so errors.Is still sees the
//     database sentinels
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax; client input never
//     reaches the statement text
//   - type::record() for record ids
//   - The job listing statement is assembled by jobListQuery from a
//     model.JobFilter
//   - Creating an application and bumping the job's applicationCount run
//     in one transaction
//
// # Example Usage
//
//	repo := NewJobRepository(db)
//	job, err := repo.GetByID(ctx, "job:abc123")
//	if err != nil {
//	    return err
//	}
//	if job == nil {
//	    // Handle not found
//	}
package repository
