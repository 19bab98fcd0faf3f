// Package model defines domain entities and data structures for the Job Portal API.
//
// # Domain Entities
//
//   - Job: a posting created by an employer, identified by hr_email
//   - Application: a job seeker's submission referencing a job by jobId
//
// Both are schemaless documents. Fields the API relies on are typed; every
// other field a client sends is kept in Extra and written back out as sent:
//
//	job := model.JobFromDocument("job:abc", doc)
//	data, _ := json.Marshal(job) // {"_id":"job:abc","title":...,"applicationCount":0}
//
// # Record IDs
//
// Ids are exposed as "table:key" strings. ParseRecordID accepts either that
// form or a bare key and rejects anything else.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
