package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/repository"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Factory creates test entities in the database
type Factory struct {
	db   database.Database
	jobs *repository.JobRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:   db,
		jobs: repository.NewJobRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Job Fixtures
// ============================================================================

// JobOpts customizes job creation
type JobOpts struct {
	Title       string
	HREmail     string
	Company     string
	CompanyLogo string
	Location    string
	SalaryMin   float64
	SalaryMax   float64
	Extra       model.Document
}

// WithHREmail sets the posting employer
func WithHREmail(email string) func(*JobOpts) {
	return func(o *JobOpts) { o.HREmail = email }
}

// WithTitle sets the job title
func WithTitle(title string) func(*JobOpts) {
	return func(o *JobOpts) { o.Title = title }
}

// WithSalary sets the salary range
func WithSalary(min, max float64) func(*JobOpts) {
	return func(o *JobOpts) {
		o.SalaryMin = min
		o.SalaryMax = max
	}
}

// CreateJob creates a job with optional customizations
func (f *Factory) CreateJob(t *testing.T, opts ...func(*JobOpts)) *model.Job {
	t.Helper()

	suffix := randomID()
	o := &JobOpts{
		Title:       "Software Engineer " + suffix,
		HREmail:     fmt.Sprintf("hr_%s@test.local", suffix),
		Company:     "Company " + suffix,
		CompanyLogo: "https://i.test.local/" + suffix + ".png",
		Location:    "Remote",
		SalaryMin:   40000,
		SalaryMax:   80000,
	}
	for _, fn := range opts {
		fn(o)
	}

	doc := model.Document{
		model.JobFieldTitle:       o.Title,
		model.JobFieldHREmail:     o.HREmail,
		model.JobFieldCompany:     o.Company,
		model.JobFieldCompanyLogo: o.CompanyLogo,
		model.JobFieldLocation:    o.Location,
		model.JobFieldSalaryRange: map[string]any{"min": o.SalaryMin, "max": o.SalaryMax, "currency": "usd"},
	}
	for k, v := range o.Extra {
		doc[k] = v
	}

	id, err := f.jobs.Create(ctx(t), doc)
	if err != nil {
		t.Fatalf("fixtures: failed to create job: %v", err)
	}

	job, err := f.jobs.GetByID(ctx(t), id)
	if err != nil || job == nil {
		t.Fatalf("fixtures: failed to read back job %s: %v", id, err)
	}
	return job
}

// DeleteJob removes a job, leaving applications that reference it dangling
func (f *Factory) DeleteJob(t *testing.T, job *model.Job) {
	t.Helper()

	if err := f.db.Execute(ctx(t), `DELETE type::record($id)`, map[string]interface{}{"id": job.ID}); err != nil {
		t.Fatalf("fixtures: failed to delete job: %v", err)
	}
}

// ============================================================================
// Application Fixtures
// ============================================================================

// CreateApplication stores an application for job without touching the
// job's counter, returning its id.
func (f *Factory) CreateApplication(t *testing.T, jobID, participantEmail string) string {
	t.Helper()

	query := `CREATE application CONTENT {
		jobId: $job_id,
		participantEmail: $email,
		status: "pending",
		resume: "https://cv.test.local/" + $suffix
	}`
	vars := map[string]interface{}{
		"job_id": jobID,
		"email":  participantEmail,
		"suffix": randomID(),
	}

	results, err := f.db.Query(ctx(t), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create application: %v", err)
	}

	records := database.StatementRecords(results, 0)
	if len(records) == 0 {
		t.Fatalf("fixtures: no application returned")
	}
	data, _ := records[0].(map[string]interface{})
	rid, ok := data["id"].(models.RecordID)
	if !ok {
		t.Fatalf("fixtures: unexpected application id %T", data["id"])
	}
	return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
}

// Email returns a unique participant address
func Email() string {
	return fmt.Sprintf("seeker_%s@test.local", randomID())
}
