package service

import (
	"context"
	"log/slog"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/metrics"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// JobRepository defines the interface for job storage
type JobRepository interface {
	Create(ctx context.Context, doc model.Document) (string, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
}

// JobService handles job business logic
type JobService struct {
	repo    JobRepository
	metrics *metrics.PortalMetrics
}

// JobServiceConfig holds configuration for the job service
type JobServiceConfig struct {
	JobRepo JobRepository
	Metrics *metrics.PortalMetrics // optional
}

// NewJobService creates a new job service
func NewJobService(cfg JobServiceConfig) *JobService {
	return &JobService{
		repo:    cfg.JobRepo,
		metrics: cfg.Metrics,
	}
}

// Create stores a job posting as sent
func (s *JobService) Create(ctx context.Context, req model.CreateJobRequest) (*model.InsertResult, error) {
	if errors := req.Validate(); len(errors) > 0 {
		return nil, model.NewValidationError(errors)
	}

	id, err := s.repo.Create(ctx, model.Document(req))
	if err != nil {
		return nil, storeError(err)
	}

	s.metrics.JobCreated()
	slog.InfoContext(ctx, "job created", slog.String("job_id", id))
	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Get retrieves a job by id
func (s *JobService) Get(ctx context.Context, rawID string) (*model.Job, error) {
	id, err := model.ParseRecordID(model.TableJob, rawID)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{{Field: "id", Message: err.Error()}})
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// List retrieves the jobs matching filter
func (s *JobService) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	if errors := validateJobFilter(filter); len(errors) > 0 {
		return nil, model.NewValidationError(errors)
	}

	jobs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return jobs, nil
}

func validateJobFilter(f model.JobFilter) []model.FieldError {
	var errors []model.FieldError
	if f.Limit != nil && (*f.Limit < model.MinJobLimit || *f.Limit > model.MaxJobLimit) {
		errors = append(errors, model.FieldError{Field: "limit", Message: "must be between 1 and 100"})
	}
	if f.Offset != nil && *f.Offset < 0 {
		errors = append(errors, model.FieldError{Field: "offset", Message: "must not be negative"})
	}
	return errors
}
