package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/metrics"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// DefaultEnrichConcurrency bounds the job lookups of one listing
const DefaultEnrichConcurrency = 8

// ApplicationRepository defines the interface for application storage
type ApplicationRepository interface {
	CreateWithCounter(ctx context.Context, doc model.Document, jobID string) (string, error)
	ListByParticipant(ctx context.Context, email string) ([]*model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

// JobLookup defines the job reads the application service needs
type JobLookup interface {
	GetByID(ctx context.Context, id string) (*model.Job, error)
}

// ApplicationService handles application business logic
type ApplicationService struct {
	repo              ApplicationRepository
	jobs              JobLookup
	metrics           *metrics.PortalMetrics
	ownerCheck        bool
	enrichConcurrency int
}

// ApplicationServiceConfig holds configuration for the application service
type ApplicationServiceConfig struct {
	ApplicationRepo ApplicationRepository
	JobRepo         JobLookup
	Metrics         *metrics.PortalMetrics // optional

	// OwnerCheck restricts a job's applicant list to the job's hr_email.
	OwnerCheck bool

	// EnrichConcurrency defaults to DefaultEnrichConcurrency.
	EnrichConcurrency int
}

// NewApplicationService creates a new application service
func NewApplicationService(cfg ApplicationServiceConfig) *ApplicationService {
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = DefaultEnrichConcurrency
	}
	return &ApplicationService{
		repo:              cfg.ApplicationRepo,
		jobs:              cfg.JobRepo,
		metrics:           cfg.Metrics,
		ownerCheck:        cfg.OwnerCheck,
		enrichConcurrency: cfg.EnrichConcurrency,
	}
}

// Create stores an application and bumps the referenced job's counter.
// Nothing is written when the job does not exist.
func (s *ApplicationService) Create(ctx context.Context, req model.CreateApplicationRequest) (*model.InsertResult, error) {
	if errors := req.Validate(); len(errors) > 0 {
		return nil, model.NewValidationError(errors)
	}

	jobID, err := model.ParseRecordID(model.TableJob, req.JobID())
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{{Field: model.AppFieldJobID, Message: err.Error()}})
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeError(err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	doc := make(model.Document, len(req))
	for k, v := range req {
		doc[k] = v
	}
	doc[model.AppFieldJobID] = jobID

	id, err := s.repo.CreateWithCounter(ctx, doc, jobID)
	if err != nil {
		return nil, storeError(err)
	}

	s.metrics.ApplicationCreated()
	slog.InfoContext(ctx, "application created",
		slog.String("application_id", id),
		slog.String("job_id", jobID),
	)
	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListMine returns the applications of email, each carrying the display
// fields of its job. The session must belong to email.
func (s *ApplicationService) ListMine(ctx context.Context, claims *jwt.Claims, email string) ([]*model.Application, error) {
	if err := authorizeOwner(claims, email); err != nil {
		return nil, err
	}

	apps, err := s.repo.ListByParticipant(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}

	if err := s.enrich(ctx, apps); err != nil {
		return nil, storeError(err)
	}
	return apps, nil
}

// ListForJob returns the applications submitted to a job. With the owner
// check enabled only the job's hr_email may list them.
func (s *ApplicationService) ListForJob(ctx context.Context, claims *jwt.Claims, rawJobID string) ([]*model.Application, error) {
	if claims == nil {
		return nil, ErrUnauthorized
	}

	jobID, err := model.ParseRecordID(model.TableJob, rawJobID)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{{Field: "id", Message: err.Error()}})
	}

	if s.ownerCheck {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, storeError(err)
		}
		if job == nil {
			return nil, ErrJobNotFound
		}
		if err := authorizeOwner(claims, job.HREmail); err != nil {
			return nil, err
		}
	}

	apps, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err)
	}
	return apps, nil
}

// UpdateStatus replaces the status of an application
func (s *ApplicationService) UpdateStatus(ctx context.Context, rawID string, req *model.UpdateApplicationStatusRequest) (*model.UpdateResult, error) {
	if errors := req.Validate(); len(errors) > 0 {
		return nil, model.NewValidationError(errors)
	}

	id, err := model.ParseRecordID(model.TableApplication, rawID)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{{Field: "id", Message: err.Error()}})
	}

	modified, err := s.repo.UpdateStatus(ctx, id, req.StatusValue())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, storeError(err)
	}

	result := &model.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if modified {
		result.ModifiedCount = 1
	}
	return result, nil
}

// enrich copies job display fields onto apps. Each referenced job is read
// once. Applications whose job is missing or unparsable are left as they are.
func (s *ApplicationService) enrich(ctx context.Context, apps []*model.Application) error {
	ids := make(map[string]struct{})
	for _, app := range apps {
		if id, err := model.ParseRecordID(model.TableJob, app.JobID); err == nil {
			ids[id] = struct{}{}
		} else {
			s.metrics.EnrichmentLookup("missing")
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		jobs = make(map[string]*model.Job, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.enrichConcurrency)
	for id := range ids {
		g.Go(func() error {
			job, err := s.jobs.GetByID(gctx, id)
			if err != nil {
				s.metrics.EnrichmentLookup("error")
				return err
			}
			if job == nil {
				s.metrics.EnrichmentLookup("missing")
				slog.DebugContext(ctx, "application references missing job", slog.String("job_id", id))
				return nil
			}

			s.metrics.EnrichmentLookup("hit")
			mu.Lock()
			jobs[id] = job
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, app := range apps {
		if id, err := model.ParseRecordID(model.TableJob, app.JobID); err == nil {
			app.Enrich(jobs[id])
		}
	}
	return nil
}
