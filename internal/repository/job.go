package repository

import (
	"context"
	"errors"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// JobRepository handles job data access
type JobRepository struct {
	db database.Database
}

// NewJobRepository creates a new job repository
func NewJobRepository(db database.Database) *JobRepository {
	return &JobRepository{db: db}
}

// Create stores a job document and returns its id
func (r *JobRepository) Create(ctx context.Context, doc model.Document) (string, error) {
	query := `CREATE job CONTENT $content`
	vars := map[string]interface{}{"content": doc.StorageContent()}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return "", err
	}

	return createdID(result, 0)
}

// GetByID retrieves a job by id. A missing job returns nil, nil.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	jobID, doc, err := toDocument(result)
	if err != nil {
		return nil, err
	}
	return model.JobFromDocument(jobID, doc), nil
}

// List retrieves the jobs matching filter
func (r *JobRepository) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	query, vars := jobListQuery(filter)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseJobs(database.StatementRecords(result, 0))
}
