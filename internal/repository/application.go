package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

const (
	maxTxAttempts  = 5
	txRetryBackoff = 10 * time.Millisecond
)

// ApplicationRepository handles application data access
type ApplicationRepository struct {
	db database.Database
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db database.Database) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// CreateWithCounter stores an application and increments the referenced
// job's applicationCount in one transaction. It returns the application id.
func (r *ApplicationRepository) CreateWithCounter(ctx context.Context, doc model.Document, jobID string) (string, error) {
	tx := database.NewTxBuilder()
	tx.Add(`CREATE application CONTENT $content`, map[string]interface{}{
		"content": doc.StorageContent(),
	})
	tx.Add(`UPDATE type::record($job_id) SET applicationCount += 1`, map[string]interface{}{
		"job_id": jobID,
	})

	result, err := executeWithRetry(ctx, r.db, tx)
	if err != nil {
		return "", err
	}

	id, err := createdID(result, 0)
	if err != nil {
		return "", err
	}
	if len(database.StatementRecords(result, 1)) == 0 {
		slog.WarnContext(ctx, "application counter not incremented, job missing",
			slog.String("job_id", jobID),
			slog.String("application_id", id),
		)
	}
	return id, nil
}

// executeWithRetry runs tx again while it fails with a write conflict
func executeWithRetry(ctx context.Context, db database.Database, tx *database.TxBuilder) ([]interface{}, error) {
	for attempt := 1; ; attempt++ {
		result, err := database.ExecuteTransaction(ctx, db, tx)
		if err == nil || !database.IsRetryable(err) || attempt == maxTxAttempts {
			return result, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}
}

// ListByParticipant retrieves the applications submitted by email
func (r *ApplicationRepository) ListByParticipant(ctx context.Context, email string) ([]*model.Application, error) {
	query := `SELECT * FROM application WHERE participantEmail = $email`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseApplications(database.StatementRecords(result, 0))
}

// ListByJob retrieves the applications referencing jobID. Applications
// stored with the bare key form of the id also match.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	query := `SELECT * FROM application WHERE jobId IN $job_ids`
	ids := []string{jobID}
	if _, key, found := strings.Cut(jobID, ":"); found {
		ids = append(ids, key)
	}
	vars := map[string]interface{}{"job_ids": ids}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseApplications(database.StatementRecords(result, 0))
}

// UpdateStatus sets the status of an application. It reports whether the
// stored value changed and returns database.ErrNotFound for an unknown id.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	query := `UPDATE type::record($id) SET status = $status RETURN BEFORE`
	vars := map[string]interface{}{
		"id":     id,
		"status": status,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return false, err
	}

	before, ok := result.(map[string]interface{})
	if !ok {
		return false, fmt.Errorf("%w: %T", errUnexpectedRecord, result)
	}
	previous, _ := before["status"].(string)
	return previous != status, nil
}
