package handler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/testing/helpers"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockJobRepo struct {
	createFunc  func(ctx context.Context, doc model.Document) (string, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Job, error)
	listFunc    func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
}

func (m *mockJobRepo) Create(ctx context.Context, doc model.Document) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	return "job:new", nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*model.Job{}, nil
}

type mockApplicationRepo struct {
	createWithCounterFunc func(ctx context.Context, doc model.Document, jobID string) (string, error)
	listByParticipantFunc func(ctx context.Context, email string) ([]*model.Application, error)
	listByJobFunc         func(ctx context.Context, jobID string) ([]*model.Application, error)
	updateStatusFunc      func(ctx context.Context, id, status string) (bool, error)
}

func (m *mockApplicationRepo) CreateWithCounter(ctx context.Context, doc model.Document, jobID string) (string, error) {
	if m.createWithCounterFunc != nil {
		return m.createWithCounterFunc(ctx, doc, jobID)
	}
	return "application:new", nil
}

func (m *mockApplicationRepo) ListByParticipant(ctx context.Context, email string) ([]*model.Application, error) {
	if m.listByParticipantFunc != nil {
		return m.listByParticipantFunc(ctx, email)
	}
	return []*model.Application{}, nil
}

func (m *mockApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	if m.listByJobFunc != nil {
		return m.listByJobFunc(ctx, jobID)
	}
	return []*model.Application{}, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return true, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// ============================================================================
// Helpers
// ============================================================================

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestSessions returns a session service backed by a fake clock
func newTestSessions(t *testing.T) (*service.SessionService, *jwt.Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testNow)
	tokens := helpers.NewTestTokens(t, clock)
	return service.NewSessionService(service.SessionServiceConfig{Tokens: tokens}), tokens, clock
}
