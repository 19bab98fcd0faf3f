package service

import (
	"context"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
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
