package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/testing/helpers"
)

func newJobMux(repo *mockJobRepo) *http.ServeMux {
	h := NewJobHandler(service.NewJobService(service.JobServiceConfig{JobRepo: repo}))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", h.List)
	mux.HandleFunc("POST /jobs", h.Create)
	mux.HandleFunc("GET /jobs/{id}", h.Get)
	return mux
}

func TestParseJobFilter(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"email":  {"hr@example.com"},
		"search": {"go"},
		"sort":   {"true"},
		"min":    {"1000.5"},
		"max":    {"5000"},
		"limit":  {"10"},
		"offset": {"20"},
	}

	filter, errs := parseJobFilter(q)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if filter.Email != "hr@example.com" || filter.Search != "go" || !filter.Sort {
		t.Errorf("unexpected string params: %+v", filter)
	}
	if filter.Min == nil || *filter.Min != 1000.5 {
		t.Errorf("expected min 1000.5, got %v", filter.Min)
	}
	if filter.Max == nil || *filter.Max != 5000 {
		t.Errorf("expected max 5000, got %v", filter.Max)
	}
	if filter.Limit == nil || *filter.Limit != 10 {
		t.Errorf("expected limit 10, got %v", filter.Limit)
	}
	if filter.Offset == nil || *filter.Offset != 20 {
		t.Errorf("expected offset 20, got %v", filter.Offset)
	}
}

func TestParseJobFilter_AbsentAndEmpty(t *testing.T) {
	t.Parallel()

	filter, errs := parseJobFilter(url.Values{"min": {""}, "limit": {""}, "sort": {"false"}})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if filter.Min != nil || filter.Max != nil || filter.Limit != nil || filter.Offset != nil {
		t.Errorf("expected empty values to count as absent, got %+v", filter)
	}
	if filter.Sort {
		t.Error("only sort=true enables sorting")
	}
}

func TestParseJobFilter_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param string
		value string
	}{
		{"min", "abc"},
		{"max", "NaN"},
		{"min", "Inf"},
		{"limit", "1.5"},
		{"offset", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.param+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			_, errs := parseJobFilter(url.Values{tt.param: {tt.value}})
			if len(errs) != 1 || errs[0].Field != tt.param {
				t.Errorf("expected one %s error, got %+v", tt.param, errs)
			}
		})
	}
}

func TestJobHandler_List(t *testing.T) {
	t.Parallel()

	var got model.JobFilter
	repo := &mockJobRepo{
		listFunc: func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
			got = filter
			return []*model.Job{
				{ID: "job:a", Title: "Go Developer", HREmail: "hr@example.com", SalaryRange: &model.SalaryRange{Min: 1000, Max: 3000}},
			}, nil
		},
	}

	rr := httptest.NewRecorder()
	newJobMux(repo).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs?email=hr@example.com&sort=true", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Email != "hr@example.com" || !got.Sort {
		t.Errorf("filter not passed through: %+v", got)
	}

	var jobs []map[string]any
	helpers.DecodeResponse(t, rr, &jobs)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0]["_id"] != "job:a" {
		t.Errorf("expected _id job:a, got %v", jobs[0]["_id"])
	}
	if jobs[0]["applicationCount"] != float64(0) {
		t.Errorf("expected applicationCount 0, got %v", jobs[0]["applicationCount"])
	}
}

func TestJobHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newJobMux(&mockJobRepo{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestJobHandler_List_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		repo   *mockJobRepo
		status int
	}{
		{"bad min", "?min=lots", &mockJobRepo{}, http.StatusUnprocessableEntity},
		{"limit out of range", "?limit=500", &mockJobRepo{}, http.StatusUnprocessableEntity},
		{"negative offset", "?offset=-1", &mockJobRepo{}, http.StatusUnprocessableEntity},
		{
			"store down", "",
			&mockJobRepo{listFunc: func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
				return nil, fmt.Errorf("query: %w", database.ErrUnavailable)
			}},
			http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			newJobMux(tt.repo).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs"+tt.query, nil))
			if rr.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			helpers.DecodeProblem(t, rr)
		})
	}
}

func TestJobHandler_Get(t *testing.T) {
	t.Parallel()

	var requested string
	repo := &mockJobRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Job, error) {
			requested = id
			if id == "job:abc" {
				return &model.Job{ID: id, Title: "Go Developer", ApplicationCount: 3}, nil
			}
			return nil, nil
		},
	}
	mux := newJobMux(repo)

	t.Run("found by bare key", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/abc", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if requested != "job:abc" {
			t.Errorf("expected canonical id, got %q", requested)
		}
		var job map[string]any
		helpers.DecodeResponse(t, rr, &job)
		if job["applicationCount"] != float64(3) {
			t.Errorf("expected applicationCount 3, got %v", job["applicationCount"])
		}
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/missing", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
		helpers.DecodeProblem(t, rr)
	})

	t.Run("malformed id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/application:abc", nil))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rr.Code)
		}
		if !helpers.HasFieldError(helpers.DecodeProblem(t, rr), "id") {
			t.Error("expected an id field error")
		}
	})
}

func TestJobHandler_Create(t *testing.T) {
	t.Parallel()

	var stored model.Document
	repo := &mockJobRepo{
		createFunc: func(ctx context.Context, doc model.Document) (string, error) {
			stored = doc
			return "job:xyz", nil
		},
	}

	body := `{"title":"Go Developer","hr_email":"hr@example.com","salaryRange":{"min":1000,"max":3000,"currency":"usd"},"deadline":"2024-12-31"}`
	rr := httptest.NewRecorder()
	newJobMux(repo).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result model.InsertResult
	helpers.DecodeResponse(t, rr, &result)
	if !result.Acknowledged || result.InsertedID != "job:xyz" {
		t.Errorf("unexpected result %+v", result)
	}
	if stored["deadline"] != "2024-12-31" {
		t.Errorf("expected unknown fields to be stored, got %v", stored)
	}
}

func TestJobHandler_Create_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"non-string title", `{"title":7}`, "title"},
		{"salary without bounds", `{"salaryRange":{"min":"low"}}`, "salaryRange.min"},
		{"negative count", `{"applicationCount":-1}`, "applicationCount"},
		{"null count", `{"applicationCount":null}`, "applicationCount"},
		{"not an object", `[]`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			repo := &mockJobRepo{createFunc: func(ctx context.Context, doc model.Document) (string, error) {
				called = true
				return "job:x", nil
			}}

			rr := httptest.NewRecorder()
			newJobMux(repo).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(tt.body)))

			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rr.Code)
			}
			if !helpers.HasFieldError(helpers.DecodeProblem(t, rr), tt.field) {
				t.Errorf("expected a %s field error", tt.field)
			}
			if called {
				t.Error("nothing should be stored for an invalid job")
			}
		})
	}
}
