package handler

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
)

// JobHandler handles job endpoints
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List handles GET /jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseJobFilter(r.URL.Query())
	if len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	jobs, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "list jobs")
		return
	}

	WriteJSON(w, http.StatusOK, jobs)
}

// Get handles GET /jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get job")
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// Create handles POST /jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if problem := decodeDocument(w, r, &doc); problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.jobService.Create(r.Context(), model.CreateJobRequest(doc))
	if err != nil {
		writeServiceError(w, r, err, "create job")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// parseJobFilter reads the listing query parameters. Empty values count as
// absent; only sort=true enables sorting.
func parseJobFilter(q url.Values) (model.JobFilter, []model.FieldError) {
	var errs []model.FieldError
	filter := model.JobFilter{
		Email:  q.Get("email"),
		Search: q.Get("search"),
		Sort:   q.Get("sort") == "true",
	}

	parseFloat := func(name string) *float64 {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, model.FieldError{Field: name, Message: "must be a number"})
			return nil
		}
		return &v
	}
	parseInt := func(name string) *int {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: name, Message: "must be an integer"})
			return nil
		}
		return &v
	}

	filter.Min = parseFloat("min")
	filter.Max = parseFloat("max")
	filter.Limit = parseInt("limit")
	filter.Offset = parseInt("offset")

	return filter, errs
}
