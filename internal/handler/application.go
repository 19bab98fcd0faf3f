package handler

import (
	"net/http"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
)

// ApplicationHandler handles job application endpoints
type ApplicationHandler struct {
	appService *service.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// ListMine handles GET /apply-jobs?email=
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	apps, err := h.appService.ListMine(r.Context(), claims, r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "list applications")
		return
	}

	WriteJSON(w, http.StatusOK, apps)
}

// ListForJob handles GET /apply-jobs/jobs/{id}
func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	apps, err := h.appService.ListForJob(r.Context(), claims, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list job applications")
		return
	}

	WriteJSON(w, http.StatusOK, apps)
}

// Create handles POST /apply-jobs
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if problem := decodeDocument(w, r, &doc); problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.appService.Create(r.Context(), model.CreateApplicationRequest(doc))
	if err != nil {
		writeServiceError(w, r, err, "create application")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// UpdateStatus handles PATCH /apply-jobs/{id}
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateApplicationStatusRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, bodyProblem(err))
		return
	}

	result, err := h.appService.UpdateStatus(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, r, err, "update application status")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
