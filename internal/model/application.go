package model

import (
	"encoding/json"
	"strings"
)

// Application field names
const (
	AppFieldJobID            = "jobId"
	AppFieldParticipantEmail = "participantEmail"
	AppFieldStatus           = "status"
)

// Application is a job seeker's submission for a job. Only status changes
// after creation.
type Application struct {
	ID               string
	JobID            string
	ParticipantEmail string
	Status           string

	// Copied from the referenced job when listing a seeker's applications.
	Company     string
	CompanyLogo string
	Title       string
	Location    string

	// Extra holds every other stored field verbatim.
	Extra Document
}

// ApplicationFromDocument builds an Application from a stored document.
func ApplicationFromDocument(id string, doc Document) *Application {
	extra := doc.clone("id", "_id")

	app := &Application{
		ID:               id,
		JobID:            extra.takeString(AppFieldJobID),
		ParticipantEmail: extra.takeString(AppFieldParticipantEmail),
		Status:           extra.takeString(AppFieldStatus),
		Company:          extra.takeString(JobFieldCompany),
		CompanyLogo:      extra.takeString(JobFieldCompanyLogo),
		Title:            extra.takeString(JobFieldTitle),
		Location:         extra.takeString(JobFieldLocation),
	}

	if len(extra) > 0 {
		app.Extra = extra
	}
	return app
}

// Enrich copies the display fields of job onto the application, replacing
// whatever the application carried.
func (a *Application) Enrich(job *Job) {
	if job == nil {
		return
	}
	a.Company = job.Company
	a.CompanyLogo = job.CompanyLogo
	a.Title = job.Title
	a.Location = job.Location
	for _, field := range []string{JobFieldCompany, JobFieldCompanyLogo, JobFieldTitle, JobFieldLocation} {
		delete(a.Extra, field)
	}
}

// MarshalJSON writes the application as one flat object, known fields over Extra.
func (a Application) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+8)
	for k, v := range a.Extra {
		out[k] = v
	}

	out["_id"] = a.ID
	setIfNotEmpty(out, AppFieldJobID, a.JobID)
	setIfNotEmpty(out, AppFieldParticipantEmail, a.ParticipantEmail)
	setIfNotEmpty(out, AppFieldStatus, a.Status)
	setIfNotEmpty(out, JobFieldCompany, a.Company)
	setIfNotEmpty(out, JobFieldCompanyLogo, a.CompanyLogo)
	setIfNotEmpty(out, JobFieldTitle, a.Title)
	setIfNotEmpty(out, JobFieldLocation, a.Location)

	return json.Marshal(out)
}

// CreateApplicationRequest is the body of POST /apply-jobs. jobId is
// required; every other field is stored as sent.
type CreateApplicationRequest Document

// JobID returns the referenced job id as sent.
func (r CreateApplicationRequest) JobID() string {
	id, _ := r[AppFieldJobID].(string)
	return strings.TrimSpace(id)
}

// Validate checks the request
func (r CreateApplicationRequest) Validate() []FieldError {
	var errors []FieldError

	raw, present := r[AppFieldJobID]
	switch id, isString := raw.(string); {
	case !present || raw == nil || (isString && strings.TrimSpace(id) == ""):
		errors = append(errors, FieldError{Field: AppFieldJobID, Message: "is required"})
	case !isString:
		errors = append(errors, FieldError{Field: AppFieldJobID, Message: "must be a string"})
	default:
		if _, err := ParseRecordID(TableJob, id); err != nil {
			errors = append(errors, FieldError{Field: AppFieldJobID, Message: err.Error()})
		}
	}

	for _, field := range []string{AppFieldParticipantEmail, AppFieldStatus} {
		if v, ok := r[field]; ok && v != nil {
			if _, isString := v.(string); !isString {
				errors = append(errors, FieldError{Field: field, Message: "must be a string"})
			}
		}
	}

	return errors
}

// UpdateApplicationStatusRequest is the body of PATCH /apply-jobs/{id}
type UpdateApplicationStatusRequest struct {
	Status any `json:"status"`
}

// Validate checks that status is a non-empty string. Any value is accepted;
// there is no fixed set of statuses.
func (r *UpdateApplicationStatusRequest) Validate() []FieldError {
	s, ok := r.Status.(string)
	switch {
	case r.Status == nil:
		return []FieldError{{Field: AppFieldStatus, Message: "is required"}}
	case !ok:
		return []FieldError{{Field: AppFieldStatus, Message: "must be a string"}}
	case strings.TrimSpace(s) == "":
		return []FieldError{{Field: AppFieldStatus, Message: "must not be empty"}}
	}
	return nil
}

// StatusValue returns the validated status
func (r *UpdateApplicationStatusRequest) StatusValue() string {
	s, _ := r.Status.(string)
	return s
}
