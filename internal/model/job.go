package model

import (
	"encoding/json"
	"math"
)

// Job field names
const (
	JobFieldTitle            = "title"
	JobFieldHREmail          = "hr_email"
	JobFieldCompany          = "company"
	JobFieldCompanyLogo      = "company_logo"
	JobFieldLocation         = "location"
	JobFieldSalaryRange      = "salaryRange"
	JobFieldApplicationCount = "applicationCount"
)

// SalaryRange is the advertised pay band of a job
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// Job is a posting created by an employer. Only applicationCount is ever
// changed after creation.
type Job struct {
	ID               string
	Title            string
	HREmail          string
	Company          string
	CompanyLogo      string
	Location         string
	SalaryRange      *SalaryRange
	ApplicationCount int

	// Extra holds every other stored field verbatim.
	Extra Document
}

// JobFromDocument builds a Job from a stored document. Known fields with an
// unexpected type are left in Extra and returned as stored.
func JobFromDocument(id string, doc Document) *Job {
	extra := doc.clone("id", "_id")

	job := &Job{
		ID:          id,
		Title:       extra.takeString(JobFieldTitle),
		HREmail:     extra.takeString(JobFieldHREmail),
		Company:     extra.takeString(JobFieldCompany),
		CompanyLogo: extra.takeString(JobFieldCompanyLogo),
		Location:    extra.takeString(JobFieldLocation),
	}

	if sr, ok := salaryRangeFrom(extra[JobFieldSalaryRange]); ok {
		job.SalaryRange = sr
		delete(extra, JobFieldSalaryRange)
	}

	if n, ok := toFloat(extra[JobFieldApplicationCount]); ok && n >= 0 && n == math.Trunc(n) {
		job.ApplicationCount = int(n)
		delete(extra, JobFieldApplicationCount)
	} else if extra[JobFieldApplicationCount] == nil {
		delete(extra, JobFieldApplicationCount)
	}

	if len(extra) > 0 {
		job.Extra = extra
	}
	return job
}

// MarshalJSON writes the job as one flat object, known fields over Extra.
// applicationCount is always present; an absent counter reads as 0.
func (j Job) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(j.Extra)+8)
	for k, v := range j.Extra {
		out[k] = v
	}

	out["_id"] = j.ID
	setIfNotEmpty(out, JobFieldTitle, j.Title)
	setIfNotEmpty(out, JobFieldHREmail, j.HREmail)
	setIfNotEmpty(out, JobFieldCompany, j.Company)
	setIfNotEmpty(out, JobFieldCompanyLogo, j.CompanyLogo)
	setIfNotEmpty(out, JobFieldLocation, j.Location)
	if j.SalaryRange != nil {
		out[JobFieldSalaryRange] = j.SalaryRange
	}
	if _, stored := out[JobFieldApplicationCount]; !stored {
		out[JobFieldApplicationCount] = j.ApplicationCount
	}

	return json.Marshal(out)
}

// salaryRangeFrom converts a stored salaryRange object. Objects with other
// keys or non-numeric bounds are not converted.
func salaryRangeFrom(v any) (*SalaryRange, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for k := range raw {
		if k != "min" && k != "max" && k != "currency" {
			return nil, false
		}
	}

	lo, okMin := toFloat(raw["min"])
	hi, okMax := toFloat(raw["max"])
	if !okMin || !okMax {
		return nil, false
	}
	sr := &SalaryRange{Min: lo, Max: hi}
	if c, present := raw["currency"]; present {
		currency, isString := c.(string)
		if !isString {
			return nil, false
		}
		sr.Currency = currency
	}
	return sr, true
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// CreateJobRequest is the body of POST /jobs. Any JSON object is accepted
// and stored as sent.
type CreateJobRequest Document

// Validate checks the fields the API depends on, when present.
func (r CreateJobRequest) Validate() []FieldError {
	var errors []FieldError

	for _, field := range []string{JobFieldTitle, JobFieldHREmail, JobFieldCompany, JobFieldCompanyLogo, JobFieldLocation} {
		if v, ok := r[field]; ok && v != nil {
			if _, isString := v.(string); !isString {
				errors = append(errors, FieldError{Field: field, Message: "must be a string"})
			}
		}
	}

	if v, ok := r[JobFieldSalaryRange]; ok && v != nil {
		if errs := validateSalaryRange(v); len(errs) > 0 {
			errors = append(errors, errs...)
		}
	}

	// The column is option<int>: it may be omitted but never null.
	if v, ok := r[JobFieldApplicationCount]; ok {
		n, isNumber := toFloat(v)
		if !isNumber || n < 0 || n != math.Trunc(n) {
			errors = append(errors, FieldError{Field: JobFieldApplicationCount, Message: "must be a non-negative integer"})
		}
	}

	return errors
}

func validateSalaryRange(v any) []FieldError {
	raw, ok := v.(map[string]any)
	if !ok {
		return []FieldError{{Field: JobFieldSalaryRange, Message: "must be an object with min and max"}}
	}

	// The listing filters compare min and max numerically.
	var errors []FieldError
	for _, bound := range []string{"min", "max"} {
		if _, isNumber := toFloat(raw[bound]); !isNumber {
			errors = append(errors, FieldError{Field: JobFieldSalaryRange + "." + bound, Message: "must be a number"})
		}
	}
	return errors
}

// JobFilter holds the job listing parameters. Nil pointers mean the
// parameter was not supplied.
type JobFilter struct {
	Email  string
	Search string
	Min    *float64
	Max    *float64
	Sort   bool
	Limit  *int
	Offset *int
}

// Pagination bounds for job listings
const (
	MinJobLimit = 1
	MaxJobLimit = 100
)
