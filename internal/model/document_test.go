package model

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return out
}

func hasField(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// ============================================================================
// ParseRecordID Tests
// ============================================================================

func TestParseRecordID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare key", "abc123", "job:abc123", false},
		{"full id", "job:abc123", "job:abc123", false},
		{"surrounding space", "  job:k_1 ", "job:k_1", false},
		{"other table", "application:abc", "", true},
		{"empty", "", "", true},
		{"empty key", "job:", "", true},
		{"injection attempt", "abc; DELETE job", "", true},
		{"nested colon", "job:a:b", "", true},
		{"mongo object id", "6745a1b2c3d4e5f6a7b8c9d0", "job:6745a1b2c3d4e5f6a7b8c9d0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecordID(TableJob, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRecordID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// ============================================================================
// Document Tests
// ============================================================================

func TestDocument_StorageContent_DropsIdentifiersAndNormalizesNumbers(t *testing.T) {
	t.Parallel()

	doc := Document{
		"_id":         "forged",
		"id":          "job:forged",
		"title":       "Backend Dev",
		"salaryRange": map[string]any{"min": float64(60000), "max": 90000.5},
		"tags":        []any{float64(1), "x"},
	}

	content := doc.StorageContent()

	if _, ok := content["_id"]; ok {
		t.Error("_id must not be stored")
	}
	if _, ok := content["id"]; ok {
		t.Error("id must not be stored")
	}
	sr := content["salaryRange"].(map[string]any)
	if _, ok := sr["min"].(int64); !ok {
		t.Errorf("expected whole number to become int64, got %T", sr["min"])
	}
	if _, ok := sr["max"].(float64); !ok {
		t.Errorf("expected fractional number to stay float64, got %T", sr["max"])
	}
	if _, ok := content["tags"].([]any)[0].(int64); !ok {
		t.Error("expected numbers inside arrays to be normalized")
	}
	if _, ok := doc["_id"]; !ok {
		t.Error("StorageContent must not modify the receiver")
	}
}

// ============================================================================
// Job Tests
// ============================================================================

func TestJobFromDocument_ParsesKnownFieldsAndKeepsExtra(t *testing.T) {
	t.Parallel()

	doc := Document{
		"id":               "job:raw",
		"title":            "Backend Dev",
		"hr_email":         "a@x.com",
		"company":          "Acme",
		"company_logo":     "https://logo",
		"location":         "Remote",
		"salaryRange":      map[string]any{"min": uint64(60000), "max": uint64(90000), "currency": "usd"},
		"applicationCount": uint64(3),
		"requirements":     []any{"Go"},
	}

	job := JobFromDocument("job:abc", doc)

	if job.ID != "job:abc" || job.Title != "Backend Dev" || job.HREmail != "a@x.com" {
		t.Errorf("unexpected job: %+v", job)
	}
	if job.SalaryRange == nil || job.SalaryRange.Min != 60000 || job.SalaryRange.Max != 90000 || job.SalaryRange.Currency != "usd" {
		t.Errorf("unexpected salary range: %+v", job.SalaryRange)
	}
	if job.ApplicationCount != 3 {
		t.Errorf("expected count 3, got %d", job.ApplicationCount)
	}
	if len(job.Extra) != 1 || job.Extra["requirements"] == nil {
		t.Errorf("expected only requirements in Extra, got %v", job.Extra)
	}
}

func TestJob_MarshalJSON_AbsentCounterReadsZero(t *testing.T) {
	t.Parallel()

	job := JobFromDocument("job:abc", Document{"title": "T"})

	out := decode(t, job)

	if out["_id"] != "job:abc" {
		t.Errorf("expected _id job:abc, got %v", out["_id"])
	}
	if out["applicationCount"] != float64(0) {
		t.Errorf("expected applicationCount 0, got %v", out["applicationCount"])
	}
	if _, ok := out["id"]; ok {
		t.Error("raw id must not be exposed")
	}
}

func TestJob_MarshalJSON_UnexpectedTypesRoundTripVerbatim(t *testing.T) {
	t.Parallel()

	doc := Document{
		"title":       float64(42),
		"salaryRange": "negotiable",
		"benefits":    map[string]any{"remote": true},
	}

	out := decode(t, JobFromDocument("job:abc", doc))

	if out["title"] != float64(42) {
		t.Errorf("expected non-string title kept verbatim, got %v", out["title"])
	}
	if out["salaryRange"] != "negotiable" {
		t.Errorf("expected salaryRange kept verbatim, got %v", out["salaryRange"])
	}
	if out["benefits"].(map[string]any)["remote"] != true {
		t.Errorf("expected nested extra field, got %v", out["benefits"])
	}
}

func TestCreateJobRequest_Validate_AcceptsArbitraryDocument(t *testing.T) {
	t.Parallel()

	req := CreateJobRequest{
		"title":       "Backend Dev",
		"hr_email":    "a@x.com",
		"salaryRange": map[string]any{"min": float64(60000), "max": float64(90000)},
		"anything":    []any{1, 2, 3},
	}

	if errs := req.Validate(); len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if errs := (CreateJobRequest{}).Validate(); len(errs) > 0 {
		t.Errorf("expected empty document to be valid, got %v", errs)
	}
}

func TestCreateJobRequest_Validate_RejectsMalformedKnownFields(t *testing.T) {
	t.Parallel()

	req := CreateJobRequest{
		"hr_email":         123,
		"salaryRange":      map[string]any{"min": "60k", "max": float64(90000)},
		"applicationCount": float64(-1),
	}

	errs := req.Validate()

	for _, field := range []string{"hr_email", "salaryRange.min", "applicationCount"} {
		if !hasField(errs, field) {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
	if hasField(errs, "salaryRange.max") {
		t.Errorf("did not expect error for salaryRange.max, got %v", errs)
	}
}

func TestCreateJobRequest_Validate_NullApplicationCount(t *testing.T) {
	t.Parallel()

	errs := CreateJobRequest{"title": "Go Developer", "applicationCount": nil}.Validate()
	if !hasField(errs, "applicationCount") {
		t.Errorf("expected applicationCount error for null, got %v", errs)
	}
}

func TestCreateJobRequest_Validate_SalaryRangeMustBeObject(t *testing.T) {
	t.Parallel()

	errs := CreateJobRequest{"salaryRange": "lots"}.Validate()
	if !hasField(errs, "salaryRange") {
		t.Errorf("expected salaryRange error, got %v", errs)
	}
}

// ============================================================================
// Application Tests
// ============================================================================

func TestApplication_Enrich_OverwritesDisplayFields(t *testing.T) {
	t.Parallel()

	app := ApplicationFromDocument("application:1", Document{
		"jobId":            "job:abc",
		"participantEmail": "s@x.com",
		"status":           "pending",
		"title":            "stale title",
		"resume":           "https://cv",
	})
	job := &Job{ID: "job:abc", Title: "Backend Dev", Company: "Acme", CompanyLogo: "https://logo", Location: "Remote"}

	app.Enrich(job)
	out := decode(t, app)

	want := map[string]any{
		"_id":              "application:1",
		"jobId":            "job:abc",
		"participantEmail": "s@x.com",
		"status":           "pending",
		"title":            "Backend Dev",
		"company":          "Acme",
		"company_logo":     "https://logo",
		"location":         "Remote",
		"resume":           "https://cv",
	}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("%s = %v, want %v", k, out[k], v)
		}
	}
}

func TestApplication_Enrich_NilJobLeavesRowUnchanged(t *testing.T) {
	t.Parallel()

	app := ApplicationFromDocument("application:1", Document{"jobId": "job:gone", "title": "kept"})

	app.Enrich(nil)

	if app.Title != "kept" {
		t.Errorf("expected title to be kept, got %q", app.Title)
	}
}

func TestCreateApplicationRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       CreateApplicationRequest
		wantField string
	}{
		{"valid full id", CreateApplicationRequest{"jobId": "job:abc", "participantEmail": "s@x.com"}, ""},
		{"valid bare key", CreateApplicationRequest{"jobId": "abc"}, ""},
		{"missing jobId", CreateApplicationRequest{"participantEmail": "s@x.com"}, "jobId"},
		{"blank jobId", CreateApplicationRequest{"jobId": "  "}, "jobId"},
		{"numeric jobId", CreateApplicationRequest{"jobId": float64(7)}, "jobId"},
		{"malformed jobId", CreateApplicationRequest{"jobId": "application:abc"}, "jobId"},
		{"non-string email", CreateApplicationRequest{"jobId": "abc", "participantEmail": true}, "participantEmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			if tt.wantField == "" {
				if len(errs) > 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if !hasField(errs, tt.wantField) {
				t.Errorf("expected %s error, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestUpdateApplicationStatusRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status any
		valid  bool
	}{
		{"known status", "accepted", true},
		{"free-form status", "interview scheduled", true},
		{"missing", nil, false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"number", float64(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &UpdateApplicationStatusRequest{Status: tt.status}
			errs := req.Validate()
			if tt.valid && len(errs) > 0 {
				t.Errorf("expected valid, got %v", errs)
			}
			if !tt.valid && !hasField(errs, "status") {
				t.Errorf("expected status error, got %v", errs)
			}
		})
	}
}
