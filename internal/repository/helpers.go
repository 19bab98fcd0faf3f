package repository

import (
	"errors"
	"fmt"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// errUnexpectedRecord is returned when a record is not an object
var errUnexpectedRecord = errors.New("unexpected record format")

// recordID renders a SurrealDB id as "table:key"
func recordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "job", "id": "xxx"} as produced by JSON encoders
		tb, _ := v["tb"].(string)
		if key, ok := v["id"]; ok && tb != "" {
			return fmt.Sprintf("%s:%v", tb, key)
		}
	}
	return fmt.Sprintf("%v", id)
}

// toDocument splits a stored record into its id and the rest of its fields
func toDocument(record interface{}) (string, model.Document, error) {
	data, ok := record.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("%w: %T", errUnexpectedRecord, record)
	}

	doc := make(model.Document, len(data))
	for k, v := range data {
		doc[k] = plainValue(v)
	}
	return recordID(data["id"]), doc, nil
}

// plainValue converts driver specific values nested in a document into
// values encoding/json writes the way clients sent them.
func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case models.RecordID, *models.RecordID:
		return recordID(t)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
		return nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = plainValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, inner := range t {
			out[i] = plainValue(inner)
		}
		return out
	}
	return v
}

func parseJobs(records []interface{}) ([]*model.Job, error) {
	jobs := make([]*model.Job, 0, len(records))
	for _, rec := range records {
		id, doc, err := toDocument(rec)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, model.JobFromDocument(id, doc))
	}
	return jobs, nil
}

func parseApplications(records []interface{}) ([]*model.Application, error) {
	apps := make([]*model.Application, 0, len(records))
	for _, rec := range records {
		id, doc, err := toDocument(rec)
		if err != nil {
			return nil, err
		}
		apps = append(apps, model.ApplicationFromDocument(id, doc))
	}
	return apps, nil
}

// createdID returns the id of the record produced by statement i
func createdID(results []interface{}, i int) (string, error) {
	records := database.StatementRecords(results, i)
	if len(records) == 0 {
		return "", errors.New("no record returned")
	}
	data, ok := records[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: %T", errUnexpectedRecord, records[0])
	}
	return recordID(data["id"]), nil
}
