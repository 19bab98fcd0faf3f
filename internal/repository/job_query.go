package repository

import (
	"strings"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// jobListQuery translates a listing filter into a SurrealQL statement.
// User input is always bound as a variable.
func jobListQuery(f model.JobFilter) (string, map[string]interface{}) {
	var (
		conditions []string
		vars       = map[string]interface{}{}
	)

	if f.Email != "" {
		conditions = append(conditions, "hr_email = $email")
		vars["email"] = f.Email
	}

	if f.Search != "" {
		// Titles that are missing or not strings never match.
		conditions = append(conditions,
			"(type::is::string(title) AND string::contains(string::lowercase(title), string::lowercase($search)))")
		vars["search"] = f.Search
	}

	// Either bound alone is ignored.
	if f.Min != nil && f.Max != nil {
		conditions = append(conditions, "salaryRange.min >= $min", "salaryRange.max <= $max")
		vars["min"] = *f.Min
		vars["max"] = *f.Max
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM job")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	if f.Sort {
		sb.WriteString(" ORDER BY salaryRange.min DESC")
	}
	if f.Limit != nil {
		sb.WriteString(" LIMIT $limit")
		vars["limit"] = *f.Limit
	}
	if f.Offset != nil {
		sb.WriteString(" START $offset")
		vars["offset"] = *f.Offset
	}

	return sb.String(), vars
}
