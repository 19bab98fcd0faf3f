package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TxBuilder builds atomic transaction queries with automatic variable namespacing.
// This prevents variable name collisions when combining queries from different sources.
//
// Example: two statements both using $id get rewritten to $v1_id and $v2_id.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter int
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add adds a statement to the transaction, namespacing its variables.
// Returns the mapping from original to namespaced variable names.
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	// Longest names first so $job_id is rewritten before $job.
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	varMapping := make(map[string]string, len(vars))
	replacements := make([]string, 0, 2*len(vars))
	for _, name := range names {
		tb.varCounter++
		newName := fmt.Sprintf("v%d_%s", tb.varCounter, name)
		replacements = append(replacements, "$"+name, "$"+newName)
		tb.vars[newName] = vars[name]
		varMapping[name] = newName
	}

	newQuery := query
	if len(replacements) > 0 {
		newQuery = strings.NewReplacer(replacements...).Replace(query)
	}

	tb.statements = append(tb.statements, newQuery)
	return varMapping
}

// AddRaw adds a raw statement without variable substitution
func (tb *TxBuilder) AddRaw(query string) {
	tb.statements = append(tb.statements, query)
}

// Len returns the number of statements added so far
func (tb *TxBuilder) Len() int {
	return len(tb.statements)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction executes a transaction built with TxBuilder. The
// returned slice holds one wrapped result per added statement.
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}

	return db.Query(ctx, query, vars)
}

// IsRetryable reports whether err is a transaction conflict. A conflicting
// transaction commits nothing and can be run again.
func IsRetryable(err error) bool {
	if err == nil || !errors.Is(err, ErrQuery) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "can be retried") || strings.Contains(msg, "transaction conflict")
}
