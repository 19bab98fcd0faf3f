package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Table names
const (
	TableJob         = "job"
	TableApplication = "application"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// Document is a schemaless JSON object as sent by a client or stored in a
// table. Fields the API does not know about are carried through unchanged.
type Document map[string]any

// recordKeyPattern matches the key part of a record id. The store generates
// 20 character alphanumeric keys; fixtures may use readable ones.
var recordKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ParseRecordID accepts "table:key" or a bare "key" and returns the full
// "table:key" form. Anything else, including an id for another table, is
// rejected.
func ParseRecordID(table, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	key := raw
	if prefix, rest, found := strings.Cut(raw, ":"); found {
		if prefix != table {
			return "", fmt.Errorf("must be a %s id", table)
		}
		key = rest
	}
	if !recordKeyPattern.MatchString(key) {
		return "", fmt.Errorf("must be a valid %s id", table)
	}
	return table + ":" + key, nil
}

// clone returns a shallow copy of d without the given keys.
func (d Document) clone(drop ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

// StorageContent returns d ready to be written to a table: client supplied
// identifiers are dropped, since the store assigns its own, and integral
// JSON numbers become integers.
func (d Document) StorageContent() map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		if k == "_id" || k == "id" {
			continue
		}
		out[k] = normalizeNumber(v)
	}
	return out
}

// normalizeNumber turns whole float64 values (how encoding/json decodes every
// number) into int64 so the store keeps them as integers.
func normalizeNumber(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t >= math.MinInt64 && t < math.MaxInt64 {
			return int64(t)
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = normalizeNumber(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = normalizeNumber(inner)
		}
		return out
	default:
		return v
	}
}

// takeString removes key from d and returns it when it holds a non-empty
// string. Other values stay in d so they are returned as stored.
func (d Document) takeString(key string) string {
	if s, ok := d[key].(string); ok && s != "" {
		delete(d, key)
		return s
	}
	return ""
}

// toFloat converts the numeric types produced by JSON and CBOR decoding.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}
