package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// errBodyUnreadable marks request bodies that could not be read at all,
// as opposed to bodies that were read but are not valid JSON.
var errBodyUnreadable = errors.New("request body could not be read")

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error response using RFC 9457 Problem Details
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	err.WriteJSON(w)
}

// DecodeJSON decodes a JSON request body into v. Unknown fields are kept:
// job and application bodies are stored as sent.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, model.MaxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("malformed JSON: %w", err)
		default:
			return fmt.Errorf("%w: %w", errBodyUnreadable, err)
		}
	}
	if decoder.More() {
		return errors.New("malformed JSON: unexpected data after the top-level value")
	}
	return nil
}

// bodyProblem converts a DecodeJSON error to a problem response
func bodyProblem(err error) *model.ProblemDetails {
	if errors.Is(err, errBodyUnreadable) {
		return model.NewBadRequestError(err.Error())
	}
	return model.NewValidationError([]model.FieldError{{Field: "body", Message: err.Error()}})
}

// decodeDocument decodes a JSON object body into doc
func decodeDocument(w http.ResponseWriter, r *http.Request, doc *model.Document) *model.ProblemDetails {
	if err := DecodeJSON(w, r, doc); err != nil {
		return bodyProblem(err)
	}
	if *doc == nil {
		return model.NewValidationError([]model.FieldError{{Field: "body", Message: "must be a JSON object"}})
	}
	return nil
}
