package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WriteJSON encodes data as the JSON body of a response with the given
// status. The Content-Type header must be set before the status line is
// written, so it comes first.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already gone, so an encode failure here has no
	// useful recovery.
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the envelope every failing endpoint returns: a stable
// snake_case code for machines and a message for humans.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes the error envelope with the given status, code, and
// message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   code,
		Message: message,
	})
}

// ParseJSON strictly decodes the request body into v. The Content-Type
// must be application/json, and unknown fields are rejected so a
// misspelled field fails loudly instead of silently taking a default.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("content type must be application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("request body is not valid json: %v", err)
	}

	return nil
}
