package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	appErrors "retroboard/pkg/errors"
)

// MaxBodyBytes bounds request bodies decoded by DecodeJSON
const MaxBodyBytes = 1 << 20

// StatusResponse is the body of the health and readiness probes
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RespondJSON sends data as a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// DecodeJSON reads a JSON request body into dst. Malformed bodies become
// validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		msg := "request body must be valid JSON"
		if err == io.EOF {
			msg = "request body is required"
		}
		return appErrors.NewValidationError(msg).
			WithCode(appErrors.CodeMalformedRequest).
			WithCause(fmt.Errorf("decode body: %w", err))
	}
	return nil
}
