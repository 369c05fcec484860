package httputil

import (
	"context"
	"encoding/json"
	"net/http"
)

// ErrorResp is the body of every error response.
type ErrorResp struct {
	Message string `json:"message"`
	// Errors lists per-field failures of a schema violation.
	Errors any `json:"errors,omitempty"`
}

// WriteRawJSON writes the value v to the http response stream as json with standard json encoding.
func WriteRawJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// VersionFromContext returns an API version from the context using APIVersionKey.
func VersionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if val, ok := ctx.Value(APIVersionKey{}).(string); ok {
		return val
	}

	return ""
}
