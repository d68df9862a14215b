// Package response writes JSON response bodies.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// OK sends a 200 with v as the body.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Error sends {"error": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NotFound sends a 404 with message.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError sends a generic 500 that never carries error details.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}
