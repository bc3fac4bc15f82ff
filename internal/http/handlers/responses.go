package handlers

import (
	"encoding/json"
	"net/http"
)

// Error tags reported to callers. All are terminal for the current request;
// nothing is retried server-side.
const (
	tagInvalidInput       = "invalid_input"
	tagDuplicateEmail     = "duplicate_email"
	tagInvalidCredentials = "invalid_credentials"
	tagNotConfigured      = "not_configured"
	tagNoFile             = "no_file"
	tagNotFound           = "not_found"
	tagUnauthorized       = "unauthorized"
	tagPersistence        = "persistence_failure"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, tag string) {
	respondJSON(w, status, map[string]string{"error": tag})
}
