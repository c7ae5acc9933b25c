package api

import (
	"encoding/json"
	"net/http"
)

// failResponse is the error envelope used by every endpoint except the
// auth gate: {"success": false, "message": "..."}.
type failResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// unauthorizedResponse is the fixed envelope the auth gate sends for
// missing or invalid bearer tokens.
type unauthorizedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeFail writes a {success:false, message} error response with the
// given status code.
func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failResponse{Success: false, Message: message})
}

// writeUnauthorized writes the auth gate's fixed 401 response.
func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, unauthorizedResponse{
		Status:  "fail",
		Message: "Unauthorized!",
	})
}
