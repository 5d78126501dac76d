package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hanwool/handoff-api/internal/auth"
)

// MsgInternal is the generic 500 message. Internal details go to the server
// log only, never into a response body.
const MsgInternal = "internal server error"

// JSONError sends the standard error body {"message": "..."} with the given
// status.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// authErrorStatus maps the auth error taxonomy to its fixed status code.
// Login maps ErrInvalidCredentials to 409 separately; everything protected
// by a bearer token goes through here.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
