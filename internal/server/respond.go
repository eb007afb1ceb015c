package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"insurance-claims/backend/internal/apperr"
)

// envelope is the uniform response body: {success, data, error, count}.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondList includes the element count alongside the data array.
func respondList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func respondMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"message": message}})
}

// respondError maps the error kind to an HTTP status and surfaces the
// message verbatim. Unclassified errors become an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindStateTransition, apperr.KindInvariant:
		status = http.StatusBadRequest
		message = err.Error()
	case apperr.KindAuthorization:
		status = http.StatusForbidden
		message = err.Error()
	case apperr.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	default:
		log.Error().Err(err).Msg("unhandled error")
	}
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func respondErrorStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}
