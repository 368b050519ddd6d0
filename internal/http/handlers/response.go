package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"venuecatalog/backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds JSON request bodies. Bulk input is the largest legitimate payload.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders {"detail": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// storeStatus maps repository errors to a status and detail. ok is false for errors
// that should surface as 500.
func storeStatus(err error, notFound string) (int, string, bool) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, notFound, true
	case errors.Is(err, repository.ErrConflict):
		switch repository.Constraint(err) {
		case repository.ConstraintVenueName:
			return http.StatusBadRequest, "Venue with this name already exists", true
		case repository.ConstraintEventURL:
			return http.StatusBadRequest, "Event with this URL already exists", true
		}
		return http.StatusBadRequest, "Duplicate record", true
	case errors.Is(err, repository.ErrForeignKey):
		return http.StatusNotFound, "Venue not found", true
	}
	return 0, "", false
}

// optional maps blank strings to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
