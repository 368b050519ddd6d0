package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"venuecatalog/backend/internal/catalog"

	"github.com/go-playground/validator/v10"
)

// jsonFieldName makes validator report fields by their json names.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s is too long", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// normalizer is implemented by requests that clean up optional fields before validation.
type normalizer interface {
	normalize()
}

// decodeAndValidate writes a 400 and returns false when the body is not valid JSON for
// dst or fails validation.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, action string, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		logger.Warn("action", "action", action, "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := h.validator.Struct(dst); err != nil {
		logger.Warn("action", "action", action, "status", "invalid_request", "error", err)
		writeError(w, http.StatusBadRequest, validationDetail(err))
		return false
	}
	return true
}

func (h *Handler) storeError(w http.ResponseWriter, logger *slog.Logger, action string, err error, notFound string) {
	if status, detail, ok := storeStatus(err, notFound); ok {
		logger.Warn("action", "action", action, "status", "rejected", "http_status", status, "detail", detail)
		writeError(w, status, detail)
		return
	}
	logger.Error("action", "action", action, "status", "db_error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) bulkError(w http.ResponseWriter, logger *slog.Logger, action string, err error, notFound string) {
	if errors.Is(err, catalog.ErrTooManyLines) {
		logger.Warn("action", "action", action, "status", "too_many_lines")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.storeError(w, logger, action, err, notFound)
}
