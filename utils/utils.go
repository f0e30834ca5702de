package utils

import (
	"activos/models"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

func ParseJSONBody(r *http.Request, dst interface{}) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to serialize JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

func RespondError(w http.ResponseWriter, statusCode int, err error, message string) {
	body := map[string]interface{}{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	RespondJSON(w, statusCode, body)
}

// RespondDomainError maps the domain error taxonomy to HTTP status codes;
// anything unrecognized is treated as an infrastructure failure.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondError(w, http.StatusNotFound, err, message)
	case errors.Is(err, models.ErrForbidden):
		RespondError(w, http.StatusForbidden, err, message)
	case errors.Is(err, models.ErrInvalidAmount):
		RespondError(w, http.StatusBadRequest, err, message)
	case errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrAssetNotAvailable),
		errors.Is(err, models.ErrNoOpenAssignment),
		errors.Is(err, models.ErrAssetRetired),
		errors.Is(err, models.ErrAssetInUse),
		errors.Is(err, models.ErrNotResolved),
		errors.Is(err, models.ErrAlreadyInvoiced),
		errors.Is(err, models.ErrNoCosts),
		errors.Is(err, models.ErrCategoryInUse),
		errors.Is(err, models.ErrLocationInUse),
		errors.Is(err, models.ErrConcurrencyConflict):
		RespondError(w, http.StatusConflict, err, message)
	default:
		RespondError(w, http.StatusInternalServerError, err, message)
	}
}

func GetPageLimitAndOffset(r *http.Request) (int, int) {
	limit := 20
	offset := 0
	if val := r.URL.Query().Get("limit"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if val := r.URL.Query().Get("page"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 1 {
			offset = (parsed - 1) * limit
		}
	}
	return limit, offset
}
