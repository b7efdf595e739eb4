package shared

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

// APIError is the uniform error envelope returned by every JSON endpoint.
type APIError struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Fields  serrors.ValidationErrors `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteAPIError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, APIError{Code: code, Message: message})
}

func WriteValidationErrors(w http.ResponseWriter, errs serrors.ValidationErrors) {
	WriteJSON(w, http.StatusUnprocessableEntity, APIError{
		Code:    "VALIDATION_FAILED",
		Message: "one or more fields are invalid",
		Fields:  errs,
	})
}

// UUIDParam parses a uuid route variable; the route pattern guarantees
// presence, this guards format only.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

func DecodeBody(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}

// Paginate reads limit/offset query parameters clamped to the configured
// page sizes.
func Paginate(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
