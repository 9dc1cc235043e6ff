package handlers

import (
	"encoding/json"
	"net/http"

	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Error:   ierr.DisplayMessage(err),
		Details: ierr.ReportableDetails(err),
	}
	if len(resp.Details) == 0 {
		resp.Details = nil
	}
	writeJSON(w, ierr.HTTPStatusFromErr(err), resp)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid request body").
			Mark(ierr.ErrValidation)
	}
	return nil
}
