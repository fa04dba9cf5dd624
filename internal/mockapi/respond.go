package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/and161185/stackclone/internal/errs"
)

// httpError is an error with a ready-made response body.
type httpError struct {
	status int
	body   map[string]any
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func detailError(status int, msg string) error {
	return &httpError{status: status, body: map[string]any{"detail": msg}, msg: msg}
}

func fieldError(field, msg string) error {
	return &httpError{
		status: http.StatusBadRequest,
		body:   map[string]any{field: []string{msg}},
		msg:    field + ": " + msg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeErr maps store errors onto DRF-style responses.
func writeErr(w http.ResponseWriter, err error) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		writeJSON(w, he.status, he.body)
	case errors.Is(err, errs.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, errs.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return detailError(http.StatusBadRequest, "JSON parse error.")
	}
	return nil
}
