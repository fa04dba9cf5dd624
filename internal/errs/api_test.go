package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError_IsByStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnprocessableEntity, ErrBadRequest},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", NewAPIError("GET", "/x/", tc.status, nil))
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		require.Equal(t, tc.status, Status(err))
	}

	err := NewAPIError("GET", "/x/", http.StatusInternalServerError, nil)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "Internal Server Error")
}

func TestAPIError_MessageFromBody(t *testing.T) {
	t.Parallel()

	cases := []struct{ body, want string }{
		{body: `{"detail":"You have already voted"}`, want: "You have already voted"},
		{body: `{"error":"invalid credentials"}`, want: "invalid credentials"},
		{body: `{"non_field_errors":["Unable to log in."]}`, want: "Unable to log in."},
		{body: `{"title":["This field may not be blank."]}`, want: "title: This field may not be blank."},
		{body: `not json`, want: ""},
		{body: `{"a":["x"],"b":["y"]}`, want: ""},
		{body: ``, want: ""},
	}
	for _, tc := range cases {
		e := NewAPIError("POST", "/q/", 400, []byte(tc.body))
		require.Equal(t, tc.want, e.Message, "body %q", tc.body)
	}
	require.Equal(t, "", Message(errors.New("plain")))
	require.Equal(t, 0, Status(errors.New("plain")))
}

func TestValidationSentinels(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, ErrPasswordMismatch, ErrValidation)
	err := Invalid("too many tags (%d > %d)", 6, 5)
	require.ErrorIs(t, err, ErrValidation)
	require.EqualError(t, err, "validation: too many tags (6 > 5)")
}
