package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/and161185/stackclone/internal/localstore"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	g := Default()
	tests := []struct {
		path     string
		hasToken bool
		allowed  bool
	}{
		{"/", false, true},
		{"/questions", false, true},
		{"/questions/12", false, true},
		{"/questions/ask", false, false},
		{"/questions/ask/", false, false},
		{"/questions/asked", false, true},
		{"/users/me", false, false},
		{"/users/me/edit", false, false},
		{"/users/mei", false, true},
		{"/users/7", false, true},
		{"/questions/ask", true, true},
		{"/users/me", true, true},
	}
	for _, tc := range tests {
		d := g.Check(tc.path, tc.hasToken)
		require.Equal(t, tc.allowed, d.Allowed, tc.path)
		if tc.allowed {
			require.Empty(t, d.Redirect, tc.path)
		} else {
			require.Equal(t, DefaultLoginPath, d.Redirect, tc.path)
		}
	}

	custom := Guard{Protected: []string{"/admin/"}}
	require.Equal(t, Decision{Redirect: DefaultLoginPath}, custom.Check("/admin", false))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	h := Default().Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/ask", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, DefaultLoginPath, rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/questions/ask", nil)
	req.AddCookie(&http.Cookie{Name: localstore.TokenCookie, Value: "anything"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, "presence is enough, no validation")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFromJar(t *testing.T) {
	t.Parallel()

	app, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)
	jar := localstore.NewMemoryJar()
	require.False(t, FromJar(jar, app))
	require.False(t, FromJar(nil, app))

	creds := localstore.NewCredentials(localstore.NewMemory(), jar, app)
	require.NoError(t, creds.Save("tok", model.User{ID: "1"}))
	require.True(t, FromJar(jar, app))

	require.NoError(t, creds.Clear())
	require.False(t, FromJar(jar, app))
}
