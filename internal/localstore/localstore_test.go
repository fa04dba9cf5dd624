package localstore

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/and161185/stackclone/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func appURL(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)
	return u
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "localstorage.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	_, ok := s.Get(KeyToken)
	require.False(t, ok)

	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set("other", "x"))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	s2, err := OpenFile(path)
	require.NoError(t, err)
	v, ok := s2.Get(KeyToken)
	require.True(t, ok)
	require.Equal(t, "tok", v)

	require.NoError(t, s2.Remove(KeyToken, "missing"))
	s3, err := OpenFile(path)
	require.NoError(t, err)
	_, ok = s3.Get(KeyToken)
	require.False(t, ok)
	v, _ = s3.Get("other")
	require.Equal(t, "x", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ls.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := OpenFile(path)
	require.Error(t, err)
}

func TestJar_PersistAndDelete(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.json")
	u := appURL(t)

	j, err := OpenJar(path)
	require.NoError(t, err)
	require.NoError(t, j.Set(u, &http.Cookie{Name: "auth_token", Value: "abc", Path: "/"}))
	v, ok := j.Value(u, "auth_token")
	require.True(t, ok)
	require.Equal(t, "abc", v)

	j2, err := OpenJar(path)
	require.NoError(t, err)
	v, ok = j2.Value(u, "auth_token")
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.NoError(t, j2.Delete(u, "auth_token", "/"))
	_, ok = j2.Value(u, "auth_token")
	require.False(t, ok)

	j3, err := OpenJar(path)
	require.NoError(t, err)
	_, ok = j3.Value(u, "auth_token")
	require.False(t, ok)
}

func TestJar_ExpiredRecordsDroppedOnLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.json")
	body := `[{"url":"http://localhost:3000","name":"old","value":"1","path":"/","expires":"2001-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	j, err := OpenJar(path)
	require.NoError(t, err)
	_, ok := j.Value(appURL(t), "old")
	require.False(t, ok)
}

func TestCredentials_SaveClear(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	jar := NewMemoryJar()
	c := NewCredentials(store, jar, appURL(t))

	require.Equal(t, "", c.Token())
	require.False(t, c.HasTokenCookie())
	_, ok := c.User()
	require.False(t, ok)

	require.Error(t, c.Save("", model.User{}))

	u := model.User{ID: "7", Username: "ann", Reputation: 12}
	require.NoError(t, c.Save("tok", u))
	require.Equal(t, "tok", c.Token())
	require.True(t, c.HasTokenCookie())
	got, ok := c.User()
	require.True(t, ok)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, 12, got.Reputation)

	require.NoError(t, c.Clear())
	require.Equal(t, "", c.Token())
	require.False(t, c.HasTokenCookie())
	_, ok = c.User()
	require.False(t, ok)

	// clearing twice is harmless
	require.NoError(t, c.Clear())
}

func TestCredentials_CorruptUserIgnored(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	require.NoError(t, store.Set(KeyUser, "{broken"))
	c := NewCredentials(store, NewMemoryJar(), appURL(t))
	_, ok := c.User()
	require.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(makeJWT(t, exp))
	require.True(t, ok)
	require.True(t, got.Equal(exp))

	_, ok = TokenExpiry("opaque-drf-token")
	require.False(t, ok)
	_, ok = TokenExpiry("")
	require.False(t, ok)

	c := NewCredentials(NewMemory(), NewMemoryJar(), appURL(t))
	require.NoError(t, c.Save(makeJWT(t, exp), model.User{ID: "1"}))
	got, ok = c.TokenExpiry()
	require.True(t, ok)
	require.True(t, got.Equal(exp))
}
