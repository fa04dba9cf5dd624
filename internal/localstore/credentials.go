package localstore

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/and161185/stackclone/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie that mirrors the session token for route gating.
const TokenCookie = "auth_token"

// Credentials ties the persisted token, the cached user and the token cookie together.
// Writes always touch all three so they never disagree for long.
type Credentials struct {
	store  Store
	jar    *Jar
	appURL *url.URL
}

// NewCredentials binds a store and a jar; the cookie is scoped to appURL, path "/".
func NewCredentials(store Store, jar *Jar, appURL *url.URL) *Credentials {
	return &Credentials{store: store, jar: jar, appURL: appURL}
}

// Token returns the stored session token or "".
func (c *Credentials) Token() string {
	tok, _ := c.store.Get(KeyToken)
	return tok
}

// User returns the cached user profile, if any.
func (c *Credentials) User() (model.User, bool) {
	raw, ok := c.store.Get(KeyUser)
	if !ok || raw == "" {
		return model.User{}, false
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return model.User{}, false
	}
	return u, true
}

// Save persists token and user in local storage and mirrors the token into the cookie.
func (c *Credentials) Save(token string, u model.User) error {
	if token == "" {
		return errors.New("localstore: empty token")
	}
	if err := c.store.Set(KeyToken, token); err != nil {
		return err
	}
	if err := c.SaveUser(u); err != nil {
		return err
	}
	return c.jar.Set(c.appURL, &http.Cookie{Name: TokenCookie, Value: token, Path: "/"})
}

// SaveUser refreshes the cached user without touching the token.
func (c *Credentials) SaveUser(u model.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.store.Set(KeyUser, string(b))
}

// Clear removes token, cached user and token cookie. All three are attempted.
func (c *Credentials) Clear() error {
	return errors.Join(
		c.store.Remove(KeyToken, KeyUser),
		c.jar.Delete(c.appURL, TokenCookie, "/"),
	)
}

// HasTokenCookie reports whether the token cookie is present for the app origin.
func (c *Credentials) HasTokenCookie() bool {
	v, ok := c.jar.Value(c.appURL, TokenCookie)
	return ok && v != ""
}

// TokenExpiry returns the exp claim when the token is a JWT. Opaque tokens report false.
// The signature is not verified; the server remains the authority on validity.
func (c *Credentials) TokenExpiry() (time.Time, bool) {
	return TokenExpiry(c.Token())
}

// TokenExpiry parses the exp claim of a JWT without validating it.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
