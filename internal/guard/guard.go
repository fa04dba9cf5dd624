// Package guard gates protected routes on the presence of the token cookie.
// It never validates the token; the API does that on the first call.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/and161185/stackclone/internal/localstore"
)

// DefaultLoginPath is where unauthenticated requests are sent.
const DefaultLoginPath = "/?login=true"

// DefaultProtected lists the routes that need a session.
var DefaultProtected = []string{"/questions/ask", "/users/me"}

// Decision is the result of a route check.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard holds the protected path set.
type Guard struct {
	Protected []string
	LoginPath string
}

// Default returns a Guard with the default routes and login path.
func Default() Guard {
	return Guard{Protected: append([]string(nil), DefaultProtected...), LoginPath: DefaultLoginPath}
}

// Protects reports whether path falls under a protected route. A route
// matches itself and anything below it.
func (g Guard) Protects(path string) bool {
	if path == "" {
		path = "/"
	}
	for _, p := range g.Protected {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Check decides whether path may be visited given token presence.
func (g Guard) Check(path string, hasToken bool) Decision {
	if hasToken || !g.Protects(path) {
		return Decision{Allowed: true}
	}
	login := g.LoginPath
	if login == "" {
		login = DefaultLoginPath
	}
	return Decision{Redirect: login}
}

// Middleware redirects requests for protected routes that carry no token cookie.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(localstore.TokenCookie)
		has := err == nil && c.Value != ""
		if d := g.Check(r.URL.Path, has); !d.Allowed {
			http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromJar reports whether jar holds a non-empty token cookie for origin.
func FromJar(jar http.CookieJar, origin *url.URL) bool {
	if jar == nil || origin == nil {
		return false
	}
	for _, c := range jar.Cookies(origin) {
		if c.Name == localstore.TokenCookie && c.Value != "" {
			return true
		}
	}
	return false
}
