package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

type cookieRecord struct {
	URL     string    `json:"url"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func (r cookieRecord) key() string { return r.URL + "|" + r.Name + "|" + r.Path }

// Jar is an http.CookieJar that survives restarts by mirroring every stored
// cookie into a JSON file. An empty path keeps it in memory only.
type Jar struct {
	path string

	mu      sync.Mutex
	inner   *cookiejar.Jar
	records map[string]cookieRecord
	lastErr error
}

var _ http.CookieJar = (*Jar)(nil)

// OpenJar loads the jar persisted at path; a missing file yields an empty jar.
func OpenJar(path string) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	j := &Jar{path: path, inner: inner, records: map[string]cookieRecord{}}
	if path == "" {
		return j, nil
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return j, nil
	case err != nil:
		return nil, err
	}
	var recs []cookieRecord
	if len(b) > 0 {
		if err := json.Unmarshal(b, &recs); err != nil {
			return nil, fmt.Errorf("localstore: parse %s: %w", path, err)
		}
	}
	now := time.Now()
	for _, r := range recs {
		if !r.Expires.IsZero() && r.Expires.Before(now) {
			continue
		}
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		j.records[r.key()] = r
		j.inner.SetCookies(u, []*http.Cookie{r.cookie()})
	}
	return j, nil
}

// NewMemoryJar returns a jar that is never written to disk.
func NewMemoryJar() *Jar {
	j, _ := OpenJar("")
	return j
}

// SetCookies implements http.CookieJar. Persistence failures are kept for Err.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastErr = j.set(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Set stores a single cookie for u and reports persistence errors.
func (j *Jar) Set(u *url.URL, c *http.Cookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.set(u, []*http.Cookie{c})
}

// Delete expires the named cookie for u.
func (j *Jar) Delete(u *url.URL, name, path string) error {
	return j.Set(u, &http.Cookie{Name: name, Path: path, MaxAge: -1})
}

// Value returns the value of the named cookie visible at u.
func (j *Jar) Value(u *url.URL, name string) (string, bool) {
	for _, c := range j.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Err returns the last persistence error raised by SetCookies.
func (j *Jar) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}

func (j *Jar) set(u *url.URL, cookies []*http.Cookie) error {
	j.inner.SetCookies(u, cookies)

	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	now := time.Now()
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		rec := cookieRecord{URL: origin, Name: c.Name, Value: c.Value, Path: path}
		switch {
		case c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)):
			delete(j.records, rec.key())
			continue
		case c.MaxAge > 0:
			rec.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			rec.Expires = c.Expires
		}
		j.records[rec.key()] = rec
	}
	return j.flush()
}

func (j *Jar) flush() error {
	if j.path == "" {
		return nil
	}
	recs := make([]cookieRecord, 0, len(j.records))
	for _, r := range j.records {
		recs = append(recs, r)
	}
	return writeJSON(j.path, recs)
}

func (r cookieRecord) cookie() *http.Cookie {
	return &http.Cookie{Name: r.Name, Value: r.Value, Path: r.Path, Expires: r.Expires}
}
