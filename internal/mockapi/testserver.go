package mockapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/and161185/stackclone/internal/crypto"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestServer is a seeded development API on an httptest server. It counts the
// API requests it receives so callers can assert that nothing was sent.
type TestServer struct {
	*httptest.Server
	Store *Store

	count atomic.Int64
	mu    sync.Mutex
	log   []string
}

// StartTest starts a seeded server that is closed with tb's cleanup.
func StartTest(tb testing.TB, opts ...Option) *TestServer {
	tb.Helper()
	st := NewStore()
	if err := Seed(st, crypto.LightParams); err != nil {
		tb.Fatalf("seed: %v", err)
	}
	base := []Option{WithHashParams(crypto.LightParams), WithLogger(zaptest.NewLogger(tb, zaptest.Level(zap.WarnLevel)))}
	srv, err := New(st, []byte("test-signing-key"), append(base, opts...)...)
	if err != nil {
		tb.Fatalf("mockapi.New: %v", err)
	}
	ts := &TestServer{Store: st}
	h := srv.Handler()
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			ts.count.Add(1)
			ts.mu.Lock()
			ts.log = append(ts.log, r.Method+" "+r.URL.RequestURI())
			ts.mu.Unlock()
		}
		h.ServeHTTP(w, r)
	}))
	tb.Cleanup(ts.Close)
	return ts
}

// APIURL is the base URL clients should be configured with.
func (ts *TestServer) APIURL() string { return ts.URL + "/api" }

// Requests returns the number of API requests received so far.
func (ts *TestServer) Requests() int { return int(ts.count.Load()) }

// RequestLog returns "METHOD /path?query" for every API request so far.
func (ts *TestServer) RequestLog() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.log...)
}
