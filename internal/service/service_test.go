package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"testing"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/localstore"
	"github.com/and161185/stackclone/internal/mockapi"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type call struct {
	method, path string
	query        url.Values
	body         any
	form         *apiclient.Form
}

// fakeRequester records calls and answers with a canned JSON body.
type fakeRequester struct {
	calls []call
	resp  string
	err   error
}

var _ Requester = (*fakeRequester)(nil)

func (f *fakeRequester) Do(_ context.Context, method, path string, query url.Values, body, out any) error {
	f.calls = append(f.calls, call{method: method, path: path, query: query, body: body})
	if f.err != nil {
		return f.err
	}
	if out != nil && f.resp != "" {
		return json.Unmarshal([]byte(f.resp), out)
	}
	return nil
}

func (f *fakeRequester) SendForm(_ context.Context, method, path string, form apiclient.Form, out any) error {
	f.calls = append(f.calls, call{method: method, path: path, form: &form})
	if f.err != nil {
		return f.err
	}
	if out != nil && f.resp != "" {
		return json.Unmarshal([]byte(f.resp), out)
	}
	return nil
}

type harness struct {
	api   *mockapi.TestServer
	creds *localstore.Credentials
	svc   Services
}

// newHarness wires real services over apiclient against a seeded mock API.
func newHarness(t *testing.T) *harness {
	t.Helper()
	api := mockapi.StartTest(t)
	app, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)
	creds := localstore.NewCredentials(localstore.NewMemory(), localstore.NewMemoryJar(), app)
	log := zaptest.NewLogger(t)
	c, err := apiclient.New(api.APIURL(), creds, apiclient.WithLogger(log))
	require.NoError(t, err)
	return &harness{api: api, creds: creds, svc: New(c, log)}
}

func (h *harness) signIn(t *testing.T, who string) model.User {
	t.Helper()
	res, err := h.svc.Auth.Login(context.Background(), who+"@example.com", mockapi.DemoPassword)
	require.NoError(t, err)
	require.NoError(t, h.creds.Save(res.Token, res.User))
	return res.User
}

func pageOf(n int) string {
	p := model.Page[model.Question]{Count: n}
	for i := 0; i < n; i++ {
		p.Results = append(p.Results, model.Question{ID: model.ID(strconv.Itoa(i + 1))})
	}
	b, _ := json.Marshal(p)
	return string(b)
}
