package view

import (
	"context"
	"net/url"
	"testing"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/guard"
	"github.com/and161185/stackclone/internal/localstore"
	"github.com/and161185/stackclone/internal/mockapi"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"github.com/and161185/stackclone/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type env struct {
	api     *mockapi.TestServer
	svc     service.Services
	session *session.Controller
	notes   *Recorder
	log     *zap.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	api := mockapi.StartTest(t)
	app, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)
	creds := localstore.NewCredentials(localstore.NewMemory(), localstore.NewMemoryJar(), app)
	log := zaptest.NewLogger(t)
	c, err := apiclient.New(api.APIURL(), creds, apiclient.WithLogger(log))
	require.NoError(t, err)
	svc := service.New(c, log)
	ctrl := session.New(svc.Auth, creds, log)
	c.OnUnauthorized(ctrl.Expire)
	ctrl.Bootstrap(context.Background())
	return &env{api: api, svc: svc, session: ctrl, notes: &Recorder{}, log: log}
}

func (e *env) login(t *testing.T, who string) model.User {
	t.Helper()
	u, err := e.session.Login(context.Background(), who+"@example.com", mockapi.DemoPassword)
	require.NoError(t, err)
	return u
}

func TestMyProfilePath(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	require.Equal(t, guard.DefaultLoginPath, MyProfilePath(e.session))
	require.Equal(t, guard.DefaultLoginPath, MyProfilePath(Anonymous))

	u := e.login(t, "bob")
	require.Equal(t, "/users/"+u.ID.String(), MyProfilePath(e.session))
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	_, ok := r.Last()
	require.False(t, ok)
	r.Notify(success("a", "b"))
	r.Notify(noticeVoteAuth)
	last, ok := r.Last()
	require.True(t, ok)
	require.Equal(t, VariantDestructive, last.Variant)
	require.Len(t, r.Notices(), 2)
}
