package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestUsers_UpdateProfileForm(t *testing.T) {
	t.Parallel()

	f := &fakeRequester{resp: `{"id":1,"displayName":"Ann"}`}
	s := NewUserService(f, zaptest.NewLogger(t))

	u, err := s.UpdateProfile(context.Background(), model.ProfileUpdate{DisplayName: "Ann"})
	require.NoError(t, err)
	require.Equal(t, "Ann", u.DisplayName)
	c := f.calls[0]
	require.Equal(t, http.MethodPatch, c.method)
	require.Equal(t, "/users/me/", c.path)
	require.Equal(t, []apiclient.FormField{
		{Name: "displayName", Value: "Ann"},
		{Name: "location", Value: ""},
		{Name: "about", Value: ""},
	}, c.form.Fields)
	require.Empty(t, c.form.Files)

	_, err = s.UpdateProfile(context.Background(), model.ProfileUpdate{Avatar: &model.Avatar{Filename: "a.png"}})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Len(t, f.calls, 1)
}

func TestUsers_ActivityDefaultsToFirstPage(t *testing.T) {
	t.Parallel()

	f := &fakeRequester{resp: `{"count":0,"results":[]}`}
	s := NewUserService(f, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := s.Questions(ctx, "5", 0)
	require.NoError(t, err)
	_, err = s.Answers(ctx, "5", 3)
	require.NoError(t, err)
	_, err = s.Reputation(ctx, "5", -1)
	require.NoError(t, err)

	require.Equal(t, "/users/5/questions/", f.calls[0].path)
	require.Equal(t, "page=1", f.calls[0].query.Encode())
	require.Equal(t, "/users/5/answers/", f.calls[1].path)
	require.Equal(t, "page=3", f.calls[1].query.Encode())
	require.Equal(t, "/users/5/reputation/", f.calls[2].path)
	require.Equal(t, "page=1", f.calls[2].query.Encode())
}

func TestUsers_AgainstAPI(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.svc.Users.List(ctx, model.UserFilters{SortBy: model.UsersName, PageSize: 12})
	require.NoError(t, err)
	require.Equal(t, []string{"ann", "bob", "cyd"}, []string{p.Results[0].Username, p.Results[1].Username, p.Results[2].Username})

	bob, err := h.svc.Users.Get(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, "bob", bob.Username)

	qs, err := h.svc.Users.Questions(ctx, bob.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, qs.Count)

	as, err := h.svc.Users.Answers(ctx, bob.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, as.Count)

	tags, err := h.svc.Users.Tags(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	rep, err := h.svc.Users.Reputation(ctx, bob.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 2, rep.Count)

	h.signIn(t, "bob")
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)
	u, err := h.svc.Users.UpdateProfile(ctx, model.ProfileUpdate{
		DisplayName: "Bobby",
		Location:    "Lisbon",
		About:       "Frontend dev",
		Avatar:      &model.Avatar{Filename: "bob.png", Content: strings.NewReader(png)},
	})
	require.NoError(t, err)
	require.Equal(t, "Bobby", u.DisplayName)
	require.Equal(t, "Frontend dev", u.About)
	require.NotEmpty(t, u.AvatarURL)
}
