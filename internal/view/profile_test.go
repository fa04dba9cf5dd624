package view

import (
	"context"
	"testing"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_Load(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	p := NewUserProfile("1", e.svc.Users, e.session, e.notes, e.log)
	require.NoError(t, p.Load(ctx))
	st := p.State()
	require.True(t, st.Loaded)
	require.Equal(t, "ann", st.User.Username)
	require.Equal(t, 1, st.Questions.Count)
	require.Equal(t, 1, st.Answers.Count)
	require.Len(t, st.Tags, 2)
	require.Equal(t, 1, st.Reputation.Count)
	require.Equal(t, 11, st.User.Reputation)

	gone := NewUserProfile("99", e.svc.Users, e.session, e.notes, e.log)
	require.ErrorIs(t, gone.Load(ctx), errs.ErrNotFound)
	require.False(t, gone.State().Loaded)
	last, ok := e.notes.Last()
	require.True(t, ok, "failed load is reported")
	require.Equal(t, "Failed to load user profile.", last.Description)
}

func TestUserProfile_SaveOnlyForOwner(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	p := NewUserProfile("2", e.svc.Users, e.session, e.notes, e.log)
	require.NoError(t, p.Load(ctx))

	before := e.api.Requests()
	_, err := p.SaveProfile(ctx, model.ProfileUpdate{DisplayName: "Bob"})
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	e.login(t, "ann")
	require.False(t, p.IsOwner())
	_, err = p.SaveProfile(ctx, model.ProfileUpdate{DisplayName: "Bob"})
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	require.Equal(t, before+1, e.api.Requests(), "only the login went out")

	e.login(t, "bob")
	require.True(t, p.IsOwner())
	u, err := p.SaveProfile(ctx, model.ProfileUpdate{DisplayName: "Bob B.", Location: "Porto"})
	require.NoError(t, err)
	require.Equal(t, "Bob B.", u.DisplayName)
	st := p.State()
	require.Equal(t, "Bob B.", st.User.DisplayName)
	require.Equal(t, "Porto", st.User.Location)
	n, _ := e.notes.Last()
	require.Equal(t, "Profile updated", n.Title)
}

func TestTagDetail(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	d := NewTagDetail("javascript", e.svc.Tags, e.notes, e.log)
	require.NoError(t, d.Load(ctx))
	tag, err := d.Tag()
	require.NoError(t, err)
	require.Equal(t, 2, tag.Count)
	require.NotEmpty(t, tag.Description)
	st := d.Questions.State()
	require.Equal(t, 2, st.Count)
	require.Equal(t, 10, st.PageSize)

	missing := NewTagDetail("fortran", e.svc.Tags, e.notes, e.log)
	require.ErrorIs(t, missing.Load(ctx), errs.ErrNotFound)
	require.Len(t, e.notes.Notices(), 1)
	last, _ := e.notes.Last()
	require.Equal(t, "Failed to load tag.", last.Description)
	d.Close()
}
