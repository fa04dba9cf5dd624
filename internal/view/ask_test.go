package view

import (
	"context"
	"testing"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
)

func TestAskQuestion_Tags(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	a := NewAskQuestion(e.svc.Questions, e.svc.Tags, e.session, e.notes, e.log)
	before := e.api.Requests()

	got, err := a.SuggestTags(ctx, "r")
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, before, e.api.Requests(), "one character does not search")

	got, err = a.SuggestTags(ctx, "re")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, "react", got[0].Name, "prefix matches first, most used first")
	require.Len(t, a.Suggestions(), len(got))

	require.True(t, a.AddTag("react"))
	require.Empty(t, a.Suggestions())
	require.False(t, a.AddTag("React"))
	require.False(t, a.AddTag("  "))
	for _, tg := range []string{"redux", "hooks", "nextjs", "typescript"} {
		require.True(t, a.AddTag(tg))
	}
	require.False(t, a.AddTag("css"), "at most five")
	require.Len(t, a.Tags(), model.MaxQuestionTags)

	a.RemoveTag("hooks")
	require.Equal(t, []string{"react", "redux", "nextjs", "typescript"}, a.Tags())
}

func TestAskQuestion_Submit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	a := NewAskQuestion(e.svc.Questions, e.svc.Tags, e.session, e.notes, e.log)
	before := e.api.Requests()

	_, err := a.Submit(ctx, "T", "C")
	require.ErrorIs(t, err, errs.ErrAuthRequired)
	n, _ := e.notes.Last()
	require.Equal(t, "You need to be logged in to ask a question", n.Description)
	require.Equal(t, before, e.api.Requests())

	e.login(t, "bob")
	_, err = a.Submit(ctx, "T", " ")
	require.ErrorIs(t, err, errs.ErrValidation)
	n, _ = e.notes.Last()
	require.Equal(t, "Incomplete question", n.Title)

	require.True(t, a.AddTag("x"))
	id, err := a.Submit(ctx, "T", "C")
	require.NoError(t, err)
	require.Empty(t, a.Tags(), "form resets after posting")

	q, err := e.svc.Questions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "T", q.Title)
	require.Equal(t, "C", q.Content)
	require.Equal(t, []string{"x"}, q.TagNames())
}
