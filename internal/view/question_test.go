package view

import (
	"context"
	"testing"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
)

func TestQuestionDetail_Load(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	d := NewQuestionDetail("1", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)

	require.NoError(t, d.Load(ctx))
	st := d.State()
	require.True(t, st.Loaded)
	require.Equal(t, model.AnswersVotes, st.Sort)
	require.Equal(t, "ann", st.Question.Author.Username)
	require.Len(t, st.Answers, 2)
	require.True(t, st.Answers[0].IsAccepted, "accepted answer first")

	require.NoError(t, d.SetSort(ctx, model.AnswersNewest))
	st = d.State()
	require.Equal(t, model.ID("2"), st.Answers[0].ID)

	before := e.api.Requests()
	require.NoError(t, d.SetSort(ctx, model.AnswersNewest))
	require.Equal(t, before, e.api.Requests())

	missing := NewQuestionDetail("404", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)
	require.ErrorIs(t, missing.Load(ctx), errs.ErrNotFound)
	require.False(t, missing.State().Loaded)
	last, ok := e.notes.Last()
	require.True(t, ok, "failed load is reported")
	require.Equal(t, "Failed to load question.", last.Description)
	require.Equal(t, VariantDestructive, last.Variant)
}

func TestQuestionDetail_AnonymousVoteSendsNothing(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	d := NewQuestionDetail("1", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)
	require.NoError(t, d.Load(ctx))
	before := e.api.Requests()

	require.ErrorIs(t, d.VoteQuestion(ctx, model.Upvote), errs.ErrAuthRequired)
	require.ErrorIs(t, d.VoteAnswer(ctx, "1", model.Downvote), errs.ErrAuthRequired)
	require.Equal(t, before, e.api.Requests())

	notes := e.notes.Notices()
	require.Len(t, notes, 2)
	for _, n := range notes {
		require.Equal(t, "Authentication required", n.Title)
		require.Equal(t, "You need to be logged in to vote", n.Description)
	}
	require.Equal(t, 1, d.State().Question.VoteCount)
}

func TestQuestionDetail_Votes(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	e.login(t, "cyd")
	d := NewQuestionDetail("1", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)
	require.NoError(t, d.Load(ctx))

	require.NoError(t, d.VoteQuestion(ctx, model.Upvote))
	require.Equal(t, 2, d.State().Question.VoteCount)
	require.Equal(t, 21, d.State().Question.Author.Reputation, "voted question replaces the stored one")
	n, _ := e.notes.Last()
	require.Equal(t, "Your upvote has been recorded", n.Description)

	require.Error(t, d.VoteQuestion(ctx, model.Upvote))
	n, _ = e.notes.Last()
	require.Equal(t, "Vote failed", n.Title)
	require.Equal(t, 2, d.State().Question.VoteCount)

	require.NoError(t, d.VoteAnswer(ctx, "1", model.Downvote))
	st := d.State()
	require.Len(t, st.Answers, 2)
	for _, a := range st.Answers {
		if a.ID == "1" {
			require.Equal(t, 0, a.VoteCount)
			require.Equal(t, 26-2, a.Author.Reputation)
			require.True(t, a.IsAccepted)
		}
	}

	require.Error(t, d.VoteAnswer(ctx, "2", model.Upvote), "own answer")
}

func TestQuestionDetail_Accept(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	e.login(t, "bob")
	d := NewQuestionDetail("1", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)
	require.NoError(t, d.Load(ctx))
	before := e.api.Requests()
	require.ErrorIs(t, d.Accept(ctx, "2"), errs.ErrPermissionDenied)
	require.Equal(t, before, e.api.Requests())
	n, _ := e.notes.Last()
	require.Equal(t, "Only the question author can accept answers", n.Description)

	e.login(t, "ann")
	require.NoError(t, d.Accept(ctx, "2"))
	st := d.State()
	require.Equal(t, 1, model.AcceptedCount(st.Answers))
	for _, a := range st.Answers {
		require.Equal(t, a.ID == "2", a.IsAccepted)
	}
}

func TestQuestionDetail_AnswerLifecycle(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	d := NewQuestionDetail("3", e.svc.Questions, e.svc.Answers, e.session, e.notes, e.log)
	require.NoError(t, d.Load(ctx))

	_, err := d.PostAnswer(ctx, "hi")
	require.ErrorIs(t, err, errs.ErrAuthRequired)

	e.login(t, "bob")
	_, err = d.PostAnswer(ctx, "   ")
	require.ErrorIs(t, err, errs.ErrValidation)
	n, _ := e.notes.Last()
	require.Equal(t, "Empty answer", n.Title)

	a, err := d.PostAnswer(ctx, "<p>StrictMode mounts twice in development.</p>")
	require.NoError(t, err)
	st := d.State()
	require.Len(t, st.Answers, 1)
	require.Equal(t, 1, st.Question.AnswerCount)

	require.NoError(t, d.EditAnswer(ctx, a.ID, "<p>React StrictMode double-invokes effects.</p>"))
	require.Equal(t, "<p>React StrictMode double-invokes effects.</p>", d.State().Answers[0].Content)

	require.ErrorIs(t, d.EditQuestion(ctx, model.QuestionUpdate{Title: model.Ptr("x")}), errs.ErrPermissionDenied)
	require.ErrorIs(t, d.DeleteQuestion(ctx), errs.ErrPermissionDenied)

	require.NoError(t, d.DeleteAnswer(ctx, a.ID))
	st = d.State()
	require.Empty(t, st.Answers)
	require.Equal(t, 0, st.Question.AnswerCount)

	e.login(t, "cyd")
	require.ErrorIs(t, d.DeleteAnswer(ctx, "1"), errs.ErrPermissionDenied, "not on this page")
	require.NoError(t, d.EditQuestion(ctx, model.QuestionUpdate{Title: model.Ptr("Why does useEffect fire twice?")}))
	require.Equal(t, "Why does useEffect fire twice?", d.State().Question.Title)
	require.NoError(t, d.DeleteQuestion(ctx))
	require.True(t, d.State().Deleted)
	require.ErrorIs(t, d.Load(ctx), errs.ErrNotFound)
}
