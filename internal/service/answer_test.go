package service

import (
	"context"
	"testing"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAnswers_Validation(t *testing.T) {
	t.Parallel()

	f := &fakeRequester{}
	s := NewAnswerService(f, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := s.Create(ctx, model.AnswerCreate{QuestionID: "1", Content: "   "})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.Create(ctx, model.AnswerCreate{Content: "text"})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.Update(ctx, "1", model.AnswerUpdate{Content: model.Ptr("")})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.Accept(ctx, "")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.Vote(ctx, "1", "")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Empty(t, f.calls)
}

func TestAnswers_ListQuery(t *testing.T) {
	t.Parallel()

	f := &fakeRequester{resp: `{"count":0,"results":[]}`}
	s := NewAnswerService(f, zaptest.NewLogger(t))
	_, err := s.List(context.Background(), model.AnswerFilters{QuestionID: "7", SortBy: model.AnswersOldest})
	require.NoError(t, err)
	require.Equal(t, "question_id=7&sort_by=oldest", f.calls[0].query.Encode())
}

func TestAnswers_AcceptReconcilesSiblings(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, "ann")

	p, err := h.svc.Answers.List(ctx, model.AnswerFilters{QuestionID: "1"})
	require.NoError(t, err)
	require.Len(t, p.Results, 2)
	require.Equal(t, 1, model.AcceptedCount(p.Results))

	var other model.ID
	for _, a := range p.Results {
		if !a.IsAccepted {
			other = a.ID
		}
	}
	accepted, err := h.svc.Answers.Accept(ctx, other)
	require.NoError(t, err)
	require.True(t, accepted.IsAccepted)

	local := model.AcceptAnswer(p.Results, accepted.ID)
	require.Equal(t, 1, model.AcceptedCount(local))

	fresh, err := h.svc.Answers.List(ctx, model.AnswerFilters{QuestionID: "1"})
	require.NoError(t, err)
	for _, a := range fresh.Results {
		require.Equal(t, a.ID == other, a.IsAccepted, "server agrees with local reconciliation")
	}
}

func TestAnswers_CRUD(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, "cyd")

	a, err := h.svc.Answers.Create(ctx, model.AnswerCreate{QuestionID: "2", Content: "<p>Use Zustand.</p>"})
	require.NoError(t, err)
	require.Equal(t, model.ID("2"), a.QuestionID)
	require.Equal(t, "cyd", a.Author.Username)

	a, err = h.svc.Answers.Update(ctx, a.ID, model.AnswerUpdate{Content: model.Ptr("<p>Use Redux Toolkit.</p>")})
	require.NoError(t, err)
	require.Equal(t, "<p>Use Redux Toolkit.</p>", a.Content)

	_, err = h.svc.Answers.Accept(ctx, a.ID)
	require.ErrorIs(t, err, errs.ErrForbidden, "only the question author accepts")

	voted, err := h.svc.Answers.Vote(ctx, "3", model.Upvote)
	require.NoError(t, err)
	require.Equal(t, model.ID("3"), voted.ID)
	require.Equal(t, model.ID("2"), voted.QuestionID)
	require.Equal(t, 1, voted.VoteCount)
	require.Equal(t, "ann", voted.Author.Username)
	require.Equal(t, 21, voted.Author.Reputation)

	require.NoError(t, h.svc.Answers.Delete(ctx, a.ID))
	_, err = h.svc.Answers.Get(ctx, a.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
