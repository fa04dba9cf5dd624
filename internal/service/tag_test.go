package service

import (
	"context"
	"testing"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTags_QuestionsDefaultsAndEscaping(t *testing.T) {
	t.Parallel()

	f := &fakeRequester{resp: pageOf(12)}
	s := NewTagService(f, zaptest.NewLogger(t))
	p, err := s.Questions(context.Background(), "c#", 0, 0)
	require.NoError(t, err)
	require.Len(t, p.Results, DefaultTagQuestionsPageSize)
	require.Equal(t, "/tags/name/c%23/questions/", f.calls[0].path)
	require.Equal(t, "page=1&page_size=10", f.calls[0].query.Encode())

	_, err = s.Search(context.Background(), "  ")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.GetByName(context.Background(), "")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Len(t, f.calls, 1)
}

func TestTags_AgainstAPI(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.svc.Tags.List(ctx, model.TagFilters{PageSize: 2, SortBy: model.TagsName})
	require.NoError(t, err)
	require.Equal(t, 5, p.Count)
	require.Len(t, p.Results, 2)
	require.Equal(t, "concurrency", p.Results[0].Name)

	tag, err := h.svc.Tags.GetByName(ctx, "react")
	require.NoError(t, err)
	require.Equal(t, 2, tag.Count)

	byID, err := h.svc.Tags.Get(ctx, tag.ID)
	require.NoError(t, err)
	require.Equal(t, tag.Name, byID.Name)

	found, err := h.svc.Tags.Search(ctx, "red")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "redux", found[0].Name)

	qs, err := h.svc.Tags.Questions(ctx, "react", 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, qs.Count)
	require.Len(t, qs.Results, 1)
	require.Equal(t, 2, qs.TotalPages(1))

	_, err = h.svc.Tags.GetByName(ctx, "cobol")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
