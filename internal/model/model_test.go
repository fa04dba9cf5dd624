package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberStringNull(t *testing.T) {
	t.Parallel()

	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"abc","c":null}`), &got))
	require.Equal(t, ID("42"), got.A)
	require.Equal(t, ID("abc"), got.B)
	require.Equal(t, ID(""), got.C)

	var bad ID
	require.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}

func TestQuestionFilters_OmitUnset(t *testing.T) {
	t.Parallel()

	require.Empty(t, QuestionFilters{}.Values())

	v := QuestionFilters{
		Page:     2,
		PageSize: 10,
		Search:   "  redux ",
		Tags:     []string{"go", " ", "http"},
		SortBy:   QuestionsVotes,
	}.Values()
	require.Equal(t, "2", v.Get("page"))
	require.Equal(t, "10", v.Get("page_size"))
	require.Equal(t, "redux", v.Get("search"))
	require.Equal(t, []string{"go", "http"}, v[TagsParam])
	require.Equal(t, "votes", v.Get("sort_by"))
	_, hasAuthor := v["author"]
	require.False(t, hasAuthor, "unset author must not be sent")
}

func TestOtherFilters_OmitUnset(t *testing.T) {
	t.Parallel()

	require.Empty(t, AnswerFilters{}.Values())
	require.Empty(t, TagFilters{}.Values())
	require.Empty(t, UserFilters{}.Values())

	av := AnswerFilters{QuestionID: "7", SortBy: AnswersOldest}.Values()
	require.Equal(t, "7", av.Get("question_id"))
	require.Equal(t, "oldest", av.Get("sort_by"))
	require.Len(t, av, 2)

	tv := TagFilters{Search: "go", SortBy: TagsName}.Values()
	require.Len(t, tv, 2)

	uv := UserFilters{Page: 3}.Values()
	require.Equal(t, "3", uv.Get("page"))
	require.Len(t, uv, 1)
}

func TestAcceptAnswer_ClearsSiblings(t *testing.T) {
	t.Parallel()

	in := []Answer{
		{ID: "1", IsAccepted: true},
		{ID: "2"},
		{ID: "3"},
	}
	out := AcceptAnswer(in, "2")
	require.Equal(t, 1, AcceptedCount(out))
	require.True(t, out[1].IsAccepted)
	require.False(t, out[0].IsAccepted)
	require.False(t, out[2].IsAccepted)
	// input untouched
	require.True(t, in[0].IsAccepted)
	require.False(t, in[1].IsAccepted)
}

func TestReplaceAndRemoveAnswer(t *testing.T) {
	t.Parallel()

	in := []Answer{{ID: "1", VoteCount: 0}, {ID: "2", VoteCount: 0}}
	out := ReplaceAnswer(in, Answer{ID: "2", VoteCount: 5})
	require.Equal(t, 5, out[1].VoteCount)
	require.Equal(t, 0, in[1].VoteCount)

	out = RemoveAnswer(out, "1")
	require.Len(t, out, 1)
	require.Equal(t, ID("2"), out[0].ID)
}

func TestTotalPagesAndVoteType(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
	require.Equal(t, 0, TotalPages(11, 0))

	next := "http://x/?page=2"
	p := Page[Tag]{Count: 25, Next: &next}
	require.Equal(t, 3, p.TotalPages(10))
	require.True(t, p.HasNext())

	require.True(t, Upvote.Valid())
	require.True(t, Downvote.Valid())
	require.False(t, VoteType("sideways").Valid())
}

func TestUser_SummaryAndName(t *testing.T) {
	t.Parallel()

	u := User{ID: "1", Username: "ann", Reputation: 10, GoldBadges: 1, BronzeBadges: 3}
	s := u.Summary()
	require.Equal(t, "ann", s.Name())
	require.Equal(t, 10, s.Reputation)
	require.Equal(t, Badges{Gold: 1, Bronze: 3}, u.Badges())

	s.DisplayName = "Ann"
	require.Equal(t, "Ann", s.Name())
}
