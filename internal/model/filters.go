package model

import (
	"net/url"
	"strconv"
	"strings"
)

// VoteType is the direction of a vote.
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Valid reports whether v is a known vote direction.
func (v VoteType) Valid() bool { return v == Upvote || v == Downvote }

// QuestionSort orders question lists.
type QuestionSort string

const (
	QuestionsNewest     QuestionSort = "newest"
	QuestionsActive     QuestionSort = "active"
	QuestionsVotes      QuestionSort = "votes"
	QuestionsUnanswered QuestionSort = "unanswered"
)

// AnswerSort orders answers under a question.
type AnswerSort string

const (
	AnswersVotes  AnswerSort = "votes"
	AnswersNewest AnswerSort = "newest"
	AnswersOldest AnswerSort = "oldest"
)

// TagSort orders tag lists.
type TagSort string

const (
	TagsPopular TagSort = "popular"
	TagsName    TagSort = "name"
	TagsNewest  TagSort = "newest"
)

// UserSort orders user lists.
type UserSort string

const (
	UsersReputation UserSort = "reputation"
	UsersNewest     UserSort = "newest"
	UsersName       UserSort = "name"
)

// TagsParam is the query key used for multi-valued tag filters.
const TagsParam = "tags[]"

// QuestionFilters selects a page of questions. Zero fields are not sent.
type QuestionFilters struct {
	Page     int
	PageSize int
	Search   string
	Tags     []string
	Author   string
	SortBy   QuestionSort
}

// Values encodes f as query parameters, omitting unset fields.
func (f QuestionFilters) Values() url.Values {
	v := url.Values{}
	setPaging(v, f.Page, f.PageSize)
	setString(v, "search", f.Search)
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			v.Add(TagsParam, t)
		}
	}
	setString(v, "author", f.Author)
	setString(v, "sort_by", string(f.SortBy))
	return v
}

// AnswerFilters selects a page of answers.
type AnswerFilters struct {
	QuestionID ID
	Page       int
	PageSize   int
	Author     string
	SortBy     AnswerSort
}

// Values encodes f as query parameters, omitting unset fields.
func (f AnswerFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "question_id", string(f.QuestionID))
	setPaging(v, f.Page, f.PageSize)
	setString(v, "author", f.Author)
	setString(v, "sort_by", string(f.SortBy))
	return v
}

// TagFilters selects a page of tags.
type TagFilters struct {
	Page     int
	PageSize int
	Search   string
	SortBy   TagSort
}

// Values encodes f as query parameters, omitting unset fields.
func (f TagFilters) Values() url.Values {
	v := url.Values{}
	setPaging(v, f.Page, f.PageSize)
	setString(v, "search", f.Search)
	setString(v, "sort_by", string(f.SortBy))
	return v
}

// UserFilters selects a page of users.
type UserFilters struct {
	Page     int
	PageSize int
	Search   string
	SortBy   UserSort
}

// Values encodes f as query parameters, omitting unset fields.
func (f UserFilters) Values() url.Values {
	v := url.Values{}
	setPaging(v, f.Page, f.PageSize)
	setString(v, "search", f.Search)
	setString(v, "sort_by", string(f.SortBy))
	return v
}

func setPaging(v url.Values, page, pageSize int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
}

func setString(v url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		v.Set(key, val)
	}
}
