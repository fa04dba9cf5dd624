// Package model defines the entities exchanged with the Q&A REST API.
//
// Entities are plain values fetched per request; there is no identity map, so two
// fetches of the same question yield independent copies.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID identifies a remote record. The API may encode ids as numbers or strings;
// both decode into the same textual form.
type ID string

// UnmarshalJSON accepts "12", 12 and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("model: bad id %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// TagRef is the short tag form embedded in questions and user profiles.
type TagRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Tag is a categorical label attached to questions.
type Tag struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

// Ref returns the short form of t.
func (t Tag) Ref() TagRef { return TagRef{ID: t.ID, Name: t.Name} }

// UserSummary is the author block embedded in questions and answers.
type UserSummary struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Reputation  int    `json:"reputation"`
}

// Name returns the display name, falling back to the username.
func (u UserSummary) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// User is a community member profile.
type User struct {
	ID           ID         `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"displayName"`
	Email        string     `json:"email,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Reputation   int        `json:"reputation"`
	Location     string     `json:"location,omitempty"`
	About        string     `json:"about,omitempty"`
	MemberSince  time.Time  `json:"member_since"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	VisitStreak  string     `json:"visit_streak,omitempty"`
	GoldBadges   int        `json:"gold_badges"`
	SilverBadges int        `json:"silver_badges"`
	BronzeBadges int        `json:"bronze_badges"`
	TopTags      []TagRef   `json:"top_tags,omitempty"`
}

// Badges groups badge counts by tier.
type Badges struct {
	Gold, Silver, Bronze int
}

// Badges returns the user's badge counts.
func (u User) Badges() Badges {
	return Badges{Gold: u.GoldBadges, Silver: u.SilverBadges, Bronze: u.BronzeBadges}
}

// Summary returns the author block for u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Reputation:  u.Reputation,
	}
}

// Question is a posted question with its counters.
type Question struct {
	ID          ID          `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"` // HTML
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	VoteCount   int         `json:"vote_count"`
	AnswerCount int         `json:"answer_count"`
	ViewCount   int         `json:"view_count"`
	Tags        []TagRef    `json:"tags"`
	Author      UserSummary `json:"author"`
}

// TagNames returns the names of the question's tags in order.
func (q Question) TagNames() []string {
	out := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		out = append(out, t.Name)
	}
	return out
}

// Answer is a reply to a question.
type Answer struct {
	ID         ID          `json:"id"`
	QuestionID ID          `json:"question_id"`
	Content    string      `json:"content"` // HTML
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	VoteCount  int         `json:"vote_count"`
	IsAccepted bool        `json:"is_accepted"`
	Author     UserSummary `json:"author"`
}

// ReputationEntry is one row of a user's reputation history.
type ReputationEntry struct {
	ID        ID        `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the paginated list envelope returned by every list endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// TotalPages returns how many pages of pageSize cover Count.
func (p Page[T]) TotalPages(pageSize int) int {
	return TotalPages(p.Count, pageSize)
}

// HasNext reports whether the server advertised a following page.
func (p Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }

// TotalPages returns ceil(count/pageSize), or 0 when pageSize is not positive.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
