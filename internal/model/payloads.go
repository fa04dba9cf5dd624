package model

import "io"

// MaxQuestionTags is the most tags a question may carry.
const MaxQuestionTags = 5

// QuestionCreate is the body of POST /questions/.
type QuestionCreate struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// QuestionUpdate is the body of PATCH /questions/{id}/. Nil fields are left untouched.
type QuestionUpdate struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// AnswerCreate is the body of POST /answers/.
type AnswerCreate struct {
	QuestionID ID     `json:"question_id"`
	Content    string `json:"content"`
}

// AnswerUpdate is the body of PATCH /answers/{id}/.
type AnswerUpdate struct {
	Content *string `json:"content,omitempty"`
}

// VoteRequest is the body of the vote endpoints.
type VoteRequest struct {
	VoteType VoteType `json:"vote_type"`
}

// ProfileUpdate is sent as multipart form to PATCH /users/me/.
type ProfileUpdate struct {
	DisplayName string
	Location    string
	About       string
	Avatar      *Avatar
}

// Avatar is an image upload attached to a profile update.
type Avatar struct {
	Filename string
	Content  io.Reader
}

// LoginRequest is the body of POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register/.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Ptr returns a pointer to v; handy for update payloads.
func Ptr[T any](v T) *T { return &v }
