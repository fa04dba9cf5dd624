package mockapi

import (
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
)

const maxTags = 5

func questionQueryFrom(r *http.Request) questionQuery {
	q := r.URL.Query()
	tags := q[model.TagsParam]
	if len(tags) == 0 {
		tags = q["tags"]
	}
	return questionQuery{
		search: q.Get("search"),
		tags:   tags,
		author: q.Get("author"),
		sortBy: model.QuestionSort(q.Get("sort_by")),
	}
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.Questions(questionQueryFrom(r)), questionsPageSize)
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := s.store.Question(pathID(r), true)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req model.QuestionCreate
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := checkQuestion(&req.Title, &req.Content, &req.Tags); err != nil {
		writeErr(w, err)
		return
	}
	q := s.store.CreateQuestion(s.actor(r), req.Title, req.Content, req.Tags)
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionPatch
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := checkQuestion(req.Title, req.Content, req.Tags); err != nil {
		writeErr(w, err)
		return
	}
	q, err := s.store.UpdateQuestion(pathID(r), s.actor(r), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuestion(pathID(r), s.actor(r)); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) voteQuestion(w http.ResponseWriter, r *http.Request) {
	s.vote(w, r, "question")
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request, kind string) {
	var req model.VoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if !req.VoteType.Valid() {
		writeErr(w, fieldError("vote_type", "\""+string(req.VoteType)+"\" is not a valid choice."))
		return
	}
	id := pathID(r)
	if _, err := s.store.Vote(kind, id, s.actor(r), req.VoteType); err != nil {
		writeErr(w, err)
		return
	}
	// Respond with the updated entity.
	if kind == "question" {
		q, ok := s.store.Question(id, false)
		if !ok {
			writeErr(w, errs.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, q)
		return
	}
	a, ok := s.store.Answer(id)
	if !ok {
		writeErr(w, errs.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// checkQuestion validates the fields that are set; nil pointers are skipped.
func checkQuestion(title, content *string, tags *[]string) error {
	if title != nil {
		*title = strings.TrimSpace(*title)
		if *title == "" {
			return fieldError("title", "This field may not be blank.")
		}
	}
	if content != nil {
		*content = strings.TrimSpace(*content)
		if *content == "" {
			return fieldError("content", "This field may not be blank.")
		}
	}
	if tags != nil {
		n := 0
		seen := map[string]bool{}
		for _, t := range *tags {
			if t = normalizeTag(t); t != "" && !seen[t] {
				seen[t] = true
				n++
			}
		}
		if n > maxTags {
			return fieldError("tags", "Ensure this field has no more than 5 elements.")
		}
	}
	return nil
}
