package mockapi

import (
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/model"
)

func (s *Server) listAnswers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.store.Answers(answerQuery{
		questionID: model.ID(q.Get("question_id")),
		author:     q.Get("author"),
		sortBy:     model.AnswerSort(q.Get("sort_by")),
	})
	writePage(w, r, items, answersPageSize)
}

func (s *Server) getAnswer(w http.ResponseWriter, r *http.Request) {
	a, ok := s.store.Answer(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) createAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.AnswerCreate
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeErr(w, fieldError("content", "This field may not be blank."))
		return
	}
	a, err := s.store.CreateAnswer(s.actor(r), req.QuestionID, req.Content)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.AnswerUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Content != nil {
		c := strings.TrimSpace(*req.Content)
		if c == "" {
			writeErr(w, fieldError("content", "This field may not be blank."))
			return
		}
		req.Content = &c
	}
	a, err := s.store.UpdateAnswer(pathID(r), s.actor(r), req.Content)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) deleteAnswer(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAnswer(pathID(r), s.actor(r)); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) voteAnswer(w http.ResponseWriter, r *http.Request) {
	s.vote(w, r, "answer")
}

func (s *Server) acceptAnswer(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Accept(pathID(r), s.actor(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
