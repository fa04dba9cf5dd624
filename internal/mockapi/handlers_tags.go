package mockapi

import (
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/model"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.store.Tags(tagQuery{search: q.Get("search"), sortBy: model.TagSort(q.Get("sort_by"))})
	writePage(w, r, items, tagsPageSize)
}

func (s *Server) searchTags(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []model.Tag{})
		return
	}
	writeJSON(w, http.StatusOK, s.store.SearchTags(q, tagSearchLimit))
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.Tag(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) getTagByName(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.TagByName(chi.URLParam(r, "name"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) tagQuestions(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.TagByName(chi.URLParam(r, "name"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	items := s.store.Questions(questionQuery{tags: []string{t.Name}, sortBy: model.QuestionsNewest})
	writePage(w, r, items, questionsPageSize)
}
