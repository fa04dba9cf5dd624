package mockapi

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/and161185/stackclone/internal/model"
	"github.com/go-chi/chi/v5"
)

const maxAvatarBytes = 2 << 20

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.store.Users(userQuery{search: q.Get("search"), sortBy: model.UserSort(q.Get("sort_by"))})
	for i := range items {
		items[i] = publicUser(items[i])
	}
	writePage(w, r, items, usersPageSize)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.User(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	if u.ID != s.actor(r) {
		u = publicUser(u)
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	id := s.actor(r)
	var p profilePatch
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		if p, err = s.profileFromForm(r, id); err != nil {
			writeErr(w, err)
			return
		}
	} else {
		var req struct {
			DisplayName *string `json:"displayName"`
			Location    *string `json:"location"`
			About       *string `json:"about"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		p = profilePatch{DisplayName: req.DisplayName, Location: req.Location, About: req.About}
	}
	if p.DisplayName != nil && strings.TrimSpace(*p.DisplayName) == "" {
		writeErr(w, fieldError("displayName", "This field may not be blank."))
		return
	}
	u, err := s.store.UpdateProfile(id, p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) profileFromForm(r *http.Request, id model.ID) (profilePatch, error) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		return profilePatch{}, detailError(http.StatusBadRequest, "Multipart form parse error.")
	}
	var p profilePatch
	field := func(name string) *string {
		if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
			v := strings.TrimSpace(vs[0])
			return &v
		}
		return nil
	}
	p.DisplayName = field("displayName")
	p.Location = field("location")
	p.About = field("about")

	f, hdr, err := r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return p, nil
	case err != nil:
		return profilePatch{}, fieldError("avatar", "Upload a valid image.")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
	if err != nil || len(data) == 0 {
		return profilePatch{}, fieldError("avatar", "The submitted file is empty.")
	}
	if len(data) > maxAvatarBytes {
		return profilePatch{}, fieldError("avatar", "The submitted file is too large.")
	}
	ctype := http.DetectContentType(data)
	if !strings.HasPrefix(ctype, "image/") {
		return profilePatch{}, fieldError("avatar", "Upload a valid image.")
	}
	u := s.store.SetAvatar(id, path.Base(hdr.Filename), ctype, data)
	p.AvatarURL = &u
	return p, nil
}

func (s *Server) avatar(w http.ResponseWriter, r *http.Request) {
	a, ok := s.store.Avatar(pathID(r))
	if !ok || a.name != chi.URLParam(r, "name") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.contentType)
	_, _ = w.Write(a.data)
}

func (s *Server) userQuestions(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, ok := s.store.User(id); !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writePage(w, r, s.store.Questions(questionQuery{author: id.String(), sortBy: model.QuestionsNewest}), userItemsPageSize)
}

func (s *Server) userAnswers(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, ok := s.store.User(id); !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writePage(w, r, s.store.Answers(answerQuery{author: id.String(), sortBy: model.AnswersNewest}), userItemsPageSize)
}

func (s *Server) userTags(w http.ResponseWriter, r *http.Request) {
	tags, ok := s.store.UserTags(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) userReputation(w http.ResponseWriter, r *http.Request) {
	hist, ok := s.store.Reputation(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writePage(w, r, hist, userItemsPageSize)
}

func publicUser(u model.User) model.User {
	u.Email = ""
	return u
}
