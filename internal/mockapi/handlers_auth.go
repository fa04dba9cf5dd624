package mockapi

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/and161185/stackclone/internal/crypto"
	"github.com/and161185/stackclone/internal/limiter"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

const minPasswordLen = 8

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeErr(w, fieldError("non_field_errors", "Must include \"email\" and \"password\"."))
		return
	}

	ipHash := limiter.HashIP(clientIP(r))
	allowed, retry, err := s.lim.Allow(r.Context(), req.Email, ipHash)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		writeDetail(w, http.StatusTooManyRequests, "Too many failed login attempts. Try again later.")
		return
	}

	u, hash, ok := s.store.UserByEmail(req.Email)
	if !ok || !crypto.VerifyPassword(req.Password, hash) {
		if blocked, _, ferr := s.lim.Failure(r.Context(), req.Email, ipHash); ferr == nil && blocked {
			s.log.Warn("login blocked", zap.String("email", req.Email))
		}
		writeErr(w, fieldError("non_field_errors", "Unable to log in with provided credentials."))
		return
	}
	_ = s.lim.Success(r.Context(), req.Email, ipHash)
	s.respondWithToken(w, http.StatusOK, u)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Username == "":
		writeErr(w, fieldError("username", "This field may not be blank."))
		return
	case req.Email == "":
		writeErr(w, fieldError("email", "This field may not be blank."))
		return
	case !validEmail(req.Email):
		writeErr(w, fieldError("email", "Enter a valid email address."))
		return
	case len(req.Password) < minPasswordLen:
		writeErr(w, fieldError("password", "This password is too short. It must contain at least 8 characters."))
		return
	case req.Password != req.Password2:
		writeErr(w, fieldError("password", "Password fields didn't match."))
		return
	}

	hash, err := crypto.HashPassword(req.Password, s.hashParams)
	if err != nil {
		writeErr(w, err)
		return
	}
	u, err := s.store.CreateUser(req.Username, req.Email, hash)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.respondWithToken(w, http.StatusCreated, u)
}

func (s *Server) respondWithToken(w http.ResponseWriter, status int, u model.User) {
	tok, err := s.issueToken(u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, status, model.AuthResponse{Token: tok, User: u})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if t, ok := tokenFromCtx(r.Context()); ok {
		s.store.Revoke(t.jti, t.exp)
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out."})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.User(s.actor(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i > 0 {
		host = host[:i]
	}
	return host
}
