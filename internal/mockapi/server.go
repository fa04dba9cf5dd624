// Package mockapi is an in-memory development backend that speaks the Q&A REST
// contract the client consumes. It is used for local demos and as the test
// double for the client packages; it is not a production server.
package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/and161185/stackclone/internal/crypto"
	"github.com/and161185/stackclone/internal/limiter"
	"github.com/and161185/stackclone/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Defaults for list endpoints.
const (
	questionsPageSize = 10
	answersPageSize   = 30
	tagsPageSize      = 20
	usersPageSize     = 12
	userItemsPageSize = 10
	tagSearchLimit    = 10
)

// Server wires the store into chi handlers.
type Server struct {
	store      *Store
	signKey    []byte
	accessTTL  time.Duration
	lim        limiter.Limiter
	hashParams crypto.Params
	log        *zap.Logger
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued tokens.
func WithAccessTTL(d time.Duration) Option { return func(s *Server) { s.accessTTL = d } }

// WithLimiter sets the login limiter.
func WithLimiter(l limiter.Limiter) Option { return func(s *Server) { s.lim = l } }

// WithHashParams sets the Argon2id cost used for new passwords.
func WithHashParams(p crypto.Params) Option { return func(s *Server) { s.hashParams = p } }

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.log = l } }

// New constructs the development API over st. signKey signs HS256 tokens.
func New(st *Store, signKey []byte, opts ...Option) (*Server, error) {
	if st == nil {
		return nil, errors.New("mockapi: nil store")
	}
	if len(signKey) == 0 {
		return nil, errors.New("mockapi: empty signing key")
	}
	s := &Server{
		store:      st,
		signKey:    signKey,
		accessTTL:  24 * time.Hour,
		lim:        limiter.NewMemory(15*time.Minute, 5, 15*time.Minute),
		hashParams: crypto.DefaultParams,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler; the API lives under /api.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		Recover(s.log),
		Logging(s.log),
	)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get(avatarPath+"{id}/{name}", s.avatar)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login/", s.login)
			r.Post("/register/", s.register)
			r.With(s.requireAuth).Post("/logout/", s.logout)
			r.With(s.requireAuth).Get("/user/", s.currentUser)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", s.listQuestions)
			r.With(s.requireAuth).Post("/", s.createQuestion)
			r.Get("/{id}/", s.getQuestion)
			r.With(s.requireAuth).Patch("/{id}/", s.updateQuestion)
			r.With(s.requireAuth).Delete("/{id}/", s.deleteQuestion)
			r.With(s.requireAuth).Post("/{id}/vote/", s.voteQuestion)
		})

		r.Route("/answers", func(r chi.Router) {
			r.Get("/", s.listAnswers)
			r.With(s.requireAuth).Post("/", s.createAnswer)
			r.Get("/{id}/", s.getAnswer)
			r.With(s.requireAuth).Patch("/{id}/", s.updateAnswer)
			r.With(s.requireAuth).Delete("/{id}/", s.deleteAnswer)
			r.With(s.requireAuth).Post("/{id}/vote/", s.voteAnswer)
			r.With(s.requireAuth).Post("/{id}/accept/", s.acceptAnswer)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.listTags)
			r.Get("/search/", s.searchTags)
			r.Get("/name/{name}/", s.getTagByName)
			r.Get("/name/{name}/questions/", s.tagQuestions)
			r.Get("/{id}/", s.getTag)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.With(s.requireAuth).Patch("/me/", s.updateMe)
			r.Get("/{id}/", s.getUser)
			r.Get("/{id}/questions/", s.userQuestions)
			r.Get("/{id}/answers/", s.userAnswers)
			r.Get("/{id}/tags/", s.userTags)
			r.Get("/{id}/reputation/", s.userReputation)
		})
	})
	return r
}

// authenticate resolves an Authorization header when present. A present but
// invalid token is rejected even on public endpoints.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := strings.TrimSpace(r.Header.Get("Authorization"))
		if h == "" {
			next.ServeHTTP(w, r)
			return
		}
		scheme, raw, ok := strings.Cut(h, " ")
		if !ok || (!strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer")) {
			writeDetail(w, http.StatusUnauthorized, "Invalid token header.")
			return
		}
		tok, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid token.")
			return
		}
		s.store.Touch(tok.userID)
		next.ServeHTTP(w, r.WithContext(withToken(r.Context(), tok)))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromCtx(r.Context()); !ok {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// issueToken creates a signed HS256 JWT for the user with a unique token id.
func (s *Server) issueToken(userID model.ID) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        jti.String(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
}

func (s *Server) parseToken(raw string) (tokenInfo, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return tokenInfo{}, err
	}
	if claims.ID == "" || s.store.Revoked(claims.ID) {
		return tokenInfo{}, errors.New("token revoked")
	}
	id := model.ID(claims.Subject)
	if _, ok := s.store.User(id); !ok {
		return tokenInfo{}, errors.New("unknown subject")
	}
	return tokenInfo{jti: claims.ID, userID: id, exp: claims.ExpiresAt.Time}, nil
}

func (s *Server) actor(r *http.Request) model.ID {
	id, _ := UserIDFromCtx(r.Context())
	return id
}

func pathID(r *http.Request) model.ID {
	return model.ID(chi.URLParam(r, "id"))
}
