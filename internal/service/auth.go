package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
)

// AuthService defines the remote authentication calls. It does not persist
// anything; the session controller owns local credentials.
type AuthService interface {
	// Login exchanges email and password for a token and the user profile.
	Login(ctx context.Context, email, password string) (model.AuthResponse, error)
	// Register creates an account and signs it in.
	Register(ctx context.Context, in model.RegisterRequest) (model.AuthResponse, error)
	// Logout invalidates the current token on the server.
	Logout(ctx context.Context) error
	// CurrentUser returns the profile bound to the current token.
	CurrentUser(ctx context.Context) (model.User, error)
}

type AuthServiceImpl struct {
	r Requester
}

// NewAuthService constructs AuthService.
func NewAuthService(r Requester) *AuthServiceImpl {
	return &AuthServiceImpl{r: r}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.AuthResponse{}, errs.Invalid("email and password are required")
	}
	var out model.AuthResponse
	err := s.r.Do(ctx, http.MethodPost, "/auth/login/", nil, model.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if out.Token == "" {
		return model.AuthResponse{}, errors.New("login: empty token in response")
	}
	return out, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, in model.RegisterRequest) (model.AuthResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return model.AuthResponse{}, errs.Invalid("username, email and password are required")
	}
	if in.Password != in.Password2 {
		return model.AuthResponse{}, errs.ErrPasswordMismatch
	}
	var out model.AuthResponse
	if err := s.r.Do(ctx, http.MethodPost, "/auth/register/", nil, in, &out); err != nil {
		return model.AuthResponse{}, err
	}
	if out.Token == "" {
		return model.AuthResponse{}, errors.New("register: empty token in response")
	}
	return out, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	return s.r.Do(ctx, http.MethodPost, "/auth/logout/", nil, nil, nil)
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context) (model.User, error) {
	var u model.User
	if err := s.r.Do(ctx, http.MethodGet, "/auth/user/", nil, nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}
