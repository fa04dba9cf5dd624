package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

// UserService defines user listing, profiles and per-user activity.
type UserService interface {
	List(ctx context.Context, f model.UserFilters) (model.Page[model.User], error)
	Get(ctx context.Context, id model.ID) (model.User, error)
	// UpdateProfile sends a multipart PATCH to /users/me/. Text fields are
	// always sent; the avatar part only when set.
	UpdateProfile(ctx context.Context, in model.ProfileUpdate) (model.User, error)
	Questions(ctx context.Context, id model.ID, page int) (model.Page[model.Question], error)
	Answers(ctx context.Context, id model.ID, page int) (model.Page[model.Answer], error)
	Tags(ctx context.Context, id model.ID) ([]model.Tag, error)
	Reputation(ctx context.Context, id model.ID, page int) (model.Page[model.ReputationEntry], error)
}

type UserServiceImpl struct {
	r   Requester
	log *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(r Requester, log *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{r: r, log: log}
}

const (
	usersPath = "/users/"
	mePath    = "/users/me/"
)

func (s *UserServiceImpl) List(ctx context.Context, f model.UserFilters) (model.Page[model.User], error) {
	var p model.Page[model.User]
	if err := s.r.Do(ctx, http.MethodGet, usersPath, f.Values(), nil, &p); err != nil {
		return model.Page[model.User]{}, err
	}
	trimPage(s.log, usersPath, &p, f.PageSize)
	return p, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id model.ID) (model.User, error) {
	path, err := idPath(usersPath, id, "")
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, in model.ProfileUpdate) (model.User, error) {
	form := apiclient.Form{
		Fields: []apiclient.FormField{
			{Name: "displayName", Value: in.DisplayName},
			{Name: "location", Value: in.Location},
			{Name: "about", Value: in.About},
		},
	}
	if in.Avatar != nil {
		if in.Avatar.Content == nil || in.Avatar.Filename == "" {
			return model.User{}, errs.Invalid("avatar needs a file name and content")
		}
		form.Files = append(form.Files, apiclient.FormFile{
			Field:    "avatar",
			Filename: in.Avatar.Filename,
			Content:  in.Avatar.Content,
		})
	}
	var u model.User
	if err := s.r.SendForm(ctx, http.MethodPatch, mePath, form, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *UserServiceImpl) Questions(ctx context.Context, id model.ID, page int) (model.Page[model.Question], error) {
	return userPage[model.Question](ctx, s.r, id, "questions/", page)
}

func (s *UserServiceImpl) Answers(ctx context.Context, id model.ID, page int) (model.Page[model.Answer], error) {
	return userPage[model.Answer](ctx, s.r, id, "answers/", page)
}

func (s *UserServiceImpl) Reputation(ctx context.Context, id model.ID, page int) (model.Page[model.ReputationEntry], error) {
	return userPage[model.ReputationEntry](ctx, s.r, id, "reputation/", page)
}

func (s *UserServiceImpl) Tags(ctx context.Context, id model.ID) ([]model.Tag, error) {
	path, err := idPath(usersPath, id, "tags/")
	if err != nil {
		return nil, err
	}
	var out []model.Tag
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func userPage[T any](ctx context.Context, r Requester, id model.ID, suffix string, page int) (model.Page[T], error) {
	path, err := idPath(usersPath, id, suffix)
	if err != nil {
		return model.Page[T]{}, err
	}
	if page <= 0 {
		page = 1
	}
	var p model.Page[T]
	if err := r.Do(ctx, http.MethodGet, path, url.Values{"page": {strconv.Itoa(page)}}, nil, &p); err != nil {
		return model.Page[T]{}, err
	}
	return p, nil
}
