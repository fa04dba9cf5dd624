package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

// AnswerService defines answer CRUD, voting and acceptance.
type AnswerService interface {
	List(ctx context.Context, f model.AnswerFilters) (model.Page[model.Answer], error)
	Get(ctx context.Context, id model.ID) (model.Answer, error)
	Create(ctx context.Context, in model.AnswerCreate) (model.Answer, error)
	Update(ctx context.Context, id model.ID, in model.AnswerUpdate) (model.Answer, error)
	Delete(ctx context.Context, id model.ID) error
	Vote(ctx context.Context, id model.ID, vt model.VoteType) (model.Answer, error)
	// Accept marks the answer accepted and returns it. Siblings are not
	// returned; use model.AcceptAnswer to reconcile a local list.
	Accept(ctx context.Context, id model.ID) (model.Answer, error)
}

type AnswerServiceImpl struct {
	r   Requester
	log *zap.Logger
}

// NewAnswerService constructs AnswerService.
func NewAnswerService(r Requester, log *zap.Logger) *AnswerServiceImpl {
	return &AnswerServiceImpl{r: r, log: log}
}

const answersPath = "/answers/"

func (s *AnswerServiceImpl) List(ctx context.Context, f model.AnswerFilters) (model.Page[model.Answer], error) {
	var p model.Page[model.Answer]
	if err := s.r.Do(ctx, http.MethodGet, answersPath, f.Values(), nil, &p); err != nil {
		return model.Page[model.Answer]{}, err
	}
	trimPage(s.log, answersPath, &p, f.PageSize)
	return p, nil
}

func (s *AnswerServiceImpl) Get(ctx context.Context, id model.ID) (model.Answer, error) {
	path, err := idPath(answersPath, id, "")
	if err != nil {
		return model.Answer{}, err
	}
	var a model.Answer
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &a); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}

func (s *AnswerServiceImpl) Create(ctx context.Context, in model.AnswerCreate) (model.Answer, error) {
	if strings.TrimSpace(in.QuestionID.String()) == "" {
		return model.Answer{}, errs.Invalid("empty question id")
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return model.Answer{}, errs.Invalid("answer content is required")
	}
	var a model.Answer
	if err := s.r.Do(ctx, http.MethodPost, answersPath, nil, in, &a); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}

func (s *AnswerServiceImpl) Update(ctx context.Context, id model.ID, in model.AnswerUpdate) (model.Answer, error) {
	path, err := idPath(answersPath, id, "")
	if err != nil {
		return model.Answer{}, err
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return model.Answer{}, errs.Invalid("answer content is required")
	}
	var a model.Answer
	if err := s.r.Do(ctx, http.MethodPatch, path, nil, in, &a); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}

func (s *AnswerServiceImpl) Delete(ctx context.Context, id model.ID) error {
	path, err := idPath(answersPath, id, "")
	if err != nil {
		return err
	}
	return s.r.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (s *AnswerServiceImpl) Vote(ctx context.Context, id model.ID, vt model.VoteType) (model.Answer, error) {
	if err := checkVote(vt); err != nil {
		return model.Answer{}, err
	}
	path, err := idPath(answersPath, id, "vote/")
	if err != nil {
		return model.Answer{}, err
	}
	var out model.Answer
	if err := s.r.Do(ctx, http.MethodPost, path, nil, model.VoteRequest{VoteType: vt}, &out); err != nil {
		return model.Answer{}, err
	}
	return out, nil
}

func (s *AnswerServiceImpl) Accept(ctx context.Context, id model.ID) (model.Answer, error) {
	path, err := idPath(answersPath, id, "accept/")
	if err != nil {
		return model.Answer{}, err
	}
	var a model.Answer
	if err := s.r.Do(ctx, http.MethodPost, path, nil, nil, &a); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}
