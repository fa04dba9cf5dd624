package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

// QuestionService defines question CRUD and voting.
type QuestionService interface {
	// List returns a page of questions; unset filter fields are omitted from the query.
	List(ctx context.Context, f model.QuestionFilters) (model.Page[model.Question], error)
	Get(ctx context.Context, id model.ID) (model.Question, error)
	// Create validates title, content and tags before posting.
	Create(ctx context.Context, in model.QuestionCreate) (model.Question, error)
	Update(ctx context.Context, id model.ID, in model.QuestionUpdate) (model.Question, error)
	Delete(ctx context.Context, id model.ID) error
	// Vote returns the updated question. It is not idempotent; callers must not repeat it.
	Vote(ctx context.Context, id model.ID, vt model.VoteType) (model.Question, error)
}

type QuestionServiceImpl struct {
	r   Requester
	log *zap.Logger
}

// NewQuestionService constructs QuestionService.
func NewQuestionService(r Requester, log *zap.Logger) *QuestionServiceImpl {
	return &QuestionServiceImpl{r: r, log: log}
}

const questionsPath = "/questions/"

func (s *QuestionServiceImpl) List(ctx context.Context, f model.QuestionFilters) (model.Page[model.Question], error) {
	var p model.Page[model.Question]
	if err := s.r.Do(ctx, http.MethodGet, questionsPath, f.Values(), nil, &p); err != nil {
		return model.Page[model.Question]{}, err
	}
	trimPage(s.log, questionsPath, &p, f.PageSize)
	return p, nil
}

func (s *QuestionServiceImpl) Get(ctx context.Context, id model.ID) (model.Question, error) {
	path, err := idPath(questionsPath, id, "")
	if err != nil {
		return model.Question{}, err
	}
	var q model.Question
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (s *QuestionServiceImpl) Create(ctx context.Context, in model.QuestionCreate) (model.Question, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return model.Question{}, errs.Invalid("title is required")
	}
	if in.Content == "" {
		return model.Question{}, errs.Invalid("content is required")
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return model.Question{}, err
	}
	in.Tags = tags

	var q model.Question
	if err := s.r.Do(ctx, http.MethodPost, questionsPath, nil, in, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (s *QuestionServiceImpl) Update(ctx context.Context, id model.ID, in model.QuestionUpdate) (model.Question, error) {
	path, err := idPath(questionsPath, id, "")
	if err != nil {
		return model.Question{}, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return model.Question{}, errs.Invalid("title is required")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return model.Question{}, errs.Invalid("content is required")
	}
	if in.Tags != nil {
		tags, err := NormalizeTags(*in.Tags)
		if err != nil {
			return model.Question{}, err
		}
		in.Tags = &tags
	}
	var q model.Question
	if err := s.r.Do(ctx, http.MethodPatch, path, nil, in, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (s *QuestionServiceImpl) Delete(ctx context.Context, id model.ID) error {
	path, err := idPath(questionsPath, id, "")
	if err != nil {
		return err
	}
	return s.r.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (s *QuestionServiceImpl) Vote(ctx context.Context, id model.ID, vt model.VoteType) (model.Question, error) {
	if err := checkVote(vt); err != nil {
		return model.Question{}, err
	}
	path, err := idPath(questionsPath, id, "vote/")
	if err != nil {
		return model.Question{}, err
	}
	var out model.Question
	if err := s.r.Do(ctx, http.MethodPost, path, nil, model.VoteRequest{VoteType: vt}, &out); err != nil {
		return model.Question{}, err
	}
	return out, nil
}

// NormalizeTags trims, drops empties and duplicates (case-insensitive, first
// spelling wins) and enforces model.MaxQuestionTags.
func NormalizeTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	if len(out) > model.MaxQuestionTags {
		return nil, errs.Invalid("too many tags (%d > %d)", len(out), model.MaxQuestionTags)
	}
	return out, nil
}
