package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

// Tag question paging defaults.
const (
	DefaultTagQuestionsPage     = 1
	DefaultTagQuestionsPageSize = 10
)

// TagService defines tag lookups, autocomplete and per-tag question listing.
type TagService interface {
	List(ctx context.Context, f model.TagFilters) (model.Page[model.Tag], error)
	Get(ctx context.Context, id model.ID) (model.Tag, error)
	GetByName(ctx context.Context, name string) (model.Tag, error)
	// Search is the autocomplete lookup; q must be non-empty.
	Search(ctx context.Context, q string) ([]model.Tag, error)
	// Questions lists questions carrying the tag. Zero page/pageSize mean 1/10.
	Questions(ctx context.Context, name string, page, pageSize int) (model.Page[model.Question], error)
}

type TagServiceImpl struct {
	r   Requester
	log *zap.Logger
}

// NewTagService constructs TagService.
func NewTagService(r Requester, log *zap.Logger) *TagServiceImpl {
	return &TagServiceImpl{r: r, log: log}
}

const tagsPath = "/tags/"

func (s *TagServiceImpl) List(ctx context.Context, f model.TagFilters) (model.Page[model.Tag], error) {
	var p model.Page[model.Tag]
	if err := s.r.Do(ctx, http.MethodGet, tagsPath, f.Values(), nil, &p); err != nil {
		return model.Page[model.Tag]{}, err
	}
	trimPage(s.log, tagsPath, &p, f.PageSize)
	return p, nil
}

func (s *TagServiceImpl) Get(ctx context.Context, id model.ID) (model.Tag, error) {
	path, err := idPath(tagsPath, id, "")
	if err != nil {
		return model.Tag{}, err
	}
	var t model.Tag
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &t); err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

func (s *TagServiceImpl) GetByName(ctx context.Context, name string) (model.Tag, error) {
	path, err := tagNamePath(name, "")
	if err != nil {
		return model.Tag{}, err
	}
	var t model.Tag
	if err := s.r.Do(ctx, http.MethodGet, path, nil, nil, &t); err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

func (s *TagServiceImpl) Search(ctx context.Context, q string) ([]model.Tag, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errs.Invalid("empty search query")
	}
	var out []model.Tag
	if err := s.r.Do(ctx, http.MethodGet, tagsPath+"search/", url.Values{"q": {q}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TagServiceImpl) Questions(ctx context.Context, name string, page, pageSize int) (model.Page[model.Question], error) {
	path, err := tagNamePath(name, "questions/")
	if err != nil {
		return model.Page[model.Question]{}, err
	}
	if page <= 0 {
		page = DefaultTagQuestionsPage
	}
	if pageSize <= 0 {
		pageSize = DefaultTagQuestionsPageSize
	}
	q := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var p model.Page[model.Question]
	if err := s.r.Do(ctx, http.MethodGet, path, q, nil, &p); err != nil {
		return model.Page[model.Question]{}, err
	}
	trimPage(s.log, path, &p, pageSize)
	return p, nil
}

func tagNamePath(name, suffix string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Invalid("empty tag name")
	}
	return tagsPath + "name/" + url.PathEscape(name) + "/" + suffix, nil
}
