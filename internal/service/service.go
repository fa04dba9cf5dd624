// Package service contains typed clients for the Q&A REST resources:
// questions, answers, tags, users and authentication.
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"go.uber.org/zap"
)

// Requester is the transport every service issues its calls through.
// *apiclient.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
	SendForm(ctx context.Context, method, path string, f apiclient.Form, out any) error
}

var _ Requester = (*apiclient.Client)(nil)

// Services bundles one instance of every resource service.
type Services struct {
	Questions QuestionService
	Answers   AnswerService
	Tags      TagService
	Users     UserService
	Auth      AuthService
}

// New builds all services over the same requester.
func New(r Requester, log *zap.Logger) Services {
	if log == nil {
		log = zap.NewNop()
	}
	return Services{
		Questions: NewQuestionService(r, log),
		Answers:   NewAnswerService(r, log),
		Tags:      NewTagService(r, log),
		Users:     NewUserService(r, log),
		Auth:      NewAuthService(r),
	}
}

// trimPage enforces len(Results) <= pageSize when the server ignores page_size.
func trimPage[T any](log *zap.Logger, path string, p *model.Page[T], pageSize int) {
	if pageSize <= 0 || len(p.Results) <= pageSize {
		return
	}
	log.Warn("server returned more results than page_size",
		zap.String("path", path),
		zap.Int("page_size", pageSize),
		zap.Int("got", len(p.Results)),
	)
	p.Results = p.Results[:pageSize]
}

func idPath(prefix string, id model.ID, suffix string) (string, error) {
	s := strings.TrimSpace(id.String())
	if s == "" {
		return "", errs.Invalid("empty id")
	}
	return prefix + url.PathEscape(s) + "/" + suffix, nil
}

func checkVote(vt model.VoteType) error {
	if !vt.Valid() {
		return errs.Invalid("vote type %q", string(vt))
	}
	return nil
}
