package view

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
)

// MinTagQuery is the shortest input that triggers tag suggestions.
const MinTagQuery = 2

// AskQuestion is the state of the ask form.
type AskQuestion struct {
	questions service.QuestionService
	tags      service.TagService
	who       Identity
	notify    Notifier
	log       *zap.Logger
	f         fetcher

	mu          sync.Mutex
	selected    []string
	input       string
	suggestions []model.Tag
	submitting  bool
}

// NewAskQuestion constructs an empty form.
func NewAskQuestion(qs service.QuestionService, ts service.TagService, who Identity, n Notifier, log *zap.Logger) *AskQuestion {
	if n == nil {
		n = nopNotifier
	}
	if log == nil {
		log = zap.NewNop()
	}
	if who == nil {
		who = Anonymous
	}
	return &AskQuestion{questions: qs, tags: ts, who: who, notify: n, log: log}
}

// SuggestTags looks up tags matching q. Inputs shorter than MinTagQuery
// clear the suggestions without a request.
func (a *AskQuestion) SuggestTags(ctx context.Context, q string) ([]model.Tag, error) {
	a.mu.Lock()
	a.input = q
	if utf8.RuneCountInString(strings.TrimSpace(q)) < MinTagQuery {
		a.suggestions = nil
		a.f.stop()
		a.mu.Unlock()
		return nil, nil
	}
	ctx, gen := a.f.begin(ctx)
	a.mu.Unlock()

	found, err := a.tags.Search(ctx, q)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.f.end(gen) {
		return nil, ErrSuperseded
	}
	if err != nil {
		a.log.Debug("tag search failed", zap.String("q", q), zap.Error(err))
		return nil, err
	}
	a.suggestions = found
	return append([]model.Tag(nil), found...), nil
}

// AddTag selects a tag. Duplicates and tags beyond model.MaxQuestionTags are
// ignored; the result reports whether the tag was added.
func (a *AskQuestion) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	a.mu.Lock()
	defer a.mu.Unlock()
	if tag == "" || len(a.selected) >= model.MaxQuestionTags {
		return false
	}
	for _, t := range a.selected {
		if strings.EqualFold(t, tag) {
			return false
		}
	}
	a.selected = append(a.selected, tag)
	a.input = ""
	a.suggestions = nil
	return true
}

// RemoveTag unselects a tag.
func (a *AskQuestion) RemoveTag(tag string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.selected[:0:0]
	for _, t := range a.selected {
		if t != tag {
			out = append(out, t)
		}
	}
	a.selected = out
}

// Tags returns the selected tags.
func (a *AskQuestion) Tags() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.selected...)
}

// Suggestions returns the current tag suggestions.
func (a *AskQuestion) Suggestions() []model.Tag {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Tag(nil), a.suggestions...)
}

// Submit posts the question and returns its id. Anonymous users are asked to
// log in and get errs.ErrAuthRequired.
func (a *AskQuestion) Submit(ctx context.Context, title, content string) (model.ID, error) {
	if _, ok := a.who.CurrentUser(); !ok {
		a.notify.Notify(noticeAskAuth)
		return "", errs.ErrAuthRequired
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		a.notify.Notify(failure("Incomplete question", "Please provide both a title and content for your question"))
		return "", errs.Invalid("title and content are required")
	}

	a.mu.Lock()
	if a.submitting {
		a.mu.Unlock()
		return "", errs.Invalid("question is already being posted")
	}
	a.submitting = true
	tags := append([]string(nil), a.selected...)
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.submitting = false
		a.mu.Unlock()
	}()

	q, err := a.questions.Create(ctx, model.QuestionCreate{Title: title, Content: content, Tags: tags})
	if err != nil {
		a.log.Warn("ask failed", zap.Error(err))
		a.notify.Notify(failure("Failed to post question", "An error occurred while posting your question"))
		return "", err
	}
	a.mu.Lock()
	a.selected, a.input, a.suggestions = nil, "", nil
	a.mu.Unlock()
	a.notify.Notify(success("Question posted", "Your question has been posted successfully"))
	return q.ID, nil
}
