package view

import (
	"context"
	"sync"

	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
)

// TagDetail is a tag page: the tag itself and a paged list of its questions.
type TagDetail struct {
	name      string
	tags      service.TagService
	notify    Notifier
	log       *zap.Logger
	f         fetcher
	Questions *List[model.Question]

	mu  sync.Mutex
	tag model.Tag
	err error
}

// NewTagDetail constructs the page for the tag called name.
func NewTagDetail(name string, ts service.TagService, n Notifier, log *zap.Logger) *TagDetail {
	if n == nil {
		n = nopNotifier
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TagDetail{
		name:      name,
		tags:      ts,
		notify:    n,
		log:       log,
		Questions: NewTagQuestionList(ts, name, n, log),
	}
}

// Load fetches the tag and the current page of its questions.
func (t *TagDetail) Load(ctx context.Context) error {
	t.mu.Lock()
	tctx, gen := t.f.begin(ctx)
	t.mu.Unlock()

	tag, err := t.tags.GetByName(tctx, t.name)

	t.mu.Lock()
	if !t.f.end(gen) {
		t.mu.Unlock()
		return ErrSuperseded
	}
	t.err = err
	if err == nil {
		t.tag = tag
	}
	t.mu.Unlock()
	if err != nil {
		t.log.Warn("tag load failed", zap.String("tag", t.name), zap.Error(err))
		t.notify.Notify(failure("Error", "Failed to load tag."))
		return err
	}
	return t.Questions.Load(ctx)
}

// Tag returns the loaded tag and the error of the last load.
func (t *TagDetail) Tag() (model.Tag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tag, t.err
}

// Close cancels in-flight loads.
func (t *TagDetail) Close() {
	t.mu.Lock()
	t.f.stop()
	t.mu.Unlock()
	t.Questions.Close()
}
