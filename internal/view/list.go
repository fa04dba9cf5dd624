package view

import (
	"context"
	"strings"
	"sync"

	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
)

// Page sizes of the list screens.
const (
	QuestionsPageSize = 10
	TagsPageSize      = 20
	UsersPageSize     = 12
)

// Query is the set of inputs a list is loaded from.
type Query struct {
	Page   int
	Sort   string
	Search string
	Tag    string
}

// FetchFunc loads one page for q.
type FetchFunc[T any] func(ctx context.Context, q Query, pageSize int) (model.Page[T], error)

// ListState is a copy of a list's fields.
type ListState[T any] struct {
	Query    Query
	PageSize int
	Items    []T
	Count    int
	Loading  bool
	Err      error
}

// TotalPages returns the number of pages covering Count.
func (s ListState[T]) TotalPages() int { return model.TotalPages(s.Count, s.PageSize) }

// ListConfig configures a List.
type ListConfig struct {
	// Name appears in failure notices, e.g. "questions".
	Name     string
	PageSize int
	Query    Query
	Notifier Notifier
	Log      *zap.Logger
}

// List is a paged, sortable, searchable list screen.
type List[T any] struct {
	fetch    FetchFunc[T]
	name     string
	pageSize int
	notify   Notifier
	log      *zap.Logger
	f        fetcher

	mu      sync.Mutex
	q       Query
	issued  Query
	started bool
	items   []T
	count   int
	loading bool
	err     error
}

// NewList constructs a List. Nothing is fetched until Load.
func NewList[T any](fetch FetchFunc[T], cfg ListConfig) *List[T] {
	if cfg.Query.Page < 1 {
		cfg.Query.Page = 1
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &List[T]{
		fetch:    fetch,
		name:     cfg.Name,
		pageSize: cfg.PageSize,
		notify:   cfg.Notifier,
		log:      cfg.Log,
		q:        cfg.Query,
	}
}

// Load fetches the page for the current query, even if it was loaded before.
func (l *List[T]) Load(ctx context.Context) error {
	return l.load(ctx)
}

// Search sets the search text and goes back to the first page.
func (l *List[T]) Search(ctx context.Context, text string) error {
	return l.update(ctx, func(q *Query) {
		q.Search = strings.TrimSpace(text)
		q.Page = 1
	})
}

// SetSort changes the order and goes back to the first page.
func (l *List[T]) SetSort(ctx context.Context, sort string) error {
	return l.update(ctx, func(q *Query) {
		q.Sort = sort
		q.Page = 1
	})
}

// SetPage moves to page p; values below 1 mean the first page.
func (l *List[T]) SetPage(ctx context.Context, p int) error {
	return l.update(ctx, func(q *Query) { q.Page = max(p, 1) })
}

// FilterTag restricts the list to a tag; "" removes the filter.
func (l *List[T]) FilterTag(ctx context.Context, tag string) error {
	return l.update(ctx, func(q *Query) {
		q.Tag = strings.TrimSpace(tag)
		q.Page = 1
	})
}

// SetQuery replaces the whole query at once, e.g. from URL parameters.
// Empty Sort keeps the current order.
func (l *List[T]) SetQuery(ctx context.Context, q Query) error {
	return l.update(ctx, func(cur *Query) {
		if q.Sort == "" {
			q.Sort = cur.Sort
		}
		q.Page = max(q.Page, 1)
		q.Search = strings.TrimSpace(q.Search)
		q.Tag = strings.TrimSpace(q.Tag)
		*cur = q
	})
}

// State returns a copy of the list's fields.
func (l *List[T]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListState[T]{
		Query:    l.q,
		PageSize: l.pageSize,
		Items:    append([]T(nil), l.items...),
		Count:    l.count,
		Loading:  l.loading,
		Err:      l.err,
	}
}

// Remove drops matching items locally, e.g. after a delete.
func (l *List[T]) Remove(match func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0:0]
	for _, it := range l.items {
		if match(it) {
			l.count--
			continue
		}
		kept = append(kept, it)
	}
	l.items = kept
}

// Close cancels any in-flight load.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.stop()
	l.loading = false
}

// update applies change and loads unless the same query is in flight or
// already loaded. A query whose last load failed is fetched again.
func (l *List[T]) update(ctx context.Context, change func(*Query)) error {
	l.mu.Lock()
	change(&l.q)
	same := l.started && l.q == l.issued && (l.loading || l.err == nil)
	l.mu.Unlock()
	if same {
		return nil
	}
	return l.load(ctx)
}

func (l *List[T]) load(ctx context.Context) error {
	l.mu.Lock()
	q := l.q
	l.issued, l.started = q, true
	l.loading = true
	ctx, gen := l.f.begin(ctx)
	l.mu.Unlock()

	p, err := l.fetch(ctx, q, l.pageSize)

	l.mu.Lock()
	if !l.f.end(gen) {
		l.mu.Unlock()
		return ErrSuperseded
	}
	l.loading = false
	l.err = err
	if err == nil {
		l.items, l.count = p.Results, p.Count
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("list load failed", zap.String("list", l.name), zap.Int("page", q.Page), zap.Error(err))
		l.notify.Notify(failure("Error", "Failed to load "+l.name+"."))
		return err
	}
	return nil
}

// NewQuestionList lists questions, newest first by default.
func NewQuestionList(svc service.QuestionService, n Notifier, log *zap.Logger) *List[model.Question] {
	fetch := func(ctx context.Context, q Query, size int) (model.Page[model.Question], error) {
		f := model.QuestionFilters{
			Page:     q.Page,
			PageSize: size,
			Search:   q.Search,
			SortBy:   model.QuestionSort(q.Sort),
		}
		if q.Tag != "" {
			f.Tags = []string{q.Tag}
		}
		return svc.List(ctx, f)
	}
	return NewList(fetch, ListConfig{
		Name:     "questions",
		PageSize: QuestionsPageSize,
		Query:    Query{Sort: string(model.QuestionsNewest)},
		Notifier: n,
		Log:      log,
	})
}

// NewTagList lists tags, most used first by default.
func NewTagList(svc service.TagService, n Notifier, log *zap.Logger) *List[model.Tag] {
	fetch := func(ctx context.Context, q Query, size int) (model.Page[model.Tag], error) {
		return svc.List(ctx, model.TagFilters{
			Page:     q.Page,
			PageSize: size,
			Search:   q.Search,
			SortBy:   model.TagSort(q.Sort),
		})
	}
	return NewList(fetch, ListConfig{
		Name:     "tags",
		PageSize: TagsPageSize,
		Query:    Query{Sort: string(model.TagsPopular)},
		Notifier: n,
		Log:      log,
	})
}

// NewUserList lists users, highest reputation first by default.
func NewUserList(svc service.UserService, n Notifier, log *zap.Logger) *List[model.User] {
	fetch := func(ctx context.Context, q Query, size int) (model.Page[model.User], error) {
		return svc.List(ctx, model.UserFilters{
			Page:     q.Page,
			PageSize: size,
			Search:   q.Search,
			SortBy:   model.UserSort(q.Sort),
		})
	}
	return NewList(fetch, ListConfig{
		Name:     "users",
		PageSize: UsersPageSize,
		Query:    Query{Sort: string(model.UsersReputation)},
		Notifier: n,
		Log:      log,
	})
}

// NewTagQuestionList lists the questions carrying tag.
func NewTagQuestionList(svc service.TagService, tag string, n Notifier, log *zap.Logger) *List[model.Question] {
	fetch := func(ctx context.Context, q Query, size int) (model.Page[model.Question], error) {
		return svc.Questions(ctx, tag, q.Page, size)
	}
	return NewList(fetch, ListConfig{
		Name:     "questions",
		PageSize: service.DefaultTagQuestionsPageSize,
		Notifier: n,
		Log:      log,
	})
}
