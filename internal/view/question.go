package view

import (
	"context"
	"strings"
	"sync"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
)

// DetailState is a copy of a QuestionDetail's fields.
type DetailState struct {
	Question model.Question
	Answers  []model.Answer
	Sort     model.AnswerSort
	Loaded   bool
	Deleted  bool
	Loading  bool
	Err      error
}

// QuestionDetail is a question page with its answers.
type QuestionDetail struct {
	id        model.ID
	questions service.QuestionService
	answers   service.AnswerService
	who       Identity
	notify    Notifier
	log       *zap.Logger
	f         fetcher

	mu   sync.Mutex
	st   DetailState
	busy bool
}

// NewQuestionDetail constructs the page for question id. Answers are sorted
// by votes until SetSort is called.
func NewQuestionDetail(id model.ID, qs service.QuestionService, as service.AnswerService, who Identity, n Notifier, log *zap.Logger) *QuestionDetail {
	if n == nil {
		n = nopNotifier
	}
	if log == nil {
		log = zap.NewNop()
	}
	if who == nil {
		who = Anonymous
	}
	return &QuestionDetail{
		id:        id,
		questions: qs,
		answers:   as,
		who:       who,
		notify:    n,
		log:       log.With(zap.String("question_id", id.String())),
		st:        DetailState{Sort: model.AnswersVotes},
	}
}

// State returns a copy of the page's fields.
func (d *QuestionDetail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.st
	s.Answers = append([]model.Answer(nil), d.st.Answers...)
	s.Question.Tags = append([]model.TagRef(nil), d.st.Question.Tags...)
	return s
}

// Load fetches the question, then its answers in the current order.
func (d *QuestionDetail) Load(ctx context.Context) error {
	d.mu.Lock()
	sort := d.st.Sort
	d.st.Loading = true
	ctx, gen := d.f.begin(ctx)
	d.mu.Unlock()

	q, err := d.questions.Get(ctx, d.id)
	var page model.Page[model.Answer]
	if err == nil {
		page, err = d.answers.List(ctx, model.AnswerFilters{QuestionID: d.id, SortBy: sort})
	}

	d.mu.Lock()
	if !d.f.end(gen) {
		d.mu.Unlock()
		return ErrSuperseded
	}
	d.st.Loading = false
	d.st.Err = err
	if err == nil {
		d.st.Question, d.st.Answers, d.st.Loaded = q, page.Results, true
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Warn("question load failed", zap.Error(err))
		d.notify.Notify(failure("Error", "Failed to load question."))
		return err
	}
	return nil
}

// SetSort reorders the answers; an unchanged order on a loaded page does nothing.
func (d *QuestionDetail) SetSort(ctx context.Context, sort model.AnswerSort) error {
	d.mu.Lock()
	same := d.st.Sort == sort && d.st.Loaded
	d.st.Sort = sort
	d.mu.Unlock()
	if same {
		return nil
	}
	return d.Load(ctx)
}

// VoteQuestion votes on the question and stores the updated question.
// Anonymous users get a notice and errs.ErrAuthRequired without anything
// being sent.
func (d *QuestionDetail) VoteQuestion(ctx context.Context, vt model.VoteType) error {
	if _, ok := d.who.CurrentUser(); !ok {
		d.notify.Notify(noticeVoteAuth)
		return errs.ErrAuthRequired
	}
	q, err := d.questions.Vote(ctx, d.id, vt)
	if err != nil {
		d.log.Info("question vote rejected", zap.Error(err))
		d.notify.Notify(noticeVoteFailed)
		return err
	}
	d.mu.Lock()
	d.st.Question = q
	d.mu.Unlock()
	d.notify.Notify(success("Vote recorded", "Your "+string(vt)+" has been recorded"))
	return nil
}

// VoteAnswer votes on one of the answers, with the same rules as VoteQuestion.
func (d *QuestionDetail) VoteAnswer(ctx context.Context, answerID model.ID, vt model.VoteType) error {
	if _, ok := d.who.CurrentUser(); !ok {
		d.notify.Notify(noticeVoteAuth)
		return errs.ErrAuthRequired
	}
	a, err := d.answers.Vote(ctx, answerID, vt)
	if err != nil {
		d.log.Info("answer vote rejected", zap.String("answer_id", answerID.String()), zap.Error(err))
		d.notify.Notify(noticeVoteFailed)
		return err
	}
	d.mu.Lock()
	d.st.Answers = model.ReplaceAnswer(d.st.Answers, a)
	d.mu.Unlock()
	d.notify.Notify(success("Vote recorded", "Your "+string(vt)+" has been recorded"))
	return nil
}

// Accept marks an answer as the accepted one. Only the question author may
// do so; every other answer loses the flag locally.
func (d *QuestionDetail) Accept(ctx context.Context, answerID model.ID) error {
	d.mu.Lock()
	author := d.st.Question.Author.ID
	d.mu.Unlock()
	if !isAuthor(d.who, author) {
		d.notify.Notify(noticeAcceptDeny)
		return errs.ErrPermissionDenied
	}
	a, err := d.answers.Accept(ctx, answerID)
	if err != nil {
		d.log.Warn("accept failed", zap.String("answer_id", answerID.String()), zap.Error(err))
		d.notify.Notify(failure("Failed to accept answer", "An error occurred while accepting the answer"))
		return err
	}
	d.mu.Lock()
	d.st.Answers = model.ReplaceAnswer(model.AcceptAnswer(d.st.Answers, answerID), a)
	d.mu.Unlock()
	d.notify.Notify(success("Answer accepted", "You have marked this answer as accepted"))
	return nil
}

// PostAnswer adds an answer and appends it to the list.
func (d *QuestionDetail) PostAnswer(ctx context.Context, content string) (model.Answer, error) {
	if _, ok := d.who.CurrentUser(); !ok {
		d.notify.Notify(noticeAnswerAuth)
		return model.Answer{}, errs.ErrAuthRequired
	}
	if strings.TrimSpace(content) == "" {
		d.notify.Notify(failure("Empty answer", "Your answer cannot be empty"))
		return model.Answer{}, errs.Invalid("answer content is required")
	}
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return model.Answer{}, errs.Invalid("an answer is already being posted")
	}
	d.busy = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	a, err := d.answers.Create(ctx, model.AnswerCreate{QuestionID: d.id, Content: content})
	if err != nil {
		d.log.Warn("post answer failed", zap.Error(err))
		d.notify.Notify(failure("Failed to post answer", "An error occurred while posting your answer"))
		return model.Answer{}, err
	}
	d.mu.Lock()
	d.st.Answers = append(d.st.Answers, a)
	d.st.Question.AnswerCount++
	d.mu.Unlock()
	d.notify.Notify(success("Answer posted", "Your answer has been posted successfully"))
	return a, nil
}

// EditQuestion updates the question; only its author may.
func (d *QuestionDetail) EditQuestion(ctx context.Context, in model.QuestionUpdate) error {
	d.mu.Lock()
	author := d.st.Question.Author.ID
	d.mu.Unlock()
	if !isAuthor(d.who, author) {
		d.notify.Notify(noticeOwnerDeny)
		return errs.ErrPermissionDenied
	}
	q, err := d.questions.Update(ctx, d.id, in)
	if err != nil {
		d.notify.Notify(failure("Update failed", "Failed to update the question"))
		return err
	}
	d.mu.Lock()
	d.st.Question = q
	d.mu.Unlock()
	return nil
}

// EditAnswer updates one of the answers; only its author may.
func (d *QuestionDetail) EditAnswer(ctx context.Context, answerID model.ID, content string) error {
	if !isAuthor(d.who, d.answerAuthor(answerID)) {
		d.notify.Notify(noticeOwnerDeny)
		return errs.ErrPermissionDenied
	}
	a, err := d.answers.Update(ctx, answerID, model.AnswerUpdate{Content: &content})
	if err != nil {
		d.notify.Notify(failure("Update failed", "Failed to update the answer"))
		return err
	}
	d.mu.Lock()
	d.st.Answers = model.ReplaceAnswer(d.st.Answers, a)
	d.mu.Unlock()
	return nil
}

// DeleteAnswer deletes one of the answers and drops it from the list.
func (d *QuestionDetail) DeleteAnswer(ctx context.Context, answerID model.ID) error {
	if !isAuthor(d.who, d.answerAuthor(answerID)) {
		d.notify.Notify(noticeOwnerDeny)
		return errs.ErrPermissionDenied
	}
	if err := d.answers.Delete(ctx, answerID); err != nil {
		d.notify.Notify(failure("Delete failed", "Failed to delete the answer"))
		return err
	}
	d.mu.Lock()
	d.st.Answers = model.RemoveAnswer(d.st.Answers, answerID)
	if d.st.Question.AnswerCount > 0 {
		d.st.Question.AnswerCount--
	}
	d.mu.Unlock()
	return nil
}

// DeleteQuestion deletes the question. The page is marked deleted so callers
// can navigate away.
func (d *QuestionDetail) DeleteQuestion(ctx context.Context) error {
	d.mu.Lock()
	author := d.st.Question.Author.ID
	d.mu.Unlock()
	if !isAuthor(d.who, author) {
		d.notify.Notify(noticeOwnerDeny)
		return errs.ErrPermissionDenied
	}
	if err := d.questions.Delete(ctx, d.id); err != nil {
		d.notify.Notify(failure("Delete failed", "Failed to delete the question"))
		return err
	}
	d.mu.Lock()
	d.st.Deleted = true
	d.st.Answers = nil
	d.mu.Unlock()
	return nil
}

// Close cancels any in-flight load.
func (d *QuestionDetail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.f.stop()
	d.st.Loading = false
}

func (d *QuestionDetail) answerAuthor(id model.ID) model.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.st.Answers {
		if a.ID == id {
			return a.Author.ID
		}
	}
	return ""
}
