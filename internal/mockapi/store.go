package mockapi

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
)

const avatarPath = "/media/avatars/"

// Reputation deltas applied by votes and acceptance.
const (
	repUpvote   = 10
	repDownvote = -2
	repAccepted = 15
)

var (
	errAlreadyVoted = detailError(http.StatusBadRequest, "You have already voted")
	errOwnPost      = detailError(http.StatusForbidden, "You cannot vote on your own post")
)

type userRec struct {
	user   model.User
	pwHash string
}

type voteKey struct {
	kind   string
	target model.ID
	voter  model.ID
}

// Store keeps every record of the development API in memory.
// Ids are sequential per kind and never reused.
type Store struct {
	now func() time.Time

	mu        sync.Mutex
	seq       map[string]int64
	users     map[model.ID]*userRec
	questions map[model.ID]*model.Question
	answers   map[model.ID]*model.Answer
	tags      map[string]*model.Tag // by name
	votes     map[voteKey]model.VoteType
	rep       map[model.ID][]model.ReputationEntry
	revoked   map[string]time.Time // token id -> expiry
	avatars   map[model.ID]avatar
}

type avatar struct {
	name        string
	contentType string
	data        []byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		seq:       map[string]int64{},
		users:     map[model.ID]*userRec{},
		questions: map[model.ID]*model.Question{},
		answers:   map[model.ID]*model.Answer{},
		tags:      map[string]*model.Tag{},
		votes:     map[voteKey]model.VoteType{},
		rep:       map[model.ID][]model.ReputationEntry{},
		revoked:   map[string]time.Time{},
		avatars:   map[model.ID]avatar{},
	}
}

func (s *Store) nextID(kind string) model.ID {
	s.seq[kind]++
	return model.ID(strconv.FormatInt(s.seq[kind], 10))
}

func (s *Store) ts() time.Time { return s.now().UTC().Truncate(time.Second) }

// --- users ---

// CreateUser adds an account. Username and email must be unique.
func (s *Store) CreateUser(username, email, pwHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if strings.EqualFold(r.user.Username, username) {
			return model.User{}, fieldError("username", "A user with that username already exists.")
		}
		if strings.EqualFold(r.user.Email, email) {
			return model.User{}, fieldError("email", "A user with that email already exists.")
		}
	}
	now := s.ts()
	u := model.User{
		ID:          s.nextID("user"),
		Username:    username,
		DisplayName: username,
		Email:       email,
		Reputation:  1,
		MemberSince: now,
		LastSeen:    &now,
	}
	s.users[u.ID] = &userRec{user: u, pwHash: pwHash}
	return s.hydrateUser(u), nil
}

// UserByEmail returns the account and its password hash.
func (s *Store) UserByEmail(email string) (model.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if strings.EqualFold(r.user.Email, email) {
			return s.hydrateUser(r.user), r.pwHash, true
		}
	}
	return model.User{}, "", false
}

// User returns a user by id.
func (s *Store) User(id model.ID) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return s.hydrateUser(r.user), true
}

// Touch records activity for the user.
func (s *Store) Touch(id model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.users[id]; ok {
		now := s.ts()
		r.user.LastSeen = &now
	}
}

type profilePatch struct {
	DisplayName *string
	Location    *string
	About       *string
	AvatarURL   *string
}

// UpdateProfile applies the set fields of p to user id.
func (s *Store) UpdateProfile(id model.ID, p profilePatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	if p.DisplayName != nil {
		r.user.DisplayName = *p.DisplayName
	}
	if p.Location != nil {
		r.user.Location = *p.Location
	}
	if p.About != nil {
		r.user.About = *p.About
	}
	if p.AvatarURL != nil {
		r.user.AvatarURL = *p.AvatarURL
	}
	return s.hydrateUser(r.user), nil
}

// SetAvatar stores the user's avatar image and returns its public path.
func (s *Store) SetAvatar(id model.ID, name, contentType string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatars[id] = avatar{name: name, contentType: contentType, data: data}
	return avatarPath + url.PathEscape(id.String()) + "/" + url.PathEscape(name)
}

// Avatar returns the stored avatar image of a user.
func (s *Store) Avatar(id model.ID) (avatar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.avatars[id]
	return a, ok
}

type userQuery struct {
	search string
	sortBy model.UserSort
}

// Users lists users matching q.
func (s *Store) Users(q userQuery) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	needle := strings.ToLower(q.search)
	for _, r := range s.users {
		u := r.user
		if needle != "" && !strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.DisplayName), needle) {
			continue
		}
		out = append(out, s.hydrateUser(u))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.sortBy {
		case model.UsersNewest:
			if !a.MemberSince.Equal(b.MemberSince) {
				return a.MemberSince.After(b.MemberSince)
			}
			return idLess(b.ID, a.ID)
		case model.UsersName:
			return strings.ToLower(a.Username) < strings.ToLower(b.Username)
		default:
			if a.Reputation != b.Reputation {
				return a.Reputation > b.Reputation
			}
			return idLess(a.ID, b.ID)
		}
	})
	return out
}

// UserTags returns the tags a user asked about, counted per user.
func (s *Store) UserTags(id model.ID) ([]model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return nil, false
	}
	return s.userTags(id), true
}

// Reputation returns the user's reputation history, newest first.
func (s *Store) Reputation(id model.ID) ([]model.ReputationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return nil, false
	}
	hist := s.rep[id]
	out := make([]model.ReputationEntry, len(hist))
	for i := range hist {
		out[i] = hist[len(hist)-1-i]
	}
	return out, true
}

func (s *Store) userTags(id model.ID) []model.Tag {
	counts := map[string]int{}
	for _, q := range s.questions {
		if q.Author.ID != id {
			continue
		}
		for _, t := range q.Tags {
			counts[t.Name]++
		}
	}
	out := make([]model.Tag, 0, len(counts))
	for name, n := range counts {
		t := *s.tags[name]
		t.Count = n
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Store) hydrateUser(u model.User) model.User {
	top := s.userTags(u.ID)
	if len(top) > 3 {
		top = top[:3]
	}
	u.TopTags = nil
	for _, t := range top {
		u.TopTags = append(u.TopTags, t.Ref())
	}
	return u
}

func (s *Store) summary(id model.ID) model.UserSummary {
	if r, ok := s.users[id]; ok {
		return r.user.Summary()
	}
	return model.UserSummary{ID: id}
}

func (s *Store) addRep(id model.ID, amount int, reason string) {
	r, ok := s.users[id]
	if !ok || amount == 0 {
		return
	}
	r.user.Reputation += amount
	if r.user.Reputation < 1 {
		r.user.Reputation = 1
	}
	s.rep[id] = append(s.rep[id], model.ReputationEntry{
		ID:        s.nextID("rep"),
		Amount:    amount,
		Reason:    reason,
		CreatedAt: s.ts(),
	})
}

// --- questions ---

type questionQuery struct {
	search string
	tags   []string
	author string
	sortBy model.QuestionSort
}

// Questions lists questions matching q.
func (s *Store) Questions(q questionQuery) []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(q.search))
	var out []model.Question
	for _, rec := range s.questions {
		if needle != "" && !strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.Content), needle) {
			continue
		}
		if !hasAllTags(*rec, q.tags) || !s.byAuthor(rec.Author.ID, q.author) {
			continue
		}
		if q.sortBy == model.QuestionsUnanswered && rec.AnswerCount > 0 {
			continue
		}
		out = append(out, s.hydrateQuestion(*rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.sortBy {
		case model.QuestionsVotes:
			if a.VoteCount != b.VoteCount {
				return a.VoteCount > b.VoteCount
			}
		case model.QuestionsActive:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		}
		return idLess(b.ID, a.ID)
	})
	return out
}

// Question returns a question; view increments its view count.
func (s *Store) Question(id model.ID, view bool) (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.questions[id]
	if !ok {
		return model.Question{}, false
	}
	if view {
		rec.ViewCount++
	}
	return s.hydrateQuestion(*rec), true
}

// CreateQuestion stores a question, creating unknown tags.
func (s *Store) CreateQuestion(author model.ID, title, content string, tags []string) model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.ts()
	q := &model.Question{
		ID:        s.nextID("question"),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      s.tagRefs(tags),
		Author:    model.UserSummary{ID: author},
	}
	s.questions[q.ID] = q
	return s.hydrateQuestion(*q)
}

type questionPatch struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// UpdateQuestion applies p when actor owns the question.
func (s *Store) UpdateQuestion(id, actor model.ID, p questionPatch) (model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return model.Question{}, errs.ErrNotFound
	}
	if q.Author.ID != actor {
		return model.Question{}, errs.ErrForbidden
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Content != nil {
		q.Content = *p.Content
	}
	if p.Tags != nil {
		q.Tags = s.tagRefs(*p.Tags)
	}
	q.UpdatedAt = s.ts()
	return s.hydrateQuestion(*q), nil
}

// DeleteQuestion removes the question and its answers when actor owns it.
func (s *Store) DeleteQuestion(id, actor model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return errs.ErrNotFound
	}
	if q.Author.ID != actor {
		return errs.ErrForbidden
	}
	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) hydrateQuestion(q model.Question) model.Question {
	q.Author = s.summary(q.Author.ID)
	q.Tags = append([]model.TagRef(nil), q.Tags...)
	return q
}

func (s *Store) byAuthor(id model.ID, author string) bool {
	if author == "" {
		return true
	}
	if id.String() == author {
		return true
	}
	r, ok := s.users[id]
	return ok && strings.EqualFold(r.user.Username, author)
}

func hasAllTags(q model.Question, want []string) bool {
	for _, w := range want {
		w = normalizeTag(w)
		found := false
		for _, t := range q.Tags {
			if t.Name == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// --- answers ---

type answerQuery struct {
	questionID model.ID
	author     string
	sortBy     model.AnswerSort
}

// Answers lists answers matching q. Accepted answers sort first under votes.
func (s *Store) Answers(q answerQuery) []model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Answer
	for _, a := range s.answers {
		if q.questionID != "" && a.QuestionID != q.questionID {
			continue
		}
		if !s.byAuthor(a.Author.ID, q.author) {
			continue
		}
		out = append(out, s.hydrateAnswer(*a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.sortBy {
		case model.AnswersNewest:
			return idLess(b.ID, a.ID)
		case model.AnswersOldest:
			return idLess(a.ID, b.ID)
		default:
			if a.IsAccepted != b.IsAccepted {
				return a.IsAccepted
			}
			if a.VoteCount != b.VoteCount {
				return a.VoteCount > b.VoteCount
			}
			return idLess(a.ID, b.ID)
		}
	})
	return out
}

// Answer returns an answer by id.
func (s *Store) Answer(id model.ID) (model.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[id]
	if !ok {
		return model.Answer{}, false
	}
	return s.hydrateAnswer(*a), true
}

// CreateAnswer adds an answer to an existing question.
func (s *Store) CreateAnswer(author, questionID model.ID, content string) (model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[questionID]
	if !ok {
		return model.Answer{}, fieldError("question_id", "Invalid pk - object does not exist.")
	}
	now := s.ts()
	a := &model.Answer{
		ID:         s.nextID("answer"),
		QuestionID: questionID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
		Author:     model.UserSummary{ID: author},
	}
	s.answers[a.ID] = a
	q.AnswerCount++
	q.UpdatedAt = now
	return s.hydrateAnswer(*a), nil
}

// UpdateAnswer replaces the content when actor owns the answer.
func (s *Store) UpdateAnswer(id, actor model.ID, content *string) (model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[id]
	if !ok {
		return model.Answer{}, errs.ErrNotFound
	}
	if a.Author.ID != actor {
		return model.Answer{}, errs.ErrForbidden
	}
	if content != nil {
		a.Content = *content
	}
	a.UpdatedAt = s.ts()
	return s.hydrateAnswer(*a), nil
}

// DeleteAnswer removes the answer when actor owns it.
func (s *Store) DeleteAnswer(id, actor model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[id]
	if !ok {
		return errs.ErrNotFound
	}
	if a.Author.ID != actor {
		return errs.ErrForbidden
	}
	if q, ok := s.questions[a.QuestionID]; ok && q.AnswerCount > 0 {
		q.AnswerCount--
	}
	delete(s.answers, id)
	return nil
}

// Accept marks the answer accepted and clears its siblings. Only the
// question author may accept.
func (s *Store) Accept(id, actor model.ID) (model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[id]
	if !ok {
		return model.Answer{}, errs.ErrNotFound
	}
	q, ok := s.questions[a.QuestionID]
	if !ok {
		return model.Answer{}, errs.ErrNotFound
	}
	if q.Author.ID != actor {
		return model.Answer{}, errs.ErrForbidden
	}
	if !a.IsAccepted {
		for _, sib := range s.answers {
			if sib.QuestionID == q.ID && sib.IsAccepted {
				sib.IsAccepted = false
				s.addRep(sib.Author.ID, -repAccepted, "accepted answer revoked")
			}
		}
		a.IsAccepted = true
		if a.Author.ID != actor {
			s.addRep(a.Author.ID, repAccepted, "answer accepted")
		}
	}
	return s.hydrateAnswer(*a), nil
}

func (s *Store) hydrateAnswer(a model.Answer) model.Answer {
	a.Author = s.summary(a.Author.ID)
	return a
}

// --- votes ---

// Vote records voter's vote on a question or answer and returns the new
// score. Repeating the same vote fails; the opposite vote switches it.
func (s *Store) Vote(kind string, target, voter model.ID, vt model.VoteType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		author model.ID
		count  *int
	)
	switch kind {
	case "question":
		q, ok := s.questions[target]
		if !ok {
			return 0, errs.ErrNotFound
		}
		author, count = q.Author.ID, &q.VoteCount
	case "answer":
		a, ok := s.answers[target]
		if !ok {
			return 0, errs.ErrNotFound
		}
		author, count = a.Author.ID, &a.VoteCount
	default:
		return 0, errs.ErrNotFound
	}
	if author == voter {
		return 0, errOwnPost
	}
	k := voteKey{kind: kind, target: target, voter: voter}
	prev, voted := s.votes[k]
	if voted && prev == vt {
		return 0, errAlreadyVoted
	}
	if voted {
		*count -= voteValue(prev)
		s.addRep(author, -voteRep(prev), kind+" vote changed")
	}
	*count += voteValue(vt)
	s.addRep(author, voteRep(vt), kind+" "+string(vt)+"d")
	s.votes[k] = vt
	return *count, nil
}

func voteValue(vt model.VoteType) int {
	if vt == model.Downvote {
		return -1
	}
	return 1
}

func voteRep(vt model.VoteType) int {
	if vt == model.Downvote {
		return repDownvote
	}
	return repUpvote
}

// --- tags ---

type tagQuery struct {
	search string
	sortBy model.TagSort
}

// Tags lists tags with their current question counts.
func (s *Store) Tags(q tagQuery) []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(q.search))
	out := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		if needle != "" && !strings.Contains(t.Name, needle) {
			continue
		}
		out = append(out, s.hydrateTag(*t))
	}
	sortTags(out, q.sortBy)
	return out
}

// SearchTags returns up to limit tags whose name contains q, prefix matches first.
func (s *Store) SearchTags(q string, limit int) []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := normalizeTag(q)
	var prefix, rest []model.Tag
	for _, t := range s.tags {
		switch {
		case strings.HasPrefix(t.Name, needle):
			prefix = append(prefix, s.hydrateTag(*t))
		case strings.Contains(t.Name, needle):
			rest = append(rest, s.hydrateTag(*t))
		}
	}
	sortTags(prefix, model.TagsPopular)
	sortTags(rest, model.TagsPopular)
	out := append(prefix, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Tag returns a tag by id.
func (s *Store) Tag(id model.ID) (model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tags {
		if t.ID == id {
			return s.hydrateTag(*t), true
		}
	}
	return model.Tag{}, false
}

// TagByName returns a tag by its normalized name.
func (s *Store) TagByName(name string) (model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[normalizeTag(name)]
	if !ok {
		return model.Tag{}, false
	}
	return s.hydrateTag(*t), true
}

// DescribeTag sets a tag's description, creating the tag if needed.
func (s *Store) DescribeTag(name, description string) model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := s.tagRefs([]string{name})[0]
	t := s.tags[ref.Name]
	t.Description = description
	return s.hydrateTag(*t)
}

func (s *Store) tagRefs(names []string) []model.TagRef {
	out := make([]model.TagRef, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = normalizeTag(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		t, ok := s.tags[n]
		if !ok {
			t = &model.Tag{ID: s.nextID("tag"), Name: n}
			s.tags[n] = t
		}
		out = append(out, t.Ref())
	}
	return out
}

func (s *Store) hydrateTag(t model.Tag) model.Tag {
	t.Count = 0
	for _, q := range s.questions {
		for _, r := range q.Tags {
			if r.Name == t.Name {
				t.Count++
				break
			}
		}
	}
	return t
}

func sortTags(tags []model.Tag, by model.TagSort) {
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		switch by {
		case model.TagsName:
			return a.Name < b.Name
		case model.TagsNewest:
			return idLess(b.ID, a.ID)
		default:
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return a.Name < b.Name
		}
	})
}

func normalizeTag(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// --- tokens ---

// Revoke invalidates a token id until its expiry.
func (s *Store) Revoke(jti string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, until := range s.revoked {
		if until.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = exp
}

// Revoked reports whether the token id was logged out.
func (s *Store) Revoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

// idLess orders sequential ids numerically.
func idLess(a, b model.ID) bool {
	x, errA := strconv.ParseInt(a.String(), 10, 64)
	y, errB := strconv.ParseInt(b.String(), 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return x < y
}
