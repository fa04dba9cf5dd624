package view

import (
	"context"
	"sync"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileState is a copy of a UserProfile's fields.
type ProfileState struct {
	User       model.User
	Questions  model.Page[model.Question]
	Answers    model.Page[model.Answer]
	Tags       []model.Tag
	Reputation model.Page[model.ReputationEntry]
	Loaded     bool
	Loading    bool
	Err        error
}

// UserProfile is a user page with the user's activity.
type UserProfile struct {
	id     model.ID
	users  service.UserService
	who    Identity
	notify Notifier
	log    *zap.Logger
	f      fetcher

	mu sync.Mutex
	st ProfileState
}

// NewUserProfile constructs the page for user id.
func NewUserProfile(id model.ID, us service.UserService, who Identity, n Notifier, log *zap.Logger) *UserProfile {
	if n == nil {
		n = nopNotifier
	}
	if log == nil {
		log = zap.NewNop()
	}
	if who == nil {
		who = Anonymous
	}
	return &UserProfile{id: id, users: us, who: who, notify: n, log: log.With(zap.String("user_id", id.String()))}
}

// Load fetches the profile and the first page of each activity list
// concurrently. Any failure fails the whole load.
func (p *UserProfile) Load(ctx context.Context) error {
	p.mu.Lock()
	p.st.Loading = true
	ctx, gen := p.f.begin(ctx)
	p.mu.Unlock()

	var next ProfileState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.User, err = p.users.Get(gctx, p.id)
		return err
	})
	g.Go(func() (err error) {
		next.Questions, err = p.users.Questions(gctx, p.id, 1)
		return err
	})
	g.Go(func() (err error) {
		next.Answers, err = p.users.Answers(gctx, p.id, 1)
		return err
	})
	g.Go(func() (err error) {
		next.Tags, err = p.users.Tags(gctx, p.id)
		return err
	})
	g.Go(func() (err error) {
		next.Reputation, err = p.users.Reputation(gctx, p.id, 1)
		return err
	})
	err := g.Wait()

	p.mu.Lock()
	if !p.f.end(gen) {
		p.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		p.st.Loading, p.st.Err = false, err
		p.mu.Unlock()
		p.log.Warn("profile load failed", zap.Error(err))
		p.notify.Notify(failure("Error", "Failed to load user profile."))
		return err
	}
	next.Loaded = true
	p.st = next
	p.mu.Unlock()
	return nil
}

// State returns a copy of the page's fields.
func (p *UserProfile) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.st
	s.Tags = append([]model.Tag(nil), p.st.Tags...)
	return s
}

// IsOwner reports whether the signed-in user is the one shown.
func (p *UserProfile) IsOwner() bool { return isAuthor(p.who, p.id) }

// SaveProfile updates the shown profile. Only its owner may; others get
// errs.ErrPermissionDenied without a request.
func (p *UserProfile) SaveProfile(ctx context.Context, in model.ProfileUpdate) (model.User, error) {
	if !p.IsOwner() {
		return model.User{}, errs.ErrPermissionDenied
	}
	u, err := p.users.UpdateProfile(ctx, in)
	if err != nil {
		p.log.Warn("profile update failed", zap.Error(err))
		p.notify.Notify(failure("Update failed", "Failed to update profile. Please try again."))
		return model.User{}, err
	}
	p.mu.Lock()
	p.st.User.DisplayName = u.DisplayName
	p.st.User.Location = u.Location
	p.st.User.About = u.About
	p.st.User.AvatarURL = u.AvatarURL
	p.mu.Unlock()
	p.notify.Notify(success("Profile updated", "Your profile has been updated successfully"))
	return u, nil
}

// Close cancels any in-flight load.
func (p *UserProfile) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.f.stop()
	p.st.Loading = false
}
