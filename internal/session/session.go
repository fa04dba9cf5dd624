// Package session holds the signed-in identity for the lifetime of a client
// process. A Controller is constructed explicitly and passed to the views
// that need identity-gated behavior.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/localstore"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/service"
	"go.uber.org/zap"
)

// State is the resolution state of a session.
type State int

const (
	// Unresolved is the initial state, before Bootstrap has finished.
	Unresolved State = iota
	// Authenticated means a user is loaded.
	Authenticated
	// Anonymous means there is no usable token.
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

// Snapshot is a consistent copy of the session fields.
type Snapshot struct {
	State   State
	User    model.User
	Loading bool
}

// SignedIn reports whether the snapshot carries a user.
func (s Snapshot) SignedIn() bool { return s.State == Authenticated }

// Credentials is the persisted token and user the controller manages.
type Credentials interface {
	Token() string
	TokenExpiry() (time.Time, bool)
	Save(token string, u model.User) error
	SaveUser(u model.User) error
	Clear() error
}

var _ Credentials = (*localstore.Credentials)(nil)

// Controller implements bootstrap, login, signup and logout over an
// AuthService. Fields are mutex-guarded; operations themselves are not
// serialized, so a logout overlapping an in-flight login may be overwritten
// by the login's completion.
type Controller struct {
	auth  service.AuthService
	creds Credentials
	log   *zap.Logger
	now   func() time.Time

	once sync.Once

	mu      sync.Mutex
	state   State
	user    model.User
	loading bool
	subs    []func(Snapshot)
}

// New constructs a Controller in the Unresolved state.
func New(auth service.AuthService, creds Credentials, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{auth: auth, creds: creds, log: log, now: time.Now}
}

// Subscribe registers fn to receive a snapshot after every change.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns the current fields.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current resolution state.
func (c *Controller) State() State { return c.Snapshot().State }

// CurrentUser returns the signed-in user, if any.
func (c *Controller) CurrentUser() (model.User, bool) {
	s := c.Snapshot()
	return s.User, s.SignedIn()
}

// Loading reports whether an auth operation is in flight.
func (c *Controller) Loading() bool { return c.Snapshot().Loading }

// Bootstrap resolves the stored token once. Later calls return the current
// snapshot without doing anything.
func (c *Controller) Bootstrap(ctx context.Context) Snapshot {
	c.once.Do(func() { c.bootstrap(ctx) })
	return c.Snapshot()
}

func (c *Controller) bootstrap(ctx context.Context) {
	if c.creds.Token() == "" {
		c.set(Anonymous, model.User{})
		return
	}
	if exp, ok := c.creds.TokenExpiry(); ok && !exp.After(c.now()) {
		c.log.Info("stored token expired", zap.Time("exp", exp))
		c.clear()
		c.set(Anonymous, model.User{})
		return
	}

	c.setLoading(true)
	u, err := c.auth.CurrentUser(ctx)
	if err != nil {
		c.log.Info("session restore failed", zap.Error(err))
		c.clear()
		c.set(Anonymous, model.User{})
		return
	}
	if err := c.creds.SaveUser(u); err != nil {
		c.log.Warn("persist user", zap.Error(err))
	}
	c.set(Authenticated, u)
}

// Login signs in and persists the token. On failure the state is left as it was.
func (c *Controller) Login(ctx context.Context, email, password string) (model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.User{}, errs.Invalid("email and password are required")
	}
	c.setLoading(true)
	defer c.setLoading(false)

	res, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	return c.signIn(res)
}

// Signup registers an account and signs it in. Unequal passwords fail before
// anything is sent.
func (c *Controller) Signup(ctx context.Context, email, password, confirm, username string) (model.User, error) {
	if password != confirm {
		return model.User{}, errs.ErrPasswordMismatch
	}
	c.setLoading(true)
	defer c.setLoading(false)

	res, err := c.auth.Register(ctx, model.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: confirm,
	})
	if err != nil {
		return model.User{}, err
	}
	if password != confirm {
		return model.User{}, errs.ErrPasswordMismatch
	}
	return c.signIn(res)
}

func (c *Controller) signIn(res model.AuthResponse) (model.User, error) {
	if err := c.creds.Save(res.Token, res.User); err != nil {
		return model.User{}, fmt.Errorf("persist credentials: %w", err)
	}
	c.set(Authenticated, res.User)
	c.log.Debug("signed in", zap.String("user_id", res.User.ID.String()))
	return res.User, nil
}

// Logout calls the remote logout, then clears local credentials whatever its
// outcome. A remote failure is returned wrapped in errs.ErrRemoteLogout; the
// session is anonymous either way.
func (c *Controller) Logout(ctx context.Context) error {
	c.setLoading(true)
	remote := c.auth.Logout(ctx)
	c.clear()
	c.set(Anonymous, model.User{})
	if remote != nil {
		c.log.Warn("remote logout failed", zap.Error(remote))
		return fmt.Errorf("%w: %w", errs.ErrRemoteLogout, remote)
	}
	return nil
}

// Expire drops the session after the API rejected the token. It is meant to
// be registered with apiclient.Client.OnUnauthorized.
func (c *Controller) Expire() {
	c.clear()
	c.set(Anonymous, model.User{})
}

// Refresh replaces the cached user after a profile edit.
func (c *Controller) Refresh(u model.User) {
	c.mu.Lock()
	if c.state != Authenticated || c.user.ID != u.ID {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	if err := c.creds.SaveUser(u); err != nil {
		c.log.Warn("persist user", zap.Error(err))
	}
	c.set(Authenticated, u)
}

func (c *Controller) clear() {
	if err := c.creds.Clear(); err != nil {
		c.log.Warn("clear credentials", zap.Error(err))
	}
}

func (c *Controller) set(st State, u model.User) {
	c.mu.Lock()
	c.state, c.user, c.loading = st, u, false
	snap, subs := c.snapshotLocked(), c.subs
	c.mu.Unlock()
	notify(subs, snap)
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	if c.loading == v {
		c.mu.Unlock()
		return
	}
	c.loading = v
	snap, subs := c.snapshotLocked(), c.subs
	c.mu.Unlock()
	notify(subs, snap)
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, User: c.user, Loading: c.loading}
}

func notify(subs []func(Snapshot), s Snapshot) {
	for _, fn := range subs {
		fn(s)
	}
}
