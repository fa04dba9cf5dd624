package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/and161185/stackclone/internal/apiclient"
	"github.com/and161185/stackclone/internal/config"
	"github.com/and161185/stackclone/internal/guard"
	"github.com/and161185/stackclone/internal/localstore"
	"github.com/and161185/stackclone/internal/service"
	"github.com/and161185/stackclone/internal/session"
	"github.com/and161185/stackclone/internal/view"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// app is the wiring shared by all commands.
type app struct {
	out, errOut io.Writer
	asJSON      bool
	apiURL      string

	cfg     config.Config
	log     *zap.Logger
	jar     *localstore.Jar
	creds   *localstore.Credentials
	svc     service.Services
	session *session.Controller
	guard   guard.Guard
	notify  view.Notifier
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	a.cfg = cfg
	if a.log, err = cfg.Logger(); err != nil {
		return err
	}

	store, err := localstore.OpenFile(cfg.StoragePath())
	if err != nil {
		return err
	}
	if a.jar, err = localstore.OpenJar(cfg.CookiePath()); err != nil {
		return err
	}
	a.creds = localstore.NewCredentials(store, a.jar, cfg.App())

	client, err := apiclient.New(cfg.APIURL, a.creds,
		apiclient.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		apiclient.WithAuthScheme(cfg.AuthScheme),
		apiclient.WithLogger(a.log),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(path string) {
			fmt.Fprintf(a.errOut, "Session expired. Log in again (%s).\n", path)
		})),
	)
	if err != nil {
		return err
	}
	a.svc = service.New(client, a.log)
	a.session = session.New(a.svc.Auth, a.creds, a.log)
	client.OnUnauthorized(a.session.Expire)
	a.guard = guard.Default()
	a.notify = view.NotifierFunc(func(n view.Notice) {
		if n.Variant == view.VariantDestructive {
			fmt.Fprintf(a.errOut, "%s: %s\n", n.Title, n.Description)
			return
		}
		fmt.Fprintf(a.errOut, "%s. %s\n", n.Title, n.Description)
	})
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// ctx bounds a command's work.
func (a *app) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

// boot resolves the stored session.
func (a *app) boot(ctx context.Context) session.Snapshot {
	return a.session.Bootstrap(ctx)
}

// gate applies the route guard to a protected screen.
func (a *app) gate(path string) error {
	d := a.guard.Check(path, guard.FromJar(a.jar, a.cfg.App()))
	if !d.Allowed {
		return fmt.Errorf("login required: run `so login` (redirect %s)", d.Redirect)
	}
	return nil
}

// emit prints v as JSON when --json is set, else calls text.
func (a *app) emit(v any, text func(w io.Writer)) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}
