// Package view holds the state behind each screen: lists with their paging,
// sort and search controls, the question detail page, the ask form and user
// profiles. Every load is tied to the view's latest inputs; a newer load
// cancels the older one and the older result is discarded.
package view

import (
	"github.com/and161185/stackclone/internal/guard"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/session"
)

// Identity reports the signed-in user.
type Identity interface {
	CurrentUser() (model.User, bool)
}

var _ Identity = (*session.Controller)(nil)

// Anonymous is an Identity with nobody signed in.
var Anonymous Identity = anonymous{}

type anonymous struct{}

func (anonymous) CurrentUser() (model.User, bool) { return model.User{}, false }

// MyProfilePath resolves /users/me to the signed-in user's profile, or to the
// login entry point.
func MyProfilePath(who Identity) string {
	if u, ok := who.CurrentUser(); ok {
		return "/users/" + u.ID.String()
	}
	return guard.DefaultLoginPath
}

func isAuthor(who Identity, author model.ID) bool {
	u, ok := who.CurrentUser()
	return ok && u.ID != "" && u.ID == author
}
