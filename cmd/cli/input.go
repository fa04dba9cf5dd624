package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/view"
)

// userError shows the server's message while keeping the cause for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// describe turns err into something fit for a terminal.
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrAuthRequired):
		return &userError{msg: "login required: run `so login`", err: err}
	case errors.Is(err, errs.ErrPermissionDenied):
		return &userError{msg: "permission denied", err: err}
	case errors.Is(err, errs.ErrTransport):
		return &userError{msg: "cannot reach the API: " + err.Error(), err: err}
	}
	if msg := errs.Message(err); msg != "" {
		return &userError{msg: msg, err: err}
	}
	return err
}

// readBody resolves a post body flag: "-" reads in, "@path" reads a file,
// anything else is used as is.
func readBody(in io.Reader, v string) (string, error) {
	switch {
	case v == "-":
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case strings.HasPrefix(v, "@"):
		b, err := os.ReadFile(v[1:])
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return string(b), nil
	}
	return v, nil
}

func parseVote(s string) (model.VoteType, error) {
	switch strings.ToLower(s) {
	case "up", "upvote", "+":
		return model.Upvote, nil
	case "down", "downvote", "-":
		return model.Downvote, nil
	}
	return "", fmt.Errorf("unknown vote %q: want up or down", s)
}

// applyQuery loads l once with the flag values.
func applyQuery[T any](ctx context.Context, l *view.List[T], page int, sort, search, tag string) error {
	return l.SetQuery(ctx, view.Query{Page: page, Sort: sort, Search: search, Tag: tag})
}
