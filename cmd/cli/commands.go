package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/and161185/stackclone/internal/model"
	"github.com/and161185/stackclone/internal/view"
	"github.com/spf13/cobra"
)

// ---- auth ----

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			u, err := a.session.Login(ctx, email, password)
			if err != nil {
				return describe(err)
			}
			return a.emit(u, func(w io.Writer) { fmt.Fprintf(w, "Logged in as %s.\n", u.Username) })
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func signupCmd(a *app) *cobra.Command {
	var username, email, password, confirm string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			u, err := a.session.Signup(ctx, email, password, confirm, username)
			if err != nil {
				return describe(err)
			}
			return a.emit(u, func(w io.Writer) { fmt.Fprintf(w, "Welcome, %s.\n", u.Username) })
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "public username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password again")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			err := a.session.Logout(ctx)
			fmt.Fprintln(a.out, "Logged out.")
			if errors.Is(err, errs.ErrRemoteLogout) {
				fmt.Fprintf(a.errOut, "warning: %v\n", err)
				return nil
			}
			return err
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			snap := a.boot(ctx)
			if !snap.SignedIn() {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			return a.emit(snap.User, func(w io.Writer) { printUser(w, snap.User) })
		},
	}
}

// ---- questions ----

func questionsCmd(a *app) *cobra.Command {
	var (
		page              int
		sort, search, tag string
	)
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"qs"},
		Short:   "List questions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			l := view.NewQuestionList(a.svc.Questions, a.notify, a.log)
			defer l.Close()
			if err := applyQuery(ctx, l, page, sort, search, tag); err != nil {
				return describe(err)
			}
			st := l.State()
			return a.emit(st.Items, func(w io.Writer) {
				if len(st.Items) == 0 {
					fmt.Fprintln(w, "No questions found.")
					return
				}
				for _, q := range st.Items {
					printQuestionRow(w, q)
				}
				printPageFooter(w, st.Query.Page, st.Count, st.PageSize)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&sort, "sort", string(model.QuestionsNewest), "newest|active|votes|unanswered")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only questions with this tag")
	return cmd
}

func questionCmd(a *app) *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:   "question <id>",
		Short: "Show a question with its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			d := view.NewQuestionDetail(model.ID(args[0]), a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
			defer d.Close()
			if err := d.SetSort(ctx, model.AnswerSort(sort)); err != nil {
				return describe(err)
			}
			st := d.State()
			return a.emit(st, func(w io.Writer) { printQuestion(w, st.Question, st.Answers) })
		},
	}
	cmd.Flags().StringVar(&sort, "sort", string(model.AnswersVotes), "answer order: votes|newest|oldest")
	return cmd
}

func askCmd(a *app) *cobra.Command {
	var (
		title, body string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask a question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.gate("/questions/ask"); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			content, err := readBody(cmd.InOrStdin(), body)
			if err != nil {
				return err
			}
			f := view.NewAskQuestion(a.svc.Questions, a.svc.Tags, a.session, a.notify, a.log)
			for _, t := range tags {
				if !f.AddTag(t) {
					fmt.Fprintf(a.errOut, "skipping tag %q\n", t)
				}
			}
			id, err := f.Submit(ctx, title, content)
			if err != nil {
				return describe(err)
			}
			return a.emit(map[string]model.ID{"id": id}, func(w io.Writer) { fmt.Fprintf(w, "Posted question %s.\n", id) })
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "question title")
	cmd.Flags().StringVar(&body, "body", "", "question body as HTML, @file or - for stdin")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable, at most 5)")
	return cmd
}

func answerCmd(a *app) *cobra.Command {
	var body string
	cmd := &cobra.Command{
		Use:   "answer <question-id>",
		Short: "Answer a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			content, err := readBody(cmd.InOrStdin(), body)
			if err != nil {
				return err
			}
			d := view.NewQuestionDetail(model.ID(args[0]), a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
			ans, err := d.PostAnswer(ctx, content)
			if err != nil {
				return describe(err)
			}
			return a.emit(ans, func(w io.Writer) { fmt.Fprintf(w, "Posted answer %s.\n", ans.ID) })
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "answer body as HTML, @file or - for stdin")
	return cmd
}

func voteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "vote <question|answer> <id> <up|down>",
		Short:     "Vote on a question or an answer",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"question", "answer"},
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := parseVote(args[2])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			id := model.ID(args[1])
			switch args[0] {
			case "question", "q":
				d := view.NewQuestionDetail(id, a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
				return describe(d.VoteQuestion(ctx, vt))
			case "answer", "a":
				d := view.NewQuestionDetail("", a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
				return describe(d.VoteAnswer(ctx, id, vt))
			default:
				return fmt.Errorf("unknown target %q: want question or answer", args[0])
			}
		},
	}
}

func acceptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <question-id> <answer-id>",
		Short: "Accept an answer to your question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			d := view.NewQuestionDetail(model.ID(args[0]), a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
			if err := d.Load(ctx); err != nil {
				return describe(err)
			}
			return describe(d.Accept(ctx, model.ID(args[1])))
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your question or answer",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "question <id>",
			Short: "Delete a question",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := a.ctx(cmd.Context())
				defer cancel()
				a.boot(ctx)
				d := view.NewQuestionDetail(model.ID(args[0]), a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
				if err := d.Load(ctx); err != nil {
					return describe(err)
				}
				if err := d.DeleteQuestion(ctx); err != nil {
					return describe(err)
				}
				fmt.Fprintln(a.out, "Deleted.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "answer <question-id> <answer-id>",
			Short: "Delete an answer",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := a.ctx(cmd.Context())
				defer cancel()
				a.boot(ctx)
				d := view.NewQuestionDetail(model.ID(args[0]), a.svc.Questions, a.svc.Answers, a.session, a.notify, a.log)
				if err := d.Load(ctx); err != nil {
					return describe(err)
				}
				if err := d.DeleteAnswer(ctx, model.ID(args[1])); err != nil {
					return describe(err)
				}
				fmt.Fprintln(a.out, "Deleted.")
				return nil
			},
		},
	)
	return cmd
}

// ---- tags ----

func tagsCmd(a *app) *cobra.Command {
	var (
		page         int
		sort, search string
	)
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			l := view.NewTagList(a.svc.Tags, a.notify, a.log)
			defer l.Close()
			if err := applyQuery(ctx, l, page, sort, search, ""); err != nil {
				return describe(err)
			}
			st := l.State()
			return a.emit(st.Items, func(w io.Writer) {
				for _, t := range st.Items {
					fmt.Fprintf(w, "%-20s %s\n", t.Name, count(t.Count, "question", "questions"))
				}
				printPageFooter(w, st.Query.Page, st.Count, st.PageSize)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&sort, "sort", string(model.TagsPopular), "popular|name|newest")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name")
	return cmd
}

func tagCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "tag <name>",
		Short: "Show a tag and its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			d := view.NewTagDetail(args[0], a.svc.Tags, a.notify, a.log)
			defer d.Close()
			if err := d.Load(ctx); err != nil {
				return describe(err)
			}
			if page > 1 {
				if err := d.Questions.SetPage(ctx, page); err != nil {
					return describe(err)
				}
			}
			tag, _ := d.Tag()
			st := d.Questions.State()
			out := struct {
				Tag       model.Tag        `json:"tag"`
				Questions []model.Question `json:"questions"`
			}{tag, st.Items}
			return a.emit(out, func(w io.Writer) {
				fmt.Fprintf(w, "[%s] · %s\n", tag.Name, count(tag.Count, "question", "questions"))
				if tag.Description != "" {
					fmt.Fprintln(w, tag.Description)
				}
				fmt.Fprintln(w)
				for _, q := range st.Items {
					printQuestionRow(w, q)
				}
				printPageFooter(w, st.Query.Page, st.Count, st.PageSize)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func tagSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag-suggest <prefix>",
		Short: "Suggest tags for a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			f := view.NewAskQuestion(a.svc.Questions, a.svc.Tags, a.session, a.notify, a.log)
			tags, err := f.SuggestTags(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return a.emit(tags, func(w io.Writer) {
				for _, t := range tags {
					fmt.Fprintln(w, t.Name)
				}
			})
		},
	}
}

// ---- users ----

func usersCmd(a *app) *cobra.Command {
	var (
		page         int
		sort, search string
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			l := view.NewUserList(a.svc.Users, a.notify, a.log)
			defer l.Close()
			if err := applyQuery(ctx, l, page, sort, search, ""); err != nil {
				return describe(err)
			}
			st := l.State()
			return a.emit(st.Items, func(w io.Writer) {
				for _, u := range st.Items {
					fmt.Fprintf(w, "%-6s %-20s %8s  %s\n", u.ID, u.Summary().Name(), count(u.Reputation, "rep", "rep"), u.Location)
				}
				printPageFooter(w, st.Query.Page, st.Count, st.PageSize)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&sort, "sort", string(model.UsersReputation), "reputation|newest|name")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name")
	return cmd
}

func userCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			return a.showProfile(cmd, model.ID(args[0]))
		},
	}
}

func meCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your own profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.gate("/users/me"); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			a.boot(ctx)
			path := view.MyProfilePath(a.session)
			id, ok := strings.CutPrefix(path, "/users/")
			if !ok {
				return fmt.Errorf("login required: run `so login` (redirect %s)", path)
			}
			return a.showProfile(cmd, model.ID(id))
		},
	}
}

func (a *app) showProfile(cmd *cobra.Command, id model.ID) error {
	ctx, cancel := a.ctx(cmd.Context())
	defer cancel()
	p := view.NewUserProfile(id, a.svc.Users, a.session, a.notify, a.log)
	defer p.Close()
	if err := p.Load(ctx); err != nil {
		return describe(err)
	}
	st := p.State()
	return a.emit(st, func(w io.Writer) {
		printUser(w, st.User)
		fmt.Fprintf(w, "\n%s, %s\n", count(st.Questions.Count, "question", "questions"), count(st.Answers.Count, "answer", "answers"))
		for _, q := range st.Questions.Results {
			fmt.Fprintf(w, "  Q %s  %s\n", q.ID, q.Title)
		}
		if len(st.Tags) > 0 {
			fmt.Fprintln(w, "\ntags:")
			for _, t := range st.Tags {
				fmt.Fprintf(w, "  %-20s %d\n", t.Name, t.Count)
			}
		}
		if len(st.Reputation.Results) > 0 {
			fmt.Fprintln(w, "\nreputation:")
			for _, r := range st.Reputation.Results {
				fmt.Fprintf(w, "  %+5d  %s, %s\n", r.Amount, r.Reason, ago(r.CreatedAt))
			}
		}
	})
}

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	var displayName, location, about, avatar string
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.gate("/users/me"); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()
			snap := a.boot(ctx)
			if !snap.SignedIn() {
				return describe(errs.ErrAuthRequired)
			}
			cur := snap.User
			in := model.ProfileUpdate{DisplayName: cur.DisplayName, Location: cur.Location, About: cur.About}
			if cmd.Flags().Changed("display-name") {
				in.DisplayName = displayName
			}
			if cmd.Flags().Changed("location") {
				in.Location = location
			}
			if cmd.Flags().Changed("about") {
				in.About = about
			}
			if avatar != "" {
				f, err := os.Open(avatar)
				if err != nil {
					return err
				}
				defer f.Close()
				in.Avatar = &model.Avatar{Filename: filepath.Base(avatar), Content: f}
			}
			p := view.NewUserProfile(cur.ID, a.svc.Users, a.session, a.notify, a.log)
			u, err := p.SaveProfile(ctx, in)
			if err != nil {
				return describe(err)
			}
			a.session.Refresh(u)
			return a.emit(u, func(w io.Writer) { printUser(w, u) })
		},
	}
	edit.Flags().StringVar(&displayName, "display-name", "", "display name")
	edit.Flags().StringVar(&location, "location", "", "location")
	edit.Flags().StringVar(&about, "about", "", "about me")
	edit.Flags().StringVar(&avatar, "avatar", "", "path to an image")
	cmd.AddCommand(edit)
	return cmd
}
