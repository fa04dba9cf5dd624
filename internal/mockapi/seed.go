package mockapi

import (
	"fmt"

	"github.com/and161185/stackclone/internal/crypto"
	"github.com/and161185/stackclone/internal/model"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Seed fills st with a small demo community: three accounts (ann, bob, cyd at
// example.com), described tags, questions, answers and a few votes.
func Seed(st *Store, p crypto.Params) error {
	users := map[string]model.User{}
	for _, name := range []string{"ann", "bob", "cyd"} {
		hash, err := crypto.HashPassword(DemoPassword, p)
		if err != nil {
			return err
		}
		u, err := st.CreateUser(name, name+"@example.com", hash)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		users[name] = u
	}

	tags := []struct{ name, desc string }{
		{"go", "Go is an open source programming language designed at Google."},
		{"javascript", "For questions about programming in ECMAScript and its dialects."},
		{"react", "React is a JavaScript library for building user interfaces."},
		{"redux", "Redux is a predictable state container for JavaScript apps."},
		{"concurrency", "Running parts of a program out of order without changing the outcome."},
	}
	for _, t := range tags {
		st.DescribeTag(t.name, t.desc)
	}

	type qa struct {
		author, title, content string
		tags                   []string
		answers                []struct{ author, content string }
	}
	seed := []qa{
		{
			author:  "ann",
			title:   "How do I cancel a goroutine that is blocked on a channel?",
			content: "<p>I start a worker with <code>go work(ch)</code> and need to stop it from <code>main</code>.</p>",
			tags:    []string{"go", "concurrency"},
			answers: []struct{ author, content string }{
				{"bob", "<p>Pass a <code>context.Context</code> and <code>select</code> on <code>ctx.Done()</code>.</p>"},
				{"cyd", "<p>Close a dedicated quit channel.</p>"},
			},
		},
		{
			author:  "bob",
			title:   "When should I use Redux instead of React context?",
			content: "<p>Our app state is growing and context re-renders everything.</p>",
			tags:    []string{"react", "redux", "javascript"},
			answers: []struct{ author, content string }{
				{"ann", "<p>Use Redux when many distant components update shared state.</p>"},
			},
		},
		{
			author:  "cyd",
			title:   "Why does useEffect run twice in development?",
			content: "<p>My fetch fires two times on mount.</p>",
			tags:    []string{"react", "javascript"},
		},
	}

	var first model.Question
	var firstAnswer model.Answer
	for i, item := range seed {
		q := st.CreateQuestion(users[item.author].ID, item.title, item.content, item.tags)
		for j, a := range item.answers {
			ans, err := st.CreateAnswer(users[a.author].ID, q.ID, a.content)
			if err != nil {
				return err
			}
			if i == 0 && j == 0 {
				firstAnswer = ans
			}
		}
		if i == 0 {
			first = q
		}
	}

	if _, err := st.Vote("question", first.ID, users["bob"].ID, model.Upvote); err != nil {
		return err
	}
	if _, err := st.Vote("answer", firstAnswer.ID, users["ann"].ID, model.Upvote); err != nil {
		return err
	}
	if _, err := st.Accept(firstAnswer.ID, users["ann"].ID); err != nil {
		return err
	}
	return nil
}
