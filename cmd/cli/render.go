package main

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/and161185/stackclone/internal/model"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"
)

// blockTags end a line when rendering HTML bodies as text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "blockquote": true, "tr": true,
}

// htmlText renders an HTML post body as plain text. Inline code is wrapped in
// backticks; preformatted blocks keep their whitespace.
func htmlText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var (
		b     strings.Builder
		pre   int
		space bool
	)
	write := func(s string) {
		if space && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte(' ')
		}
		space = false
		b.WriteString(s)
	}
	newline := func(s string) {
		if b.Len() == 0 || strings.HasSuffix(b.String(), "\n") {
			s = strings.TrimPrefix(s, "\n")
		}
		b.WriteString(s)
		space = false
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidy(b.String())
		case html.TextToken:
			raw := string(z.Text())
			if pre > 0 {
				b.WriteString(raw)
				continue
			}
			words := strings.Fields(raw)
			if len(words) == 0 {
				space = space || raw != ""
				continue
			}
			if strings.TrimLeftFunc(raw, unicode.IsSpace) != raw {
				space = true
			}
			write(strings.Join(words, " "))
			space = strings.TrimRightFunc(raw, unicode.IsSpace) != raw
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "pre":
				pre++
				newline("\n")
			case "code":
				if pre == 0 {
					write("`")
				}
			case "li":
				newline("\n- ")
			case "br":
				newline("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "pre" && pre > 0:
				pre--
			case tag == "code" && pre == 0:
				b.WriteByte('`')
			}
			if blockTags[tag] {
				newline("\n")
			}
		}
	}
}

// tidy trims trailing spaces and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "some time ago"
	}
	return humanize.Time(t)
}

func count(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

func tagList(tags []model.TagRef) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, "["+t.Name+"]")
	}
	return strings.Join(names, " ")
}

func printQuestionRow(w io.Writer, q model.Question) {
	fmt.Fprintf(w, "%s  %s\n", q.ID, q.Title)
	fmt.Fprintf(w, "    %s · %s · %s · asked %s by %s\n",
		count(q.VoteCount, "vote", "votes"),
		count(q.AnswerCount, "answer", "answers"),
		count(q.ViewCount, "view", "views"),
		ago(q.CreatedAt), q.Author.Name())
	if len(q.Tags) > 0 {
		fmt.Fprintf(w, "    %s\n", tagList(q.Tags))
	}
}

func printPageFooter(w io.Writer, page, total, pageSize int) {
	fmt.Fprintf(w, "page %d of %d (%s total)\n", max(page, 1), max(model.TotalPages(total, pageSize), 1), humanize.Comma(int64(total)))
}

func printQuestion(w io.Writer, q model.Question, answers []model.Answer) {
	fmt.Fprintf(w, "%s\n", q.Title)
	fmt.Fprintf(w, "asked %s by %s (%s) · %s · %s\n", ago(q.CreatedAt), q.Author.Name(),
		humanize.Comma(int64(q.Author.Reputation)), count(q.VoteCount, "vote", "votes"), count(q.ViewCount, "view", "views"))
	if len(q.Tags) > 0 {
		fmt.Fprintln(w, tagList(q.Tags))
	}
	fmt.Fprintf(w, "\n%s\n", htmlText(q.Content))
	fmt.Fprintf(w, "\n%s\n", count(len(answers), "Answer", "Answers"))
	for _, a := range answers {
		mark := ""
		if a.IsAccepted {
			mark = " ✓ accepted"
		}
		fmt.Fprintf(w, "\n--- answer %s · %s%s · %s, %s\n", a.ID, count(a.VoteCount, "vote", "votes"), mark, a.Author.Name(), ago(a.CreatedAt))
		fmt.Fprintln(w, htmlText(a.Content))
	}
}

func printUser(w io.Writer, u model.User) {
	fmt.Fprintf(w, "%s (@%s) · id %s\n", u.Summary().Name(), u.Username, u.ID)
	fmt.Fprintf(w, "reputation %s · member for %s", humanize.Comma(int64(u.Reputation)), memberFor(u.MemberSince))
	if u.LastSeen != nil {
		fmt.Fprintf(w, " · last seen %s", ago(*u.LastSeen))
	}
	fmt.Fprintln(w)
	b := u.Badges()
	fmt.Fprintf(w, "badges: %d gold, %d silver, %d bronze\n", b.Gold, b.Silver, b.Bronze)
	if u.Location != "" {
		fmt.Fprintf(w, "location: %s\n", u.Location)
	}
	if len(u.TopTags) > 0 {
		fmt.Fprintf(w, "top tags: %s\n", tagList(u.TopTags))
	}
	if u.About != "" {
		fmt.Fprintf(w, "\n%s\n", htmlText(u.About))
	}
}

func memberFor(since time.Time) string {
	if since.IsZero() {
		return "a while"
	}
	return strings.TrimSuffix(humanize.RelTime(since, time.Now(), "", ""), " ")
}
