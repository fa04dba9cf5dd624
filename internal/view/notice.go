package view

import "sync"

// Variant styles a notice.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier displays notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

var nopNotifier = NotifierFunc(func(Notice) {})

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records n.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices in order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func failure(title, desc string) Notice {
	return Notice{Title: title, Description: desc, Variant: VariantDestructive}
}

func success(title, desc string) Notice {
	return Notice{Title: title, Description: desc, Variant: VariantDefault}
}

var (
	noticeVoteAuth   = failure("Authentication required", "You need to be logged in to vote")
	noticeVoteFailed = failure("Vote failed", "You may have already voted or don't have enough reputation")
	noticeAnswerAuth = failure("Authentication required", "You need to be logged in to post an answer")
	noticeAskAuth    = failure("Authentication required", "You need to be logged in to ask a question")
	noticeAcceptDeny = failure("Permission denied", "Only the question author can accept answers")
	noticeOwnerDeny  = failure("Permission denied", "You can only change your own posts")
)
