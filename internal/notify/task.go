package notify

import "context"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	// NoticeSkipped means nothing was sent because no webhook is routed for it.
	NoticeSkipped NoticeKind = "skipped"
)

// Notice is the transient, user-visible outcome of a notification.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
}

func (n Notice) OK() bool { return n.Kind == NoticeSuccess }

// Task is an in-flight dispatch. Its result only feeds user notices; nothing
// in the ledger or registry waits on it.
type Task struct {
	done   chan struct{}
	notice Notice
}

func newTask() *Task { return &Task{done: make(chan struct{})} }

func completed(n Notice) *Task {
	t := newTask()
	t.finish(n)
	return t
}

func (t *Task) finish(n Notice) {
	t.notice = n
	close(t.done)
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the dispatch finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) Notice {
	select {
	case <-t.done:
		return t.notice
	case <-ctx.Done():
		return Notice{Kind: NoticeError, Message: "Menunggu pengiriman dibatalkan", Err: ctx.Err()}
	}
}

// Notice returns the outcome without blocking; ok is false while in flight.
func (t *Task) Notice() (Notice, bool) {
	select {
	case <-t.done:
		return t.notice, true
	default:
		return Notice{}, false
	}
}
