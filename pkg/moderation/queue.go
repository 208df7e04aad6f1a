package moderation

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrNotPending = errors.New("message not pending")
	ErrEmptyText  = errors.New("empty message")
)

type Message struct {
	ID   string
	From string
	Text string
	At   time.Time
}

type Hook func(approved []Message)

func NewQueue(logger *zap.Logger, opts ...Option) *Queue {
	q := &Queue{
		log: logger,
		max: 10,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

type Option func(q *Queue)

// WithHistory bounds how many approved messages are kept.
func WithHistory(max int) Option {
	return func(q *Queue) {
		if max > 0 {
			q.max = max
		}
	}
}

func WithHook(fn Hook) Option {
	return func(q *Queue) {
		q.hooks = append(q.hooks, fn)
	}
}

type Queue struct {
	sync.Mutex
	log      *zap.Logger
	max      int
	now      func() time.Time
	pending  []Message
	approved []Message
	hooks    []Hook
	version  uint64

	notify    sync.Mutex
	delivered uint64
}

func (q *Queue) OnApprove(fn Hook) {
	q.Lock()
	defer q.Unlock()
	q.hooks = append(q.hooks, fn)
}

func (q *Queue) Enqueue(from, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyText
	}

	m := Message{ID: xid.New().String(), From: from, Text: text, At: q.now()}

	q.Lock()
	q.pending = append(q.pending, m)
	q.Unlock()

	q.log.With(zap.String("id", m.ID), zap.String("from", from)).Info("message queued")
	return m, nil
}

func (q *Queue) Pending() []Message {
	q.Lock()
	defer q.Unlock()
	return append([]Message(nil), q.pending...)
}

func (q *Queue) Approved() []Message {
	q.Lock()
	defer q.Unlock()
	return append([]Message(nil), q.approved...)
}

func (q *Queue) take(id string) (Message, error) {
	m, ok := lo.Find(q.pending, func(m Message) bool { return m.ID == id })
	if !ok {
		return Message{}, errors.Wrap(ErrNotPending, id)
	}
	q.pending = lo.Filter(q.pending, func(m Message, _ int) bool { return m.ID != id })
	return m, nil
}

func (q *Queue) Approve(id string) (Message, error) {
	q.Lock()
	m, err := q.take(id)
	if err != nil {
		q.Unlock()
		return m, err
	}

	q.approved = append(q.approved, m)
	if len(q.approved) > q.max {
		q.approved = q.approved[len(q.approved)-q.max:]
	}
	q.version++
	version := q.version
	approved := append([]Message(nil), q.approved...)
	hooks := append([]Hook(nil), q.hooks...)
	q.Unlock()

	q.log.With(zap.String("id", id)).Info("message approved")
	q.deliver(version, approved, hooks)
	return m, nil
}

// deliver runs hooks one snapshot at a time and drops snapshots older than
// the last one delivered. Hooks must not call Approve.
func (q *Queue) deliver(version uint64, approved []Message, hooks []Hook) {
	q.notify.Lock()
	defer q.notify.Unlock()

	if version <= q.delivered {
		return
	}
	q.delivered = version
	for _, fn := range hooks {
		fn(approved)
	}
}

func (q *Queue) Reject(id string) (Message, error) {
	q.Lock()
	defer q.Unlock()

	m, err := q.take(id)
	if err != nil {
		return m, err
	}
	q.log.With(zap.String("id", id)).Info("message rejected")
	return m, nil
}
