// Package writequeue delivers reader writes to the document store in the
// background. Callers never wait on the database: progress saves are
// coalesced per document and every write is fire-and-forget.
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/lector/internal/core/document"
)

var (
	// ErrFull is returned when the buffer has no room; the write is dropped.
	ErrFull = errors.New("write queue full")
	// ErrClosed is returned for writes pushed after Close.
	ErrClosed = errors.New("write queue closed")
)

// Kind identifies a queued write.
type Kind string

const (
	KindProgress Kind = "progress"
	KindBookmark Kind = "bookmark"
)

// DefaultWriteTimeout bounds a single store call.
const DefaultWriteTimeout = 5 * time.Second

type op struct {
	kind     Kind
	docID    string
	bookmark document.Bookmark
}

// Queue is a buffered, single-consumer write queue. It implements
// document.Writer so the reader can use it in place of the store.
type Queue struct {
	writer  document.Writer
	logger  zerolog.Logger
	timeout time.Duration

	mu       sync.Mutex
	ch       chan op
	progress map[string]document.Progress // latest unsaved progress per document
	closed   bool

	pending atomic.Int64
	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64

	onDrop []func(Kind)
	done   chan struct{}
}

var _ document.Writer = (*Queue)(nil)

// New starts a queue holding up to size writes in front of writer.
func New(writer document.Writer, size int, logger zerolog.Logger) *Queue {
	q := &Queue{
		writer:   writer,
		logger:   logger,
		timeout:  DefaultWriteTimeout,
		ch:       make(chan op, max(size, 1)),
		progress: make(map[string]document.Progress),
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// OnDrop registers a hook called whenever a write is dropped because the
// buffer is full. Hooks run on the pushing goroutine after the queue lock is
// released, so they may push again.
func (q *Queue) OnDrop(fn func(Kind)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onDrop = append(q.onDrop, fn)
}

// SaveProgress queues a progress save. If a save for the same document is
// still waiting, it is replaced and no new slot is used.
func (q *Queue) SaveProgress(_ context.Context, p document.Progress) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}

	if _, waiting := q.progress[p.DocumentID]; waiting {
		q.progress[p.DocumentID] = p
		q.mu.Unlock()
		return nil
	}

	hooks, err := q.enqueue(op{kind: KindProgress, docID: p.DocumentID})
	if err == nil {
		q.progress[p.DocumentID] = p
	}
	q.mu.Unlock()

	notifyDrop(hooks, KindProgress)
	return err
}

// SaveBookmark queues a bookmark save. The bookmark is copied; fill in the
// ID before pushing if the caller needs to refer to it later.
func (q *Queue) SaveBookmark(_ context.Context, b *document.Bookmark) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	hooks, err := q.enqueue(op{kind: KindBookmark, docID: b.DocumentID, bookmark: *b})
	q.mu.Unlock()

	notifyDrop(hooks, KindBookmark)
	return err
}

// enqueue must be called with q.mu held. On a drop it returns a copy of the
// hooks to call once the lock is released.
func (q *Queue) enqueue(o op) ([]func(Kind), error) {
	select {
	case q.ch <- o:
		q.pending.Add(1)
		return nil, nil
	default:
		q.dropped.Add(1)
		q.logger.Warn().
			Str("kind", string(o.kind)).
			Str("document_id", o.docID).
			Msg("write dropped: queue full")
		return slices.Clone(q.onDrop), ErrFull
	}
}

func notifyDrop(hooks []func(Kind), kind Kind) {
	for _, fn := range hooks {
		fn(kind)
	}
}

// Pending returns the number of writes not yet delivered.
func (q *Queue) Pending() int {
	return int(q.pending.Load())
}

// Stats reports delivery counters.
type Stats struct {
	Written int
	Dropped int
	Failed  int
}

// Stats returns the delivery counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Written: int(q.written.Load()),
		Dropped: int(q.dropped.Load()),
		Failed:  int(q.failed.Load()),
	}
}

// Close stops accepting writes and waits for queued writes to be delivered
// or for ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain write queue (%d pending): %w", q.Pending(), ctx.Err())
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for o := range q.ch {
		q.deliver(o)
		q.pending.Add(-1)
	}
}

func (q *Queue) deliver(o op) {
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			q.logger.Error().
				Str("kind", string(o.kind)).
				Str("panic", fmt.Sprint(r)).
				Msg("write panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	var err error
	switch o.kind {
	case KindProgress:
		q.mu.Lock()
		p, ok := q.progress[o.docID]
		delete(q.progress, o.docID)
		q.mu.Unlock()
		if !ok {
			return
		}
		err = q.writer.SaveProgress(ctx, p)
	case KindBookmark:
		b := o.bookmark
		err = q.writer.SaveBookmark(ctx, &b)
	}

	if err != nil {
		q.failed.Add(1)
		q.logger.Error().Err(err).
			Str("kind", string(o.kind)).
			Str("document_id", o.docID).
			Msg("write failed")
		return
	}
	q.written.Add(1)
}
