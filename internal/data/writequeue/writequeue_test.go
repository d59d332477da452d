package writequeue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/document"
)

type recordingWriter struct {
	mu        sync.Mutex
	progress  []document.Progress
	bookmarks []document.Bookmark
	gate      chan struct{} // when non-nil, each write waits for a receive
	err       error
}

func (w *recordingWriter) wait() {
	if w.gate != nil {
		<-w.gate
	}
}

func (w *recordingWriter) SaveProgress(_ context.Context, p document.Progress) error {
	w.wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.progress = append(w.progress, p)
	return w.err
}

func (w *recordingWriter) SaveBookmark(_ context.Context, b *document.Bookmark) error {
	w.wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bookmarks = append(w.bookmarks, *b)
	return w.err
}

func (w *recordingWriter) snapshot() ([]document.Progress, []document.Bookmark) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]document.Progress(nil), w.progress...), append([]document.Bookmark(nil), w.bookmarks...)
}

func closeQueue(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))
}

func TestQueue_DeliversWrites(t *testing.T) {
	w := &recordingWriter{}
	q := New(w, 8, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, q.SaveProgress(ctx, document.Progress{DocumentID: "d", ScrollTop: 10}))
	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "b1", DocumentID: "d", StartIndex: 4}))
	closeQueue(t, q)

	progress, bookmarks := w.snapshot()
	require.Len(t, progress, 1)
	assert.Equal(t, 10, progress[0].ScrollTop)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "b1", bookmarks[0].ID)
	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, Stats{Written: 2}, q.Stats())
}

func TestQueue_CoalescesProgressPerDocument(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := New(w, 8, zerolog.Nop())
	ctx := context.Background()

	// The first write is picked up by the consumer and blocks on the gate.
	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "hold", DocumentID: "x"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)

	for i := 1; i <= 5; i++ {
		require.NoError(t, q.SaveProgress(ctx, document.Progress{DocumentID: "d", ScrollTop: i}))
	}
	require.NoError(t, q.SaveProgress(ctx, document.Progress{DocumentID: "other", ScrollTop: 99}))
	assert.Equal(t, 3, q.Pending(), "one held bookmark plus one slot per document")

	close(w.gate)
	closeQueue(t, q)

	progress, _ := w.snapshot()
	require.Len(t, progress, 2)
	assert.Equal(t, 5, progress[0].ScrollTop, "latest write wins")
	assert.Equal(t, 99, progress[1].ScrollTop)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := New(w, 1, zerolog.Nop())
	ctx := context.Background()

	var dropped []Kind
	q.OnDrop(func(k Kind) { dropped = append(dropped, k) })

	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "1"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "2"}))

	err := q.SaveBookmark(ctx, &document.Bookmark{ID: "3"})
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, []Kind{KindBookmark}, dropped)
	assert.Equal(t, 1, q.Stats().Dropped)

	close(w.gate)
	closeQueue(t, q)

	_, bookmarks := w.snapshot()
	assert.Len(t, bookmarks, 2)
}

func TestQueue_DropHookMayPush(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := New(w, 1, zerolog.Nop())
	ctx := context.Background()

	var retryErr error
	retried := false
	q.OnDrop(func(Kind) {
		if retried {
			return
		}
		retried = true
		retryErr = q.SaveProgress(ctx, document.Progress{DocumentID: "d"})
	})

	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "1"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.SaveBookmark(ctx, &document.Bookmark{ID: "2"}))

	result := make(chan error, 1)
	go func() { result <- q.SaveBookmark(ctx, &document.Bookmark{ID: "3"}) }()

	select {
	case err := <-result:
		require.ErrorIs(t, err, ErrFull)
	case <-time.After(2 * time.Second):
		t.Fatal("push from a drop hook deadlocked")
	}
	assert.True(t, retried)
	require.ErrorIs(t, retryErr, ErrFull, "the buffer is still full")
	assert.Equal(t, 2, q.Stats().Dropped)

	close(w.gate)
	closeQueue(t, q)
}

func TestQueue_FailuresAreNotRetried(t *testing.T) {
	w := &recordingWriter{err: errors.New("disk on fire")}
	q := New(w, 4, zerolog.Nop())

	require.NoError(t, q.SaveProgress(context.Background(), document.Progress{DocumentID: "d"}))
	closeQueue(t, q)

	progress, _ := w.snapshot()
	assert.Len(t, progress, 1)
	assert.Equal(t, Stats{Failed: 1}, q.Stats())
}

func TestQueue_ClosedRejectsWrites(t *testing.T) {
	q := New(&recordingWriter{}, 4, zerolog.Nop())
	closeQueue(t, q)

	require.ErrorIs(t, q.SaveProgress(context.Background(), document.Progress{DocumentID: "d"}), ErrClosed)
	require.ErrorIs(t, q.SaveBookmark(context.Background(), &document.Bookmark{}), ErrClosed)
	closeQueue(t, q)
}

func TestQueue_CloseHonorsContext(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := New(w, 4, zerolog.Nop())
	require.NoError(t, q.SaveBookmark(context.Background(), &document.Bookmark{ID: "stuck"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Close(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(w.gate)
	closeQueue(t, q)
}
