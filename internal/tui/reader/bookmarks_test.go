package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/pkg/tuitest"
)

func testBookmarks() []document.Bookmark {
	now := time.Now()
	return []document.Bookmark{
		{ID: "a", StartIndex: 0, TextPreview: "first", CreatedAt: now},
		{ID: "b", StartIndex: 500, TextPreview: "second", CreatedAt: now},
		{ID: "c", StartIndex: 900, TextPreview: "third", CreatedAt: now},
	}
}

func TestBookmarkList_MoveAndRemove(t *testing.T) {
	l := newBookmarkList(testBookmarks(), 1000)

	l.move(-1)
	assert.Equal(t, 0, l.cursor)
	l.move(5)
	assert.Equal(t, 2, l.cursor)

	l.remove("c")
	assert.Equal(t, 1, l.cursor, "cursor follows the shrinking list")
	b, ok := l.selected()
	require.True(t, ok)
	assert.Equal(t, "b", b.ID)

	l.remove("missing")
	assert.Len(t, l.items, 2)

	l.remove("a")
	l.remove("b")
	_, ok = l.selected()
	assert.False(t, ok)
}

func TestBookmarkList_View(t *testing.T) {
	l := newBookmarkList(testBookmarks(), 1000)
	l.move(1)

	lines := tuitest.Lines(l.view(50))

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "0%")
	assert.Contains(t, lines[1], "> ")
	assert.Contains(t, lines[1], " 50%")
	assert.Contains(t, lines[1], "second")
	assert.Contains(t, lines[2], "third")
}

func TestBookmarkList_Empty(t *testing.T) {
	l := newBookmarkList(nil, 0)

	assert.Contains(t, tuitest.StripANSI(l.view(40)), "no bookmarks yet")
	l.move(1)
	assert.Equal(t, 0, l.cursor)
}
