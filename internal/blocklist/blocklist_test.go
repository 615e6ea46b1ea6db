package blocklist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheloosterhof/moltbook/internal/feed"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "blocklist.json")
}

func TestBlockUnblock(t *testing.T) {
	b := New(testPath(t))

	require.NoError(t, b.Block("spammer", "low effort"))
	assert.True(t, b.IsBlocked("spammer"))
	assert.False(t, b.IsBlocked("Spammer")) // exact match only

	// Blocking again with a new reason overwrites the reason, not the entry.
	require.NoError(t, b.Block("spammer", "worse than low effort"))
	stats := b.Stats()
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, "worse than low effort", stats.WithReasons["spammer"])

	require.NoError(t, b.Unblock("spammer"))
	assert.False(t, b.IsBlocked("spammer"))
	assert.Empty(t, b.Stats().WithReasons)

	// Unblocking someone never blocked is fine.
	require.NoError(t, b.Unblock("nobody"))
}

func TestFilterPostsPreservesOrder(t *testing.T) {
	b := New(testPath(t))
	require.NoError(t, b.Block("spammer", ""))

	posts := []*feed.Post{
		{ID: "1", Author: "alice"},
		{ID: "2", Author: "spammer"},
		{ID: "3", Author: "bob"},
	}
	got := b.FilterPosts(posts)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	// Input is untouched.
	assert.Len(t, posts, 3)
}

func TestFilterCommentsPromotesReplies(t *testing.T) {
	b := New(testPath(t))
	require.NoError(t, b.Block("spammer", ""))

	tree := []*feed.Comment{
		{ID: "top", Author: "alice", Replies: []*feed.Comment{
			{ID: "bad", Author: "spammer", Replies: []*feed.Comment{
				{ID: "grandkid", Author: "bob"},
			}},
		}},
	}
	got := b.FilterComments(tree)
	require.Len(t, got, 1)
	require.Len(t, got[0].Replies, 1)
	assert.Equal(t, "grandkid", got[0].Replies[0].ID)
}

func TestFilterThread(t *testing.T) {
	b := New(testPath(t))
	require.NoError(t, b.Block("spammer", ""))

	thread := &feed.Thread{
		Post:     &feed.Post{ID: "p1"},
		Comments: []*feed.Comment{{ID: "c1", Author: "spammer"}},
	}
	got := b.FilterThread(thread)
	assert.Same(t, thread.Post, got.Post)
	assert.Empty(t, got.Comments)
	assert.Len(t, thread.Comments, 1)

	assert.Nil(t, b.FilterThread(nil))
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	path := testPath(t)

	b1 := New(path)
	require.NoError(t, b1.Block("spammer", "reason"))

	b2 := New(path)
	assert.True(t, b2.IsBlocked("spammer"))
	assert.Equal(t, "reason", b2.Stats().WithReasons["spammer"])
}

func TestSummary(t *testing.T) {
	b := New(testPath(t))
	assert.Equal(t, "Blocklist is empty.", b.Summary())

	require.NoError(t, b.Block("zeta", ""))
	require.NoError(t, b.Block("alpha", "spam"))
	got := b.Summary()
	assert.Contains(t, got, "alpha - spam")
	assert.Contains(t, got, "zeta")
}
