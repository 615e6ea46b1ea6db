package cursor

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheloosterhof/moltbook/internal/feed"
)

func posts(ids ...string) []*feed.Post {
	out := make([]*feed.Post, len(ids))
	for i, id := range ids {
		out[i] = &feed.Post{ID: id}
	}
	return out
}

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cursor.json")
}

func TestMarkSeenAndUnseen(t *testing.T) {
	c := New(testPath(t))

	all := posts("a", "b", "c")
	assert.Len(t, c.Unseen(all, "hot"), 3)

	require.NoError(t, c.MarkSeen(posts("a", "b"), "hot"))

	unseen := c.Unseen(all, "hot")
	require.Len(t, unseen, 1)
	assert.Equal(t, "c", unseen[0].ID)
}

func TestMarkSeenIdempotent(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["hot"].SeenCount)
}

func TestSourcesIndependent(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))

	// Seen on hot says nothing about new.
	unseen := c.Unseen(posts("a"), "new")
	assert.Len(t, unseen, 1)
}

func TestEmptySourceUsesDefault(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), ""))
	assert.Empty(t, c.Unseen(posts("a"), ""))

	stats := c.Stats()
	assert.Equal(t, 1, stats["default"].SeenCount)
}

func TestCapEvictsOldestFirst(t *testing.T) {
	c := New(testPath(t))

	ids := make([]string, maxSeenPerSource)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%04d", i)
	}
	require.NoError(t, c.MarkSeenIDs(ids, "hot"))
	assert.Equal(t, maxSeenPerSource, c.Stats()["hot"].SeenCount)

	// A batch overlapping existing IDs adds only the genuinely new ones,
	// evicting the same number of oldest entries.
	require.NoError(t, c.MarkSeenIDs([]string{"id-0000", "fresh-1", "fresh-2"}, "hot"))

	assert.Equal(t, maxSeenPerSource, c.Stats()["hot"].SeenCount)
	// The two oldest fell off; the overlap did not re-insert id-0000.
	unseen := c.Unseen(posts("id-0000", "id-0001", "id-0002", "fresh-1"), "hot")
	var unseenIDs []string
	for _, p := range unseen {
		unseenIDs = append(unseenIDs, p.ID)
	}
	assert.Equal(t, []string{"id-0000", "id-0001"}, unseenIDs)
}

func TestCatchUpWithPosts(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.CatchUp("hot", posts("a", "b")))
	assert.Empty(t, c.Unseen(posts("a", "b"), "hot"))
	assert.NotNil(t, c.Stats()["hot"].LastChecked)
}

func TestCatchUpAllSourcesTouchesTimestamps(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))
	require.NoError(t, c.MarkSeen(posts("b"), "new"))

	require.NoError(t, c.CatchUp("", nil))
	stats := c.Stats()
	assert.NotNil(t, stats["hot"].LastChecked)
	assert.NotNil(t, stats["new"].LastChecked)
}

func TestResetSingleSource(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))
	require.NoError(t, c.MarkSeen(posts("b"), "new"))

	require.NoError(t, c.Reset("hot"))
	assert.Equal(t, 0, c.Stats()["hot"].SeenCount)
	assert.Equal(t, 1, c.Stats()["new"].SeenCount)

	// Resetting an unknown source creates nothing.
	require.NoError(t, c.Reset("bogus"))
	_, ok := c.Stats()["bogus"]
	assert.False(t, ok)
}

func TestResetAll(t *testing.T) {
	c := New(testPath(t))
	require.NoError(t, c.MarkSeen(posts("a"), "hot"))
	require.NoError(t, c.Reset(""))
	assert.Empty(t, c.Stats())
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	path := testPath(t)

	c1 := New(path)
	require.NoError(t, c1.MarkSeen(posts("a", "b"), "hot"))

	c2 := New(path)
	assert.Empty(t, c2.Unseen(posts("a", "b"), "hot"))
	assert.Equal(t, 2, c2.Stats()["hot"].SeenCount)
}
