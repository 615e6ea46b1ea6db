package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheloosterhof/moltbook/internal/feed"
)

type fakeFetcher struct {
	threads map[string]*feed.Thread
	fail    map[string]bool
}

func (f *fakeFetcher) Thread(ctx context.Context, postID string) (*feed.Thread, error) {
	if f.fail[postID] {
		return nil, errors.New("boom")
	}
	t, ok := f.threads[postID]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tracker.json")
}

func thread(title string, comments ...*feed.Comment) *feed.Thread {
	return &feed.Thread{Post: &feed.Post{Title: title}, Comments: comments}
}

func TestWatchUnwatch(t *testing.T) {
	tr := New(&fakeFetcher{}, testPath(t))

	require.NoError(t, tr.Watch("p1", "my-c1"))
	require.NoError(t, tr.Watch("p2", ""))
	assert.Equal(t, []string{"p1", "p2"}, tr.Watched())

	// Watching again accumulates own-comment IDs without duplicates.
	require.NoError(t, tr.Watch("p1", "my-c1"))
	require.NoError(t, tr.Watch("p1", "my-c2"))
	assert.Equal(t, []string{"my-c1", "my-c2"}, tr.data.Watched["p1"].MyCommentIDs)

	require.NoError(t, tr.Unwatch("p1"))
	assert.Equal(t, []string{"p2"}, tr.Watched())
}

func TestCheckRepliesExcludesOwnComments(t *testing.T) {
	f := &fakeFetcher{threads: map[string]*feed.Thread{
		"p1": thread("hello",
			&feed.Comment{ID: "my-c1", Author: "me"},
			&feed.Comment{ID: "c1", Author: "alice"},
		),
	}}
	tr := New(f, testPath(t))
	require.NoError(t, tr.Watch("p1", "my-c1"))

	replies, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "p1", replies[0].PostID)
	assert.Equal(t, "hello", replies[0].PostTitle)
	require.Len(t, replies[0].NewComments, 1)
	assert.Equal(t, "c1", replies[0].NewComments[0].ID)
}

func TestCheckRepliesSecondRoundOnlyNew(t *testing.T) {
	f := &fakeFetcher{threads: map[string]*feed.Thread{
		"p1": thread("hello", &feed.Comment{ID: "c1"}),
	}}
	tr := New(f, testPath(t))
	require.NoError(t, tr.Watch("p1", ""))

	_, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)

	// Nothing changed: no replies reported.
	replies, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, replies)

	// A nested reply appears.
	f.threads["p1"] = thread("hello",
		&feed.Comment{ID: "c1", Replies: []*feed.Comment{{ID: "c2"}}},
	)
	replies, err = tr.CheckReplies(context.Background())
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Len(t, replies[0].NewComments, 1)
	assert.Equal(t, "c2", replies[0].NewComments[0].ID)
}

func TestCheckRepliesFetchFailureSkipsPost(t *testing.T) {
	f := &fakeFetcher{
		threads: map[string]*feed.Thread{
			"ok": thread("fine", &feed.Comment{ID: "c1"}),
		},
		fail: map[string]bool{"broken": true},
	}
	tr := New(f, testPath(t))
	require.NoError(t, tr.Watch("broken", ""))
	require.NoError(t, tr.Watch("ok", ""))

	replies, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "ok", replies[0].PostID)

	// The failed post's state is untouched; a later successful fetch
	// still reports its comments.
	f.fail["broken"] = false
	f.threads["broken"] = thread("works now", &feed.Comment{ID: "c9"})
	replies, err = tr.CheckReplies(context.Background())
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "broken", replies[0].PostID)
}

func TestCheckRepliesForgetsDeletedComments(t *testing.T) {
	f := &fakeFetcher{threads: map[string]*feed.Thread{
		"p1": thread("hello", &feed.Comment{ID: "c1"}),
	}}
	tr := New(f, testPath(t))
	require.NoError(t, tr.Watch("p1", "mine"))

	_, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)

	// c1 disappears from the thread; the seen set follows the current
	// tree plus our own comments.
	f.threads["p1"] = thread("hello")
	_, err = tr.CheckReplies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, tr.data.Watched["p1"].SeenCommentIDs)
}

func TestMarkAllSeen(t *testing.T) {
	f := &fakeFetcher{threads: map[string]*feed.Thread{
		"p1": thread("hello", &feed.Comment{ID: "c1"}, &feed.Comment{ID: "c2"}),
	}}
	tr := New(f, testPath(t))
	require.NoError(t, tr.Watch("p1", ""))

	require.NoError(t, tr.MarkAllSeen(context.Background(), "p1"))

	replies, err := tr.CheckReplies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, replies)

	// Unknown post and failed fetch are both no-ops.
	require.NoError(t, tr.MarkAllSeen(context.Background(), "unknown"))
	f.fail = map[string]bool{"p1": true}
	require.NoError(t, tr.MarkAllSeen(context.Background(), "p1"))
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	path := testPath(t)
	f := &fakeFetcher{threads: map[string]*feed.Thread{
		"p1": thread("hello", &feed.Comment{ID: "c1"}),
	}}

	tr1 := New(f, path)
	require.NoError(t, tr1.Watch("p1", "mine"))
	_, err := tr1.CheckReplies(context.Background())
	require.NoError(t, err)

	tr2 := New(f, path)
	assert.Equal(t, []string{"p1"}, tr2.Watched())
	replies, err := tr2.CheckReplies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, replies)
}
