package partners

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheloosterhof/moltbook/internal/feed"
)

type fakeSource struct {
	feeds      map[string][]*feed.Post
	search     map[string][]*feed.Post
	feedErr    error
	searchErr  error
	feedCalls  int
	searchLogs []string
}

func (f *fakeSource) Feed(ctx context.Context, sort string, limit int) (*feed.Page, error) {
	f.feedCalls++
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return &feed.Page{Posts: f.feeds[sort]}, nil
}

func (f *fakeSource) Search(ctx context.Context, query string) (*feed.SearchResults, error) {
	f.searchLogs = append(f.searchLogs, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &feed.SearchResults{Posts: f.search[query]}, nil
}

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "partners.json")
}

func post(id, author string) *feed.Post {
	return &feed.Post{ID: id, Title: "t-" + id, Author: feed.Ident(author)}
}

func TestAddRemoveNames(t *testing.T) {
	m := New(&fakeSource{}, testPath(t))

	require.NoError(t, m.Add("zoe"))
	require.NoError(t, m.Add("abe"))
	require.NoError(t, m.Add("abe")) // no-op
	assert.Equal(t, []string{"abe", "zoe"}, m.Names())

	require.NoError(t, m.Remove("abe"))
	require.NoError(t, m.Remove("ghost")) // idempotent
	assert.Equal(t, []string{"zoe"}, m.Names())
}

func TestCheckWithPrefetchedPosts(t *testing.T) {
	src := &fakeSource{}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	posts := []*feed.Post{post("1", "alice"), post("2", "bob")}
	activity, err := m.Check(context.Background(), posts, false)
	require.NoError(t, err)

	require.Len(t, activity, 1)
	assert.Equal(t, "alice", activity[0].Partner)
	require.Len(t, activity[0].NewPosts, 1)
	assert.Equal(t, "1", activity[0].NewPosts[0].ID)

	// Prefetched posts mean no feed fetch.
	assert.Zero(t, src.feedCalls)

	// Second round: nothing new, no activity at all.
	activity, err = m.Check(context.Background(), posts, false)
	require.NoError(t, err)
	assert.Empty(t, activity)
}

func TestCheckFetchesFeedsWhenNil(t *testing.T) {
	src := &fakeSource{feeds: map[string][]*feed.Post{
		"hot": {post("1", "alice")},
		"new": {post("2", "alice")},
	}}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	activity, err := m.Check(context.Background(), nil, false)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Len(t, activity[0].NewPosts, 2)
	assert.Equal(t, 2, src.feedCalls)
}

func TestCheckFeedFailureDegrades(t *testing.T) {
	src := &fakeSource{feedErr: errors.New("down")}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	activity, err := m.Check(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, activity)
}

func TestCheckWithSearch(t *testing.T) {
	src := &fakeSource{search: map[string][]*feed.Post{
		// The search result includes an impostor whose author differs.
		"alice": {post("s1", "alice"), post("s2", "alicia")},
	}}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	activity, err := m.Check(context.Background(), []*feed.Post{}, true)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	require.Len(t, activity[0].NewPosts, 1)
	assert.Equal(t, "s1", activity[0].NewPosts[0].ID)
	assert.Equal(t, []string{"alice"}, src.searchLogs)
}

func TestCheckSearchFailureDegrades(t *testing.T) {
	src := &fakeSource{searchErr: errors.New("search down")}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	activity, err := m.Check(context.Background(), []*feed.Post{post("1", "alice")}, true)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Len(t, activity[0].NewPosts, 1)
}

func TestCheckDeduplicatesAcrossFeedAndSearch(t *testing.T) {
	src := &fakeSource{search: map[string][]*feed.Post{
		"alice": {post("1", "alice")},
	}}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))

	activity, err := m.Check(context.Background(), []*feed.Post{post("1", "alice")}, true)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Len(t, activity[0].NewPosts, 1)
}

func TestMarkAllSeen(t *testing.T) {
	src := &fakeSource{feeds: map[string][]*feed.Post{
		"hot": {post("1", "alice"), post("2", "bob")},
	}}
	m := New(src, testPath(t))
	require.NoError(t, m.Add("alice"))
	require.NoError(t, m.Add("bob"))

	// Scoped to one partner.
	require.NoError(t, m.MarkAllSeen(context.Background(), "alice"))

	activity, err := m.Check(context.Background(), nil, false)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "bob", activity[0].Partner)

	// Unknown partner is a no-op.
	require.NoError(t, m.MarkAllSeen(context.Background(), "ghost"))
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	path := testPath(t)
	src := &fakeSource{}

	m1 := New(src, path)
	require.NoError(t, m1.Add("alice"))
	_, err := m1.Check(context.Background(), []*feed.Post{post("1", "alice")}, false)
	require.NoError(t, err)

	m2 := New(src, path)
	assert.Equal(t, []string{"alice"}, m2.Names())
	activity, err := m2.Check(context.Background(), []*feed.Post{post("1", "alice")}, false)
	require.NoError(t, err)
	assert.Empty(t, activity)
}
