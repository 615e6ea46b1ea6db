// Package tracker watches posts for new replies. Moltbook has no
// notifications API, so the tracker diffs each watched post's comment
// tree against the IDs it has already seen, excluding the consumer's own
// comments.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

// ThreadFetcher fetches a post with its comment tree.
type ThreadFetcher interface {
	Thread(ctx context.Context, postID string) (*feed.Thread, error)
}

type watchState struct {
	MyCommentIDs   []string `json:"my_comment_ids"`
	SeenCommentIDs []string `json:"seen_comment_ids"`
}

type trackerData struct {
	Watched map[string]*watchState `json:"watched"`
}

// Tracker is the persistent reply tracker.
type Tracker struct {
	path   string
	source ThreadFetcher
	data   trackerData
}

// New loads a tracker from path, or from the default state file when
// path is empty. A missing or corrupt file starts empty.
func New(source ThreadFetcher, path string) *Tracker {
	if path == "" {
		path = state.Resolve("tracker.json")
	}
	t := &Tracker{path: path, source: source}
	state.Load(path, &t.data)
	if t.data.Watched == nil {
		t.data.Watched = make(map[string]*watchState)
	}
	return t
}

func (t *Tracker) save() error {
	return state.Save(t.path, &t.data)
}

// Watch starts watching a post for new comments. myCommentID, when
// given, records a comment of our own on the post so it is never
// reported back as a new reply. Repeated calls accumulate own-comment
// IDs without duplicates.
func (t *Tracker) Watch(postID, myCommentID string) error {
	entry, ok := t.data.Watched[postID]
	if !ok {
		entry = &watchState{
			MyCommentIDs:   []string{},
			SeenCommentIDs: []string{},
		}
		t.data.Watched[postID] = entry
	}
	if myCommentID != "" && !contains(entry.MyCommentIDs, myCommentID) {
		entry.MyCommentIDs = append(entry.MyCommentIDs, myCommentID)
	}
	return t.save()
}

// Unwatch stops watching a post.
func (t *Tracker) Unwatch(postID string) error {
	delete(t.data.Watched, postID)
	return t.save()
}

// Watched returns the watched post IDs, sorted.
func (t *Tracker) Watched() []string {
	ids := make([]string, 0, len(t.data.Watched))
	for id := range t.data.Watched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reply reports the new comments found on one watched post.
type Reply struct {
	PostID      string          `json:"post_id"`
	PostTitle   string          `json:"post_title"`
	NewComments []*feed.Comment `json:"new_comments"`
}

// CheckReplies fetches every watched post and reports comments whose ID
// is in neither the seen set nor the own-comment set. A fetch failure
// for one post is swallowed: that post contributes nothing this round
// and the remaining posts are still checked. After each successful
// fetch, the post's seen set is replaced with the IDs observed in the
// current tree plus the own-comment set.
func (t *Tracker) CheckReplies(ctx context.Context) ([]Reply, error) {
	var results []Reply
	for _, postID := range t.Watched() {
		entry := t.data.Watched[postID]

		thread, err := t.source.Thread(ctx, postID)
		if err != nil {
			slog.Debug("reply check skipped", "post", postID, "error", err)
			continue
		}

		seen := toSet(entry.SeenCommentIDs)
		mine := toSet(entry.MyCommentIDs)
		newComments := findNew(thread.Comments, seen, mine)

		if len(newComments) > 0 {
			results = append(results, Reply{
				PostID:      postID,
				PostTitle:   thread.Title(),
				NewComments: newComments,
			})
		}

		all := toSet(feed.CollectCommentIDs(thread.Comments))
		for id := range mine {
			all[id] = true
		}
		entry.SeenCommentIDs = sortedKeys(all)
	}
	return results, t.save()
}

// MarkAllSeen force-marks every comment currently on a post as seen
// without reporting it, so a reset watch does not flood the next check
// with historical replies. A fetch failure leaves the entry unchanged.
func (t *Tracker) MarkAllSeen(ctx context.Context, postID string) error {
	entry, ok := t.data.Watched[postID]
	if !ok {
		return nil
	}
	thread, err := t.source.Thread(ctx, postID)
	if err != nil {
		slog.Debug("mark-all-seen skipped", "post", postID, "error", err)
		return nil
	}
	ids := feed.CollectCommentIDs(thread.Comments)
	sort.Strings(ids)
	entry.SeenCommentIDs = ids
	return t.save()
}

// findNew walks the tree depth-first collecting comments that are
// neither seen nor ours.
func findNew(comments []*feed.Comment, seen, mine map[string]bool) []*feed.Comment {
	var out []*feed.Comment
	for _, c := range comments {
		if !seen[c.ID] && !mine[c.ID] {
			out = append(out, c)
		}
		if len(c.Replies) > 0 {
			out = append(out, findNew(c.Replies, seen, mine)...)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary returns a compact text summary of the watched posts.
func (t *Tracker) Summary() string {
	if len(t.data.Watched) == 0 {
		return "No posts watched."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Watched posts (%d):", len(t.data.Watched))
	for _, id := range t.Watched() {
		entry := t.data.Watched[id]
		fmt.Fprintf(&b, "\n  %s (%d seen, %d mine)", id, len(entry.SeenCommentIDs), len(entry.MyCommentIDs))
	}
	return b.String()
}
