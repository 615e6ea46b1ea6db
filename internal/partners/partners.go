// Package partners monitors named authors for new posts. Agents worth
// following up with tend to get lost in the feed churn; the monitor
// scans the aggregated hot+new feed (and optionally the search API) for
// each partner and reports only posts not seen in earlier rounds.
package partners

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

// feedLimit is how many posts each feed fetch requests.
const feedLimit = 25

// Source provides the feeds and search lookups the monitor scans.
type Source interface {
	Feed(ctx context.Context, sort string, limit int) (*feed.Page, error)
	Search(ctx context.Context, query string) (*feed.SearchResults, error)
}

type partnerState struct {
	SeenPostIDs []string `json:"seen_post_ids"`
}

type monitorData struct {
	Partners map[string]*partnerState `json:"partners"`
}

// Monitor is the persistent partner watcher.
type Monitor struct {
	path   string
	source Source
	data   monitorData
}

// New loads a monitor from path, or from the default state file when
// path is empty. A missing or corrupt file starts empty.
func New(source Source, path string) *Monitor {
	if path == "" {
		path = state.Resolve("partners.json")
	}
	m := &Monitor{path: path, source: source}
	state.Load(path, &m.data)
	if m.data.Partners == nil {
		m.data.Partners = make(map[string]*partnerState)
	}
	return m
}

func (m *Monitor) save() error {
	return state.Save(m.path, &m.data)
}

// Add starts monitoring a partner. Adding an existing name is a no-op.
func (m *Monitor) Add(name string) error {
	if _, ok := m.data.Partners[name]; ok {
		return nil
	}
	m.data.Partners[name] = &partnerState{SeenPostIDs: []string{}}
	return m.save()
}

// Remove stops monitoring a partner. Idempotent.
func (m *Monitor) Remove(name string) error {
	delete(m.data.Partners, name)
	return m.save()
}

// Names returns the monitored partner names, sorted.
func (m *Monitor) Names() []string {
	names := make([]string, 0, len(m.data.Partners))
	for name := range m.data.Partners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Activity reports one partner's new posts.
type Activity struct {
	Partner  string         `json:"partner"`
	NewPosts []feed.Summary `json:"new_posts"`
	Oneline  string         `json:"oneline"`
}

// Check scans for new partner posts. feedPosts, when non-nil, is a
// pre-fetched hot+new aggregate and skips the feed fetch; pass it when
// a session already holds the feed to avoid duplicate API calls.
// useSearch additionally queries the search API per partner; it is off
// by default because that API fails often and retries are slow, while
// the feed scan catches partners on hot/new anyway.
//
// Every post ID discovered this round, new or already seen, is folded
// into the partner's seen set before persisting. Only partners with at
// least one new post appear in the result.
func (m *Monitor) Check(ctx context.Context, feedPosts []*feed.Post, useSearch bool) ([]Activity, error) {
	if feedPosts == nil {
		feedPosts = m.fetchFeeds(ctx)
	}

	var results []Activity
	for _, name := range m.Names() {
		entry := m.data.Partners[name]
		seen := toSet(entry.SeenPostIDs)

		var foundIDs []string
		found := make(map[string]*feed.Post)
		add := func(p *feed.Post) {
			if p.ID == "" {
				return
			}
			if _, ok := found[p.ID]; !ok {
				foundIDs = append(foundIDs, p.ID)
			}
			found[p.ID] = p
		}

		for _, p := range feed.ByAuthor(feedPosts, name) {
			add(p)
		}
		if useSearch {
			for _, p := range m.searchPartner(ctx, name) {
				add(p)
			}
		}

		var newPosts []*feed.Post
		for _, id := range foundIDs {
			if !seen[id] {
				newPosts = append(newPosts, found[id])
			}
		}

		if len(newPosts) > 0 {
			results = append(results, Activity{
				Partner:  name,
				NewPosts: feed.SummarizeAll(newPosts),
				Oneline:  feed.OnelineFeed(newPosts),
			})
		}

		for _, id := range foundIDs {
			seen[id] = true
		}
		entry.SeenPostIDs = sortedKeys(seen)
	}
	return results, m.save()
}

// MarkAllSeen folds every currently visible partner post into the seen
// state without reporting anything. With a name, only that partner is
// updated; otherwise all partners are. Used at setup so the first real
// check is not flooded with pre-existing history.
func (m *Monitor) MarkAllSeen(ctx context.Context, name string) error {
	feedPosts := m.fetchFeeds(ctx)

	names := m.Names()
	if name != "" {
		if _, ok := m.data.Partners[name]; !ok {
			return nil
		}
		names = []string{name}
	}

	for _, pname := range names {
		entry := m.data.Partners[pname]
		seen := toSet(entry.SeenPostIDs)
		for _, p := range feed.ByAuthor(feedPosts, pname) {
			if p.ID != "" {
				seen[p.ID] = true
			}
		}
		entry.SeenPostIDs = sortedKeys(seen)
	}
	return m.save()
}

// fetchFeeds aggregates the hot and new feeds, tolerating either fetch
// failing independently.
func (m *Monitor) fetchFeeds(ctx context.Context) []*feed.Post {
	var posts []*feed.Post
	for _, ranking := range []string{"hot", "new"} {
		page, err := m.source.Feed(ctx, ranking, feedLimit)
		if err != nil {
			slog.Debug("partner feed fetch failed", "sort", ranking, "error", err)
			continue
		}
		posts = append(posts, page.Posts...)
	}
	return posts
}

// searchPartner queries the search API for a partner's posts, filtered
// to exact author matches. Failures contribute nothing.
func (m *Monitor) searchPartner(ctx context.Context, name string) []*feed.Post {
	res, err := m.source.Search(ctx, name)
	if err != nil {
		slog.Debug("partner search failed", "partner", name, "error", err)
		return nil
	}
	return feed.ByAuthor(res.Posts, name)
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

// Summary returns a compact text summary of the monitored partners.
func (m *Monitor) Summary() string {
	names := m.Names()
	if len(names) == 0 {
		return "No partners monitored."
	}
	var b strings.Builder
	b.WriteString("Monitored partners:")
	for _, name := range names {
		entry := m.data.Partners[name]
		fmt.Fprintf(&b, "\n  %s (%d posts seen)", name, len(entry.SeenPostIDs))
	}
	return b.String()
}
