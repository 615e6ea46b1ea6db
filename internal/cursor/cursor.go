// Package cursor tracks which posts have already been surfaced, per feed
// source, so repeated polls only report genuinely new content. Inspired
// by nn's .newsrc high-water mark.
package cursor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

// maxSeenPerSource bounds each source's seen list. When exceeded, the
// oldest (earliest-inserted) IDs are evicted first.
const maxSeenPerSource = 500

// defaultSource is used when the caller passes no source name.
const defaultSource = "default"

type sourceState struct {
	SeenIDs     []string   `json:"seen_ids"`
	LastChecked *time.Time `json:"last_checked"`
}

type cursorData struct {
	Sources map[string]*sourceState `json:"sources"`
}

// Cursor is the per-source seen-post high-water mark. Sources ("hot",
// "new", submolt names) are fully independent.
type Cursor struct {
	path string
	data cursorData
}

// New loads a cursor from path, or from the default state file when path
// is empty. A missing or corrupt file starts empty.
func New(path string) *Cursor {
	if path == "" {
		path = state.Resolve("cursor.json")
	}
	c := &Cursor{path: path}
	state.Load(path, &c.data)
	if c.data.Sources == nil {
		c.data.Sources = make(map[string]*sourceState)
	}
	return c
}

func (c *Cursor) save() error {
	return state.Save(c.path, &c.data)
}

func (c *Cursor) source(name string) *sourceState {
	src, ok := c.data.Sources[name]
	if !ok {
		src = &sourceState{SeenIDs: []string{}}
		c.data.Sources[name] = src
	}
	return src
}

// MarkSeen records the IDs of posts as seen for a source.
func (c *Cursor) MarkSeen(posts []*feed.Post, source string) error {
	return c.MarkSeenIDs(feed.PostIDs(posts), source)
}

// MarkSeenIDs records bare post IDs as seen for a source, preserving
// first-seen order, then trims the oldest entries past the cap.
func (c *Cursor) MarkSeenIDs(ids []string, source string) error {
	if source == "" {
		source = defaultSource
	}
	src := c.source(source)

	seen := make(map[string]bool, len(src.SeenIDs))
	for _, id := range src.SeenIDs {
		seen[id] = true
	}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		src.SeenIDs = append(src.SeenIDs, id)
		seen[id] = true
	}
	if n := len(src.SeenIDs); n > maxSeenPerSource {
		src.SeenIDs = append([]string(nil), src.SeenIDs[n-maxSeenPerSource:]...)
	}

	now := time.Now().UTC()
	src.LastChecked = &now
	return c.save()
}

// Unseen filters a post list down to posts not yet seen for a source.
// Pure read: no state is modified.
func (c *Cursor) Unseen(posts []*feed.Post, source string) []*feed.Post {
	if source == "" {
		source = defaultSource
	}
	seen := make(map[string]bool)
	if src, ok := c.data.Sources[source]; ok {
		for _, id := range src.SeenIDs {
			seen[id] = true
		}
	}
	out := make([]*feed.Post, 0, len(posts))
	for _, p := range posts {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// CatchUp marks a source as checked now. With posts, their IDs are also
// recorded as seen. With an empty source (and no posts), every source's
// last-checked timestamp is updated.
func (c *Cursor) CatchUp(source string, posts []*feed.Post) error {
	if len(posts) > 0 {
		if err := c.MarkSeen(posts, source); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	if source != "" {
		c.source(source).LastChecked = &now
	} else {
		for _, src := range c.data.Sources {
			t := now
			src.LastChecked = &t
		}
	}
	return c.save()
}

// Reset clears seen state for one source, or for all sources when source
// is empty.
func (c *Cursor) Reset(source string) error {
	if source != "" {
		if _, ok := c.data.Sources[source]; ok {
			c.data.Sources[source] = &sourceState{SeenIDs: []string{}}
		}
	} else {
		c.data.Sources = make(map[string]*sourceState)
	}
	return c.save()
}

// SourceStats is the read-only projection of one source's state.
type SourceStats struct {
	SeenCount   int        `json:"seen_count"`
	LastChecked *time.Time `json:"last_checked"`
}

// Stats returns per-source counts.
func (c *Cursor) Stats() map[string]SourceStats {
	out := make(map[string]SourceStats, len(c.data.Sources))
	for name, src := range c.data.Sources {
		out[name] = SourceStats{
			SeenCount:   len(src.SeenIDs),
			LastChecked: src.LastChecked,
		}
	}
	return out
}

// Summary returns a compact text summary of the cursor.
func (c *Cursor) Summary() string {
	if len(c.data.Sources) == 0 {
		return "No feed history tracked."
	}
	names := make([]string, 0, len(c.data.Sources))
	for name := range c.data.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Feed cursor (%d sources):", len(names))
	for _, name := range names {
		src := c.data.Sources[name]
		last := "never"
		if src.LastChecked != nil {
			last = src.LastChecked.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "\n  %s: %d seen (last: %s)", name, len(src.SeenIDs), last)
	}
	return b.String()
}
