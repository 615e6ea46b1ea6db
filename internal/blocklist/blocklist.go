// Package blocklist strips known spam authors from post lists and
// comment trees before anything reaches the consumer.
package blocklist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

type blocklistData struct {
	Blocked []string          `json:"blocked"`
	Reasons map[string]string `json:"reasons"`
}

// Blocklist is an exact-name author blocklist with optional free-text
// reasons. Reasons are advisory metadata: membership is decided by the
// blocked list alone.
type Blocklist struct {
	path string
	data blocklistData
}

// New loads a blocklist from path, or from the default state file when
// path is empty. A missing or corrupt file starts empty.
func New(path string) *Blocklist {
	if path == "" {
		path = state.Resolve("blocklist.json")
	}
	b := &Blocklist{path: path}
	state.Load(path, &b.data)
	if b.data.Blocked == nil {
		b.data.Blocked = []string{}
	}
	if b.data.Reasons == nil {
		b.data.Reasons = make(map[string]string)
	}
	return b
}

func (b *Blocklist) save() error {
	return state.Save(b.path, &b.data)
}

// Block adds an author to the blocklist. Idempotent; a non-empty reason
// is recorded (and overwrites any previous reason).
func (b *Blocklist) Block(name, reason string) error {
	if !b.IsBlocked(name) {
		b.data.Blocked = append(b.data.Blocked, name)
	}
	if reason != "" {
		b.data.Reasons[name] = reason
	}
	return b.save()
}

// Unblock removes an author from the blocklist. Idempotent.
func (b *Blocklist) Unblock(name string) error {
	kept := b.data.Blocked[:0]
	for _, n := range b.data.Blocked {
		if n != name {
			kept = append(kept, n)
		}
	}
	b.data.Blocked = kept
	delete(b.data.Reasons, name)
	return b.save()
}

// IsBlocked reports whether a normalized author name is blocked.
func (b *Blocklist) IsBlocked(name string) bool {
	for _, n := range b.data.Blocked {
		if n == name {
			return true
		}
	}
	return false
}

func (b *Blocklist) set() map[string]bool {
	m := make(map[string]bool, len(b.data.Blocked))
	for _, n := range b.data.Blocked {
		m[n] = true
	}
	return m
}

// FilterPosts removes posts by blocked authors, preserving order. The
// input list is not modified.
func (b *Blocklist) FilterPosts(posts []*feed.Post) []*feed.Post {
	blocked := b.set()
	out := make([]*feed.Post, 0, len(posts))
	for _, p := range posts {
		if !blocked[p.AuthorName()] {
			out = append(out, p)
		}
	}
	return out
}

// FilterComments removes comments by blocked authors from a comment
// tree. When a blocked comment has non-blocked replies, the replies are
// promoted into its place rather than lost with their parent.
func (b *Blocklist) FilterComments(comments []*feed.Comment) []*feed.Comment {
	blocked := b.set()
	return feed.PruneAndPromote(comments, func(c *feed.Comment) bool {
		return blocked[c.AuthorName()]
	})
}

// FilterThread returns a thread with blocked comments removed. The input
// thread is not modified.
func (b *Blocklist) FilterThread(t *feed.Thread) *feed.Thread {
	if t == nil {
		return nil
	}
	return &feed.Thread{Post: t.Post, Comments: b.FilterComments(t.Comments)}
}

// Stats is the read-only projection of the blocklist.
type Stats struct {
	Count       int               `json:"count"`
	Blocked     []string          `json:"blocked"`
	WithReasons map[string]string `json:"with_reasons"`
}

// Stats returns the blocklist projection. Only reasons for currently
// blocked names are included.
func (b *Blocklist) Stats() Stats {
	withReasons := make(map[string]string)
	for _, n := range b.data.Blocked {
		if r, ok := b.data.Reasons[n]; ok {
			withReasons[n] = r
		}
	}
	return Stats{
		Count:       len(b.data.Blocked),
		Blocked:     append([]string(nil), b.data.Blocked...),
		WithReasons: withReasons,
	}
}

// Summary returns a compact text summary of the blocklist.
func (b *Blocklist) Summary() string {
	if len(b.data.Blocked) == 0 {
		return "Blocklist is empty."
	}
	names := append([]string(nil), b.data.Blocked...)
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Blocklist (%d blocked):", len(names))
	for _, name := range names {
		if reason := b.data.Reasons[name]; reason != "" {
			fmt.Fprintf(&sb, "\n  %s - %s", name, reason)
		} else {
			fmt.Fprintf(&sb, "\n  %s", name)
		}
	}
	return sb.String()
}
