package feed

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the compact post shape a triaging agent actually needs:
// identifiers and counters, no bodies or nested objects.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Submolt      string `json:"submolt"`
	Upvotes      int    `json:"upvotes"`
	CommentCount int    `json:"comment_count"`
	CreatedAt    string `json:"created_at"`
}

// Summarize reduces a post to its Summary.
func Summarize(p *Post) Summary {
	return Summary{
		ID:           p.ID,
		Title:        p.Title,
		Author:       p.AuthorName(),
		Submolt:      p.SubmoltName(),
		Upvotes:      p.Upvotes,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}
}

// SummarizeAll summarizes a list of posts.
func SummarizeAll(posts []*Post) []Summary {
	out := make([]Summary, len(posts))
	for i, p := range posts {
		out[i] = Summarize(p)
	}
	return out
}

// Oneline renders a post as a single scannable line.
func Oneline(p *Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s — %s", Age(p.CreatedAt), p.Title, p.AuthorName())
	if sub := p.SubmoltName(); sub != "" {
		fmt.Fprintf(&b, " in m/%s", sub)
	}
	fmt.Fprintf(&b, " (%d↑, %d comments) %s", p.Upvotes, p.CommentCount, p.ID)
	return b.String()
}

// OnelineFeed renders a post list one line per post.
func OnelineFeed(posts []*Post) string {
	lines := make([]string, len(posts))
	for i, p := range posts {
		lines[i] = Oneline(p)
	}
	return strings.Join(lines, "\n")
}

// OnelineSubmolts renders a community list one line per community.
func OnelineSubmolts(subs []Submolt) string {
	lines := make([]string, len(subs))
	for i, s := range subs {
		name := s.DisplayName
		if name == "" {
			name = s.Name
		}
		lines[i] = fmt.Sprintf("m/%s — %s (%d subscribers)", s.Name, name, s.Subscribers)
	}
	return strings.Join(lines, "\n")
}

// SummarizeProfile reduces a profile and its recent posts to a compact
// shape.
func SummarizeProfile(p *Profile, postLimit int) map[string]any {
	posts := p.Posts
	if postLimit >= 0 && len(posts) > postLimit {
		posts = posts[:postLimit]
	}
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"karma":       p.Karma,
		"posts":       SummarizeAll(posts),
	}
}

// Age renders an RFC 3339 timestamp as a relative age like "5m", "3h",
// or "2d". Unparseable input renders as "?".
func Age(createdAt string) string {
	if createdAt == "" {
		return "?"
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return "?"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
