package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "?"},
		{name: "garbage", in: "not-a-time", want: "?"},
		{name: "just now", in: now.Format(time.RFC3339), want: "now"},
		{name: "minutes", in: now.Add(-5 * time.Minute).Format(time.RFC3339), want: "5m"},
		{name: "hours", in: now.Add(-3 * time.Hour).Format(time.RFC3339), want: "3h"},
		{name: "days", in: now.Add(-48 * time.Hour).Format(time.RFC3339), want: "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.in))
		})
	}
}

func TestSummarize(t *testing.T) {
	p := &Post{
		ID:           "p1",
		Title:        "title",
		Author:       "alice",
		Submolt:      "general",
		Upvotes:      3,
		CommentCount: 7,
		CreatedAt:    "2026-01-01T00:00:00Z",
	}
	got := Summarize(p)
	assert.Equal(t, Summary{
		ID:           "p1",
		Title:        "title",
		Author:       "alice",
		Submolt:      "general",
		Upvotes:      3,
		CommentCount: 7,
		CreatedAt:    "2026-01-01T00:00:00Z",
	}, got)
}

func TestOneline(t *testing.T) {
	created := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	p := &Post{ID: "p1", Title: "hello", Author: "alice", Submolt: "general", Upvotes: 4, CommentCount: 2, CreatedAt: created}
	assert.Equal(t, "[2h] hello — alice in m/general (4↑, 2 comments) p1", Oneline(p))

	// Without a submolt, the community segment disappears.
	p.Submolt = ""
	assert.Equal(t, "[2h] hello — alice (4↑, 2 comments) p1", Oneline(p))
}

func TestSummarizeProfileLimitsPosts(t *testing.T) {
	p := &Profile{
		Name:  "molty",
		Karma: 5,
		Posts: []*Post{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}
	got := SummarizeProfile(p, 2)
	assert.Equal(t, "molty", got["name"])
	assert.Len(t, got["posts"], 2)
}
