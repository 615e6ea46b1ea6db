// Package session orchestrates a curation round: fetch the feeds, strip
// blocked authors, apply kill/select rules, surface only unseen posts,
// then check watched threads and partner activity. Each store stays
// independently usable; the session only wires them together.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/micheloosterhof/moltbook/internal/archive"
	"github.com/micheloosterhof/moltbook/internal/blocklist"
	"github.com/micheloosterhof/moltbook/internal/cursor"
	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/partners"
	"github.com/micheloosterhof/moltbook/internal/rules"
	"github.com/micheloosterhof/moltbook/internal/tracker"
)

// Client is the API surface a session needs.
type Client interface {
	Feed(ctx context.Context, sort string, limit int) (*feed.Page, error)
	Thread(ctx context.Context, postID string) (*feed.Thread, error)
	Search(ctx context.Context, query string) (*feed.SearchResults, error)
	Comment(ctx context.Context, postID, content, parentID string) (*feed.CommentRef, error)
	Me(ctx context.Context) (*feed.Profile, error)
	Profile(ctx context.Context, name string) (*feed.Profile, error)
}

// Session holds a client plus the curation stores. Stores left nil are
// skipped, so a caller can run a session with only the pieces it wants.
type Session struct {
	Client    Client
	Cursor    *cursor.Cursor
	Blocklist *blocklist.Blocklist
	Rules     *rules.Rules
	Tracker   *tracker.Tracker
	Partners  *partners.Monitor
	Archive   *archive.Archive

	// UseSearch extends partner checks with the search API.
	UseSearch bool
}

// Brief is the outcome of one session round.
type Brief struct {
	UnseenHot       []feed.Summary      `json:"unseen_hot"`
	UnseenNew       []feed.Summary      `json:"unseen_new"`
	Selected        []feed.Summary      `json:"selected"`
	FilteredCount   int                 `json:"filtered_count"`
	KilledCount     int                 `json:"killed_count"`
	Replies         []tracker.Reply     `json:"replies"`
	PartnerActivity []partners.Activity `json:"partner_activity"`
}

// Start runs a full curation round. Feed fetch failures are fatal; the
// reply and partner checks degrade per item instead.
func (s *Session) Start(ctx context.Context, limit int) (*Brief, error) {
	hot, err := s.Client.Feed(ctx, "hot", limit)
	if err != nil {
		return nil, fmt.Errorf("fetching hot feed: %w", err)
	}
	newPage, err := s.Client.Feed(ctx, "new", limit)
	if err != nil {
		return nil, fmt.Errorf("fetching new feed: %w", err)
	}

	if s.Archive != nil {
		if err := s.Archive.SavePosts(hot.Posts, "hot"); err != nil {
			slog.Warn("archiving hot feed failed", "error", err)
		}
		if err := s.Archive.SavePosts(newPage.Posts, "new"); err != nil {
			slog.Warn("archiving new feed failed", "error", err)
		}
	}

	brief := &Brief{}

	hotPosts, newPosts := hot.Posts, newPage.Posts
	if s.Blocklist != nil {
		before := len(hotPosts) + len(newPosts)
		hotPosts = s.Blocklist.FilterPosts(hotPosts)
		newPosts = s.Blocklist.FilterPosts(newPosts)
		brief.FilteredCount = before - len(hotPosts) - len(newPosts)
	}

	var selected []*feed.Post
	if s.Rules != nil {
		hotRes := s.Rules.Apply(hotPosts)
		newRes := s.Rules.Apply(newPosts)
		hotPosts, newPosts = hotRes.Keep, newRes.Keep
		brief.KilledCount = len(hotRes.Killed) + len(newRes.Killed)
		selected = append(selected, hotRes.Selected...)
		selected = append(selected, newRes.Selected...)
	}
	brief.Selected = feed.SummarizeAll(selected)

	unseenHot, unseenNew := hotPosts, newPosts
	if s.Cursor != nil {
		unseenHot = s.Cursor.Unseen(hotPosts, "hot")
		unseenNew = s.Cursor.Unseen(newPosts, "new")
		if err := s.Cursor.MarkSeen(hotPosts, "hot"); err != nil {
			return nil, fmt.Errorf("updating hot cursor: %w", err)
		}
		if err := s.Cursor.MarkSeen(newPosts, "new"); err != nil {
			return nil, fmt.Errorf("updating new cursor: %w", err)
		}
	}
	brief.UnseenHot = feed.SummarizeAll(unseenHot)
	brief.UnseenNew = feed.SummarizeAll(unseenNew)

	if s.Tracker != nil {
		replies, err := s.Tracker.CheckReplies(ctx)
		if err != nil {
			return nil, fmt.Errorf("checking replies: %w", err)
		}
		brief.Replies = replies
	}

	if s.Partners != nil {
		combined := append(append([]*feed.Post{}, hotPosts...), newPosts...)
		activity, err := s.Partners.Check(ctx, combined, s.UseSearch)
		if err != nil {
			return nil, fmt.Errorf("checking partners: %w", err)
		}
		brief.PartnerActivity = activity
	}

	return brief, nil
}

// CatchUp fetches the named feed and marks everything in it as seen, so
// the next brief starts from a clean slate.
func (s *Session) CatchUp(ctx context.Context, source string, limit int) (int, error) {
	if s.Cursor == nil {
		return 0, fmt.Errorf("no cursor configured")
	}
	page, err := s.Client.Feed(ctx, source, limit)
	if err != nil {
		return 0, fmt.Errorf("fetching %s feed: %w", source, err)
	}
	return len(page.Posts), s.Cursor.CatchUp(source, page.Posts)
}

// PostView is a post rendered for reading: the post itself plus a
// filtered, flattened comment list.
type PostView struct {
	Post     *feed.Post      `json:"post"`
	Comments []*feed.Comment `json:"comments"`
}

// ReadPost fetches a thread and applies the blocklist and kill rules to
// its comment tree before flattening it for display.
func (s *Session) ReadPost(ctx context.Context, postID string) (*PostView, error) {
	thread, err := s.Client.Thread(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments := thread.Comments
	if s.Blocklist != nil {
		comments = s.Blocklist.FilterComments(comments)
	}
	if s.Rules != nil {
		comments = s.Rules.ApplyComments(comments)
	}
	return &PostView{
		Post:     thread.Post,
		Comments: feed.FlattenComments(comments),
	}, nil
}

// MyRecentPosts returns compact summaries of our own latest posts, via
// the profile endpoint. An unnamed profile yields an empty list.
func (s *Session) MyRecentPosts(ctx context.Context, limit int) ([]feed.Summary, error) {
	me, err := s.Client.Me(ctx)
	if err != nil {
		return nil, err
	}
	if me.Name == "" {
		return nil, nil
	}
	profile, err := s.Client.Profile(ctx, me.Name)
	if err != nil {
		return nil, err
	}
	posts := profile.Posts
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return feed.SummarizeAll(posts), nil
}

// CommentAndWatch posts a comment and registers the post with the reply
// tracker so responses surface in later briefs. The comment lands even
// when tracking it fails; the error reports only the tracking half.
func (s *Session) CommentAndWatch(ctx context.Context, postID, content, parentID string) (*feed.CommentRef, error) {
	ref, err := s.Client.Comment(ctx, postID, content, parentID)
	if err != nil {
		return nil, err
	}
	if s.Tracker != nil {
		if err := s.Tracker.Watch(postID, ref.ID); err != nil {
			return ref, fmt.Errorf("comment posted but watch failed: %w", err)
		}
	}
	return ref, nil
}
