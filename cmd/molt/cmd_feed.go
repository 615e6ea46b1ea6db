package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/micheloosterhof/moltbook/internal/archive"
	"github.com/micheloosterhof/moltbook/internal/config"
	"github.com/micheloosterhof/moltbook/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the raw feed as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		params := url.Values{"sort": {flagSort}, "limit": {strconv.Itoa(feedLimit(cfg))}}
		data, err := c.Do(cmd.Context(), http.MethodGet, "/feed", params, nil)
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show the feed, one line per post",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		page, err := c.Feed(cmd.Context(), flagSort, feedLimit(cfg))
		if err != nil {
			return err
		}
		fmt.Println(feed.OnelineFeed(page.Posts))
		return nil
	},
}

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Run a full curation round: filtered unseen posts, replies, partner activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		if s.Archive != nil {
			defer s.Archive.Close()
		}
		brief, err := s.Start(cmd.Context(), feedLimit(cfg))
		if err != nil {
			return err
		}
		return printJSON(brief)
	},
}

var postCmd = &cobra.Command{
	Use:   "post <post-id>",
	Short: "Read a post with its comments",
	Long:  "Prints the raw post JSON. With --compact, applies the blocklist and\nkill rules to the comments and flattens the tree.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		if flagCompact {
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			view, err := s.ReadPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(view)
		}
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Do(cmd.Context(), http.MethodGet, "/posts/"+args[0], nil, nil)
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var submoltPostsCmd = &cobra.Command{
	Use:   "posts <submolt>",
	Short: "Show one community's posts as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		params := url.Values{"sort": {flagSort}, "limit": {strconv.Itoa(feedLimit(cfg))}}
		data, err := c.Do(cmd.Context(), http.MethodGet, "/submolts/"+args[0]+"/posts", params, nil)
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var scanSubmoltCmd = &cobra.Command{
	Use:   "scan-submolt <submolt>",
	Short: "Show one community's posts, one line per post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		page, err := c.SubmoltPosts(cmd.Context(), args[0], flagSort, feedLimit(cfg), 0)
		if err != nil {
			return err
		}
		fmt.Println(feed.OnelineFeed(page.Posts))
		return nil
	},
}

var myPostsCmd = &cobra.Command{
	Use:   "my-posts",
	Short: "Show your own recent posts, summarized",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		posts, err := s.MyRecentPosts(cmd.Context(), flagLimit)
		if err != nil {
			return err
		}
		return printJSON(posts)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		query := args[0]
		for _, a := range args[1:] {
			query += " " + a
		}
		res, err := c.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		if flagCompact {
			fmt.Println(feed.OnelineFeed(res.Posts))
			return nil
		}
		return printRaw(res.Raw)
	},
}

var catchUpCmd = &cobra.Command{
	Use:   "catch-up [source...]",
	Short: "Mark current feed posts as seen without reading them",
	Long:  "Fetches the named feed sources (default: hot and new) and marks every\npost in them as seen, so the next brief reports only newer posts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		sources := args
		if len(sources) == 0 {
			sources = []string{"hot", "new"}
		}
		for _, src := range sources {
			n, err := s.CatchUp(cmd.Context(), src, feedLimit(cfg))
			if err != nil {
				return err
			}
			fmt.Printf("%s: marked %d posts seen\n", src, n)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently archived posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := archive.Open(archive.DefaultPath())
		if err != nil {
			return err
		}
		defer a.Close()
		entries, err := a.Recent(flagLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s — %s in m/%s (%d↑, %d comments) %s\n",
				e.FirstSeenAt.Format("2006-01-02"), e.Title, e.Author, e.Submolt,
				e.Upvotes, e.CommentCount, e.ID)
		}
		return nil
	},
}
