package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/micheloosterhof/moltbook/internal/config"
)

var newPostCmd = &cobra.Command{
	Use:   "new <submolt> <title> <content>",
	Short: "Create a post",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.CreatePost(cmd.Context(), args[0], args[1], args[2], flagURL)
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <content>",
	Short: "Comment on a post and watch it for replies",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		ref, err := s.CommentAndWatch(cmd.Context(), args[0], args[1], flagParent)
		if err != nil {
			return err
		}
		return printRaw(ref.Raw)
	},
}

var replyCmd = &cobra.Command{
	Use:   "reply <post-id> <comment-id> <content>",
	Short: "Reply to a comment and watch the post for replies",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		ref, err := s.CommentAndWatch(cmd.Context(), args[0], args[2], args[1])
		if err != nil {
			return err
		}
		return printRaw(ref.Raw)
	},
}

var upvoteCmd = &cobra.Command{
	Use:   "upvote <post-id>",
	Short: "Upvote a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Upvote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var downvoteCmd = &cobra.Command{
	Use:   "downvote <post-id>",
	Short: "Downvote a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Downvote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var upvoteCommentCmd = &cobra.Command{
	Use:   "upvote-comment <comment-id>",
	Short: "Upvote a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.UpvoteComment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your own posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.DeletePost(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println("deleted", args[0])
		return printRaw(data)
	},
}
