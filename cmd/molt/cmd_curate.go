package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/micheloosterhof/moltbook/internal/blocklist"
	"github.com/micheloosterhof/moltbook/internal/config"
	"github.com/micheloosterhof/moltbook/internal/cursor"
	"github.com/micheloosterhof/moltbook/internal/partners"
	"github.com/micheloosterhof/moltbook/internal/rules"
	"github.com/micheloosterhof/moltbook/internal/tracker"
)

var blockCmd = &cobra.Command{
	Use:   "block <author>",
	Short: "Hide an author's posts and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := blocklist.New("")
		if err := b.Block(args[0], flagReason); err != nil {
			return err
		}
		fmt.Printf("blocked %s\n", args[0])
		return nil
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <author>",
	Short: "Remove an author from the blocklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := blocklist.New("")
		if err := b.Unblock(args[0]); err != nil {
			return err
		}
		fmt.Printf("unblocked %s\n", args[0])
		return nil
	},
}

var blocklistCmd = &cobra.Command{
	Use:   "blocklist",
	Short: "Show the blocklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(blocklist.New("").Summary())
		return nil
	},
}

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage kill/select feed rules",
}

var ruleAddCmd = &cobra.Command{
	Use:   "add <kill|select> <title|author|submolt> <pattern>",
	Short: "Add a rule; /pattern/ is a regex, anything else a substring",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := rules.New("")
		if err := r.Add(args[0], args[1], args[2], flagSubmolts, flagExpires); err != nil {
			return err
		}
		fmt.Println(r.Summary())
		return nil
	},
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the rule at an index from 'rule list'",
	Long:  "Removes a rule by its current list index. Indexes shift after every\nremoval, so always re-run 'rule list' before removing another.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be a number: %w", err)
		}
		r := rules.New("")
		if err := r.Remove(index); err != nil {
			return err
		}
		fmt.Println(r.Summary())
		return nil
	},
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active rules with their removal indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(rules.New("").Summary())
		return nil
	},
}

var partnerCmd = &cobra.Command{
	Use:   "partner",
	Short: "Manage monitored partner agents",
}

var partnerAddCmd = &cobra.Command{
	Use:   "add <agent>",
	Short: "Start monitoring an agent for new posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		m := partners.New(c, "")
		if err := m.Add(args[0]); err != nil {
			return err
		}
		fmt.Printf("monitoring %s\n", args[0])
		return nil
	},
}

var partnerRemoveCmd = &cobra.Command{
	Use:   "remove <agent>",
	Short: "Stop monitoring an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		m := partners.New(c, "")
		if err := m.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("stopped monitoring %s\n", args[0])
		return nil
	},
}

var partnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored partners",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		fmt.Println(partners.New(c, "").Summary())
		return nil
	},
}

var partnerCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check partners for new posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		m := partners.New(c, "")
		activity, err := m.Check(cmd.Context(), nil, flagSearch || cfg.Session.UseSearch)
		if err != nil {
			return err
		}
		if len(activity) == 0 {
			fmt.Println("No new partner activity.")
			return nil
		}
		return printJSON(activity)
	},
}

var partnerMarkSeenCmd = &cobra.Command{
	Use:   "mark-seen [agent]",
	Short: "Mark current partner posts as seen without reporting them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return partners.New(c, "").MarkAllSeen(cmd.Context(), name)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <post-id>",
	Short: "Watch a post for new comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		t := tracker.New(c, "")
		if err := t.Watch(args[0], ""); err != nil {
			return err
		}
		fmt.Printf("watching %s\n", args[0])
		return nil
	},
}

var unwatchCmd = &cobra.Command{
	Use:   "unwatch <post-id>",
	Short: "Stop watching a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		t := tracker.New(c, "")
		if err := t.Unwatch(args[0]); err != nil {
			return err
		}
		fmt.Printf("stopped watching %s\n", args[0])
		return nil
	},
}

var repliesCmd = &cobra.Command{
	Use:   "replies",
	Short: "Check watched posts for new replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		t := tracker.New(c, "")
		replies, err := t.CheckReplies(cmd.Context())
		if err != nil {
			return err
		}
		if len(replies) == 0 {
			fmt.Println("No new replies.")
			return nil
		}
		return printJSON(replies)
	},
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read <post-id>",
	Short: "Mark every comment on a watched post as seen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		return tracker.New(c, "").MarkAllSeen(cmd.Context(), args[0])
	},
}

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Show seen-post state per feed source",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cursor.New("").Summary())
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [source]",
	Short: "Clear seen-post state for one source, or all sources",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) > 0 {
			source = args[0]
		}
		if err := cursor.New("").Reset(source); err != nil {
			return err
		}
		if source == "" {
			fmt.Println("cleared all feed history")
		} else {
			fmt.Printf("cleared feed history for %s\n", source)
		}
		return nil
	},
}
