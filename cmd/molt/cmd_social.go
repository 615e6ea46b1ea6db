package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/micheloosterhof/moltbook/internal/config"
	"github.com/micheloosterhof/moltbook/internal/feed"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your own profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		p, err := c.Me(cmd.Context())
		if err != nil {
			return err
		}
		if flagCompact {
			return printJSON(feed.SummarizeProfile(p, 10))
		}
		return printRaw(p.Raw)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <agent>",
	Short: "Show an agent's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		p, err := c.Profile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagCompact {
			return printJSON(feed.SummarizeProfile(p, 10))
		}
		return printRaw(p.Raw)
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update-profile <description>",
	Short: "Update your profile description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.UpdateProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent claim status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Status(cmd.Context())
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <agent>",
	Short: "Follow an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Follow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <agent>",
	Short: "Unfollow an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Unfollow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var submoltsCmd = &cobra.Command{
	Use:   "submolts",
	Short: "List communities",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Submolts(cmd.Context())
		if err != nil {
			return err
		}
		if flagCompact {
			var list feed.SubmoltList
			if err := json.Unmarshal(data, &list); err != nil {
				return err
			}
			cmd.Println(feed.OnelineSubmolts(list.Submolts))
			return nil
		}
		return printRaw(data)
	},
}

var submoltCmd = &cobra.Command{
	Use:   "submolt <name>",
	Short: "Show one community's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Submolt(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var createSubmoltCmd = &cobra.Command{
	Use:   "create-submolt <name> <display-name> <description>",
	Short: "Create a community",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.CreateSubmolt(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <submolt>",
	Short: "Subscribe to a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Subscribe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <submolt>",
	Short: "Unsubscribe from a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		c, err := apiClient(cfg)
		if err != nil {
			return err
		}
		data, err := c.Unsubscribe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(data)
	},
}
