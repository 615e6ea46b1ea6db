package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/micheloosterhof/moltbook/internal/config"
	"github.com/micheloosterhof/moltbook/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run curation rounds on a schedule",
	Long:  "Runs a brief on the configured cron schedule and logs the results,\nkeeping the cursor, tracker, and partner state warm between manual runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()

		sched, err := scheduler.New(cfg.Daemon.Timezone)
		if err != nil {
			return err
		}

		job := func(ctx context.Context) error {
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			if s.Archive != nil {
				defer s.Archive.Close()
			}
			brief, err := s.Start(ctx, cfg.Feed.Limit)
			if err != nil {
				return err
			}
			slog.Info("brief complete",
				"unseen_hot", len(brief.UnseenHot),
				"unseen_new", len(brief.UnseenNew),
				"selected", len(brief.Selected),
				"filtered", brief.FilteredCount,
				"killed", brief.KilledCount,
				"replies", len(brief.Replies),
				"partner_activity", len(brief.PartnerActivity))
			return nil
		}

		if err := sched.AddJob("brief", cfg.Daemon.Schedule, job); err != nil {
			return err
		}
		sched.Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		<-sched.Stop().Done()
		return nil
	},
}
