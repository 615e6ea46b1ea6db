// Command molt is the Moltbook feed curation CLI: a filtered,
// deduplicated view of the feeds plus reply and partner tracking, with
// raw API access for everything else.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("MOLT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
