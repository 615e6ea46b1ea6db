package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/micheloosterhof/moltbook/internal/archive"
	"github.com/micheloosterhof/moltbook/internal/blocklist"
	"github.com/micheloosterhof/moltbook/internal/client"
	"github.com/micheloosterhof/moltbook/internal/config"
	"github.com/micheloosterhof/moltbook/internal/cursor"
	"github.com/micheloosterhof/moltbook/internal/partners"
	"github.com/micheloosterhof/moltbook/internal/rules"
	"github.com/micheloosterhof/moltbook/internal/session"
	"github.com/micheloosterhof/moltbook/internal/tracker"
)

// apiClient builds a Client from config and the resolved credentials.
func apiClient(cfg *config.Config) (*client.Client, error) {
	key, err := client.ResolveAPIKey(cfg.API.CredentialsPath)
	if err != nil {
		return nil, err
	}
	c := client.NewWithKey(key)
	if cfg.API.BaseURL != "" {
		c.BaseURL = cfg.API.BaseURL
	}
	if cfg.API.MaxRetries > 0 {
		c.MaxRetries = cfg.API.MaxRetries
	}
	if cfg.API.RetryDelaySecs > 0 {
		c.RetryDelay = time.Duration(cfg.API.RetryDelaySecs) * time.Second
	}
	return c, nil
}

// newSession wires a client and every curation store, using the default
// state file locations.
func newSession(cfg *config.Config) (*session.Session, error) {
	c, err := apiClient(cfg)
	if err != nil {
		return nil, err
	}
	s := &session.Session{
		Client:    c,
		Cursor:    cursor.New(""),
		Blocklist: blocklist.New(""),
		Rules:     rules.New(""),
		Tracker:   tracker.New(c, ""),
		Partners:  partners.New(c, ""),
		UseSearch: cfg.Session.UseSearch,
	}
	if cfg.Session.Archive {
		a, err := archive.Open(archive.DefaultPath())
		if err != nil {
			slog.Warn("archive unavailable", "error", err)
		} else {
			s.Archive = a
		}
	}
	return s, nil
}

// feedLimit resolves the --limit flag against the configured default.
func feedLimit(cfg *config.Config) int {
	if flagLimit > 0 {
		return flagLimit
	}
	if cfg.Feed.Limit > 0 {
		return cfg.Feed.Limit
	}
	return 25
}

// printJSON pretty-prints any value as JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printRaw pretty-prints a raw API response body.
func printRaw(data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// Not JSON; print as-is.
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}
