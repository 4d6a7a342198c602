// Package main implements the offline snapshot rebuild job. It scans open
// tracking issues on the git host, extracts each submission's summary
// block, and emits the resulting catalog entries as JSON for review and
// manual merge into the published snapshot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"modhub/internal/config"
	"modhub/internal/hub"
	"modhub/internal/submissions"
)

func main() {
	out := flag.String("out", "-", "output path, - for stdout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	host := hub.New(cfg.RepoOwner, cfg.RepoName, cfg.RepoToken)
	if cfg.HubBaseURL != "" {
		host.SetBaseURL(cfg.HubBaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summaries, err := collect(ctx, host)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}
	slog.Info("tracking issues scanned", "submissions", len(summaries))

	raw, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		slog.Error("encode failed", "error", err)
		os.Exit(1)
	}
	raw = append(raw, '\n')

	if *out == "-" {
		os.Stdout.Write(raw)
		return
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		slog.Error("write failed", "path", *out, "error", err)
		os.Exit(1)
	}
	slog.Info("snapshot candidates written", "path", *out)
}

// collect pages through open tracking issues and parses their summary
// blocks. Issues without a parseable block are logged and skipped.
func collect(ctx context.Context, host *hub.Client) ([]*submissions.Summary, error) {
	var all []*submissions.Summary
	for page := 1; ; page++ {
		issues, err := host.ListIssues(ctx, submissions.TrackingLabel, page)
		if err != nil {
			return nil, err
		}
		if len(issues) == 0 {
			return all, nil
		}
		for _, issue := range issues {
			sum, ok := submissions.ExtractSummary(issue.Body)
			if !ok {
				slog.Warn("issue without summary block skipped", "issue", issue.Number)
				continue
			}
			all = append(all, sum)
		}
	}
}
