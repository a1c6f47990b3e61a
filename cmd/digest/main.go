// Command digest runs every (or one named) search profile once, sends the
// digest and exits. Meant for cron.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rent_radar/internal/application"
	"rent_radar/internal/config"
	"rent_radar/pkg/contextx"
	"rent_radar/pkg/logx"
)

func main() {
	var (
		dryRun   = flag.Bool("dry-run", false, "print the text digest to stdout instead of sending it")
		profiles = flag.String("profiles", "", "comma separated profile names, empty runs all")
	)

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.New(os.Stderr, "info").Error("config load", logx.Error(err))
		os.Exit(1)
	}

	// stdout занят дайджестом в dry-run
	log := logx.New(os.Stderr, cfg.App.LogLevel)
	ctx = contextx.WithLogger(ctx, log)

	opts := application.DigestOptions{
		DryRun: *dryRun,
		Out:    os.Stdout,
	}

	if *profiles != "" {
		opts.Profiles = strings.Split(*profiles, ",")
	}

	if err := application.RunDigest(ctx, cfg, opts); err != nil {
		log.Error("digest failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic // cancel is a no-op at this point
	}
}
