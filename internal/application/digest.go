package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rent_radar/internal/config"
	"rent_radar/internal/infrastructure/notifier"
	"rent_radar/internal/worker"
)

var errNoNotifiers = errors.New("no notifiers configured: set SMTP_HOST with receivers or BOT_TOKEN with BOT_CHAT_IDS")

type DigestOptions struct {
	// Profiles limits the run, empty means every profile.
	Profiles []string
	// DryRun writes the text digest to Out instead of sending it.
	DryRun bool
	Out    io.Writer
}

// RunDigest builds and sends a single digest, then returns.
func RunDigest(ctx context.Context, cfg config.Config, opts DigestOptions) error {
	c, err := build(ctx, cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer c.close(context.WithoutCancel(ctx))

	notifiers := c.notifiers
	if opts.DryRun {
		notifiers = []worker.Notifier{notifier.NewWriter(opts.Out)}
	}

	if len(notifiers) == 0 {
		return errNoNotifiers
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("time.LoadLocation(%s): %w", cfg.Schedule.Timezone, err)
	}

	scheduler, err := worker.NewDigestScheduler(c.service, cfg.Schedule.At, loc, notifiers...)
	if err != nil {
		return fmt.Errorf("worker.NewDigestScheduler: %w", err)
	}

	scheduler.SetProfiles(opts.Profiles)

	d, err := scheduler.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("scheduler.RunOnce: %w", err)
	}

	logger(ctx).Info("digest sent", slog.String("subject", d.Subject), slog.Bool("dry_run", opts.DryRun))

	return nil
}
