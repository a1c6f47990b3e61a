package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"rent_radar/internal/config"
	"rent_radar/internal/domain/service/housing"
	"rent_radar/internal/domain/service/travel"
	"rent_radar/internal/infrastructure/distancematrix"
	"rent_radar/internal/infrastructure/listings"
	"rent_radar/internal/infrastructure/notifier"
	"rent_radar/internal/infrastructure/persistence"
	"rent_radar/internal/infrastructure/travelcache"
	"rent_radar/internal/server"
	"rent_radar/internal/transport/bot"
	"rent_radar/internal/transport/bot/handler"
	"rent_radar/internal/worker"
	"rent_radar/pkg/application/connectors"
	"rent_radar/pkg/application/modules"
	"rent_radar/pkg/logx"
	"rent_radar/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// components is everything both binaries share.
type components struct {
	cfg       config.Config
	search    config.Search
	service   *housing.Service
	notifiers []worker.Notifier
	bot       *telego.Bot
	pg        *connectors.Postgres
	redis     *connectors.Redis
	closers   []func(context.Context)
}

func (c *components) close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i](ctx)
	}
}

func (c *components) ready(ctx context.Context) error {
	if c.pg != nil {
		if err := c.pg.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	return nil
}

func build(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*components, error) {
	search, err := config.LoadSearch(cfg.SearchPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadSearch: %w", err)
	}

	c := &components{cfg: cfg, search: search}

	// Travel cache: redis when configured, иначе в памяти процесса
	policy := travel.DefaultFreshnessPolicy()
	policy.MaxAge = cfg.Enricher.CacheTTL

	var store travel.Store = travelcache.NewMemory(policy.MaxAge)

	if cfg.Redis.Enabled() {
		c.redis = &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		}
		store = travelcache.NewRedis(c.redis.Client(ctx), policy.MaxAge)
		c.closers = append(c.closers, c.redis.Close)
	}

	var repo housing.BatchRepository

	if cfg.Postgres.Enabled() {
		c.pg = &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		repo = persistence.NewScoredListingRepository(c.pg.Client(ctx))
		c.closers = append(c.closers, c.pg.Close)
	}

	loc, err := time.LoadLocation(cfg.Distance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s): %w", cfg.Distance.Timezone, err)
	}

	provider := distancematrix.NewClient(distancematrix.Config{
		BaseURL:  cfg.Distance.BaseURL,
		APIKey:   cfg.Distance.APIKey,
		Timeout:  cfg.Distance.Timeout,
		Location: loc,
	})

	enricher := travel.NewEnricher(provider, store, policy, travel.Options{
		Workers:  cfg.Enricher.Workers,
		Interval: cfg.Enricher.Interval,
		Attempts: cfg.Enricher.Attempts,
		Backoff:  cfg.Enricher.Backoff,
		Timeout:  cfg.Distance.Timeout,
	})

	source := listings.NewClient(listings.Config{
		BaseURL: cfg.Listings.BaseURL,
		Token:   cfg.Listings.Token,
		Timeout: cfg.Listings.Timeout,
	})

	c.service, err = housing.NewService(housing.Config{
		Profiles:                  search.DomainProfiles(),
		Destinations:              search.DomainDestinations(),
		Bounds:                    search.ScoreBounds(),
		Limit:                     search.Limit,
		TopN:                      search.TopN,
		SmallDescriptionThreshold: search.SmallDescriptionThreshold,
	}, source, enricher, repo, metrics.NewPipeline(reg))
	if err != nil {
		c.close(ctx)
		return nil, fmt.Errorf("housing.NewService: %w", err)
	}

	if cfg.Mail.Enabled() && len(search.Receivers) > 0 {
		c.notifiers = append(c.notifiers, notifier.NewMailer(notifier.MailConfig{
			Host:      cfg.Mail.Host,
			Port:      cfg.Mail.Port,
			Username:  cfg.Mail.Username,
			Password:  cfg.Mail.Password,
			From:      cfg.Mail.From,
			Receivers: search.Receivers,
		}))
	}

	if cfg.Bot.Enabled() {
		c.bot, err = telego.NewBot(cfg.Bot.Token)
		if err != nil {
			c.close(ctx)
			return nil, fmt.Errorf("telego.NewBot: %w", err)
		}

		if len(cfg.Bot.ChatIDs) > 0 {
			c.notifiers = append(c.notifiers, notifier.NewTelegramBot(c.bot, cfg.Bot.ChatIDs))
		}
	}

	return c, nil
}

// Run starts the long-running service: scheduler, admin bot, HTTP API,
// probe and metrics servers. It returns when ctx is canceled or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	c, err := build(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer c.close(context.WithoutCancel(ctx))

	if len(c.notifiers) == 0 {
		logger(ctx).Warn("no notifiers configured, digests will only be logged")
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("time.LoadLocation(%s): %w", cfg.Schedule.Timezone, err)
	}

	scheduler, err := worker.NewDigestScheduler(c.service, cfg.Schedule.At, loc, c.notifiers...)
	if err != nil {
		return fmt.Errorf("worker.NewDigestScheduler: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if !cfg.Schedule.Paused {
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		logger(ctx).Info("digest scheduled",
			slog.String("at", cfg.Schedule.At),
			slog.Time("next", scheduler.NextRun(time.Now())),
		)
	}

	defer scheduler.Stop()

	if c.bot != nil && len(cfg.Bot.AdminIDs) > 0 {
		adminBot := bot.New(c.bot, handler.New(ctx, c.service, scheduler), cfg.Bot.AdminIDs)

		announcer := notifier.NewTelegramBot(c.bot, cfg.Bot.AdminIDs)
		for _, id := range cfg.Bot.AdminIDs {
			if err := announcer.SendText(ctx, id, "🚀 <b>Rent Radar</b> запущен, /status"); err != nil {
				logger(ctx).Warn("startup message failed", logx.FieldChatID, id, logx.Error(err))
			}
		}

		g.Go(func() error {
			if err := adminBot.Run(ctx); err != nil {
				return fmt.Errorf("adminBot.Run: %w", err)
			}
			return nil
		})
	}

	modules.HTTPServer{ShutdownTimeout: shutdownTimeout}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr: cfg.HTTP.ListenAddress,
		Handler: server.NewRouter(
			server.NewServer(server.NewProfileServer(c.service)),
			server.RouterOptions{
				RequestsPerMinute:   cfg.HTTP.RequestsPerMinute,
				SensitiveDataMasker: logx.NewSensitiveDataMasker(),
			},
		),
		ReadHeaderTimeout: 5 * time.Second,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeAddress,
		Ready:         c.ready,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.HTTP.MetricsAddress}.Run(ctx, g)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger(ctx).Info("application stopping...")

	return nil
}
