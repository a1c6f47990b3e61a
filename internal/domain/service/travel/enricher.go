package travel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/logx"
)

const (
	DefaultInterval = 1500 * time.Millisecond
	DefaultAttempts = 3
	DefaultBackoff  = 2 * time.Second
	DefaultTimeout  = 10 * time.Second
	DefaultWorkers  = 4
)

type Provider interface {
	// Lookup returns an EnrichmentFailure for malformed or partial responses
	// (the present fields are still filled) and a TransientProviderError for
	// network errors and quota.
	Lookup(ctx context.Context, origin, destination entity.Coordinate, mode entity.Mode) (entity.TravelInfo, error)
}

type Options struct {
	Workers  int
	Interval time.Duration
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Workers:  DefaultWorkers,
		Interval: DefaultInterval,
		Attempts: DefaultAttempts,
		Backoff:  DefaultBackoff,
		Timeout:  DefaultTimeout,
	}
}

type Enricher struct {
	provider Provider
	store    Store
	policy   FreshnessPolicy
	opts     Options

	// Один лимитер на все вызовы провайдера, независимо от числа воркеров.
	limiter *rate.Limiter
	flight  singleflight.Group
}

func NewEnricher(provider Provider, store Store, policy FreshnessPolicy, opts Options) *Enricher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}

	return &Enricher{
		provider: provider,
		store:    store,
		policy:   policy,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

type lookupResult struct {
	info  entity.TravelInfo
	hit   bool
	calls int
	err   error
}

// Enrich fills travel data for every listing and destination mode. Cell
// failures leave the cell empty. Only context cancellation aborts.
func (e *Enricher) Enrich(
	ctx context.Context,
	listings []entity.Listing,
	destinations []entity.Destination,
) ([]entity.EnrichedListing, entity.EnrichReport, error) {
	keys := make(map[CacheKey]struct{})
	for _, l := range listings {
		for _, d := range destinations {
			for _, m := range d.Modes {
				keys[CacheKey{Origin: l.CacheCoordinate, Destination: d.Coordinate, Mode: m}] = struct{}{}
			}
		}
	}

	var (
		mu      sync.Mutex
		results = make(map[CacheKey]lookupResult, len(keys))
		report  = entity.EnrichReport{Lookups: len(keys)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for key := range keys {
		g.Go(func() error {
			res := e.lookup(gctx, key)
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				if gctx.Err() != nil {
					return gctx.Err()
				}
			}

			mu.Lock()
			defer mu.Unlock()

			results[key] = res
			report.ProviderCalls += res.calls
			if res.hit {
				report.CacheHits++
			}
			if res.err != nil {
				report.Failures++
				logger(ctx).Warn("travel lookup failed",
					logx.FieldMode, key.Mode.String(),
					slog.String("origin", key.Origin.String()),
					logx.FieldError, res.err,
				)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, report, fmt.Errorf("enrich: %w", err)
	}

	out := make([]entity.EnrichedListing, 0, len(listings))

	for _, l := range listings {
		enriched := entity.EnrichedListing{
			Listing: l,
			Travel:  make(map[entity.TravelKey]entity.TravelInfo),
		}

		for _, d := range destinations {
			for _, tk := range d.Keys() {
				res := results[CacheKey{Origin: l.CacheCoordinate, Destination: d.Coordinate, Mode: tk.Mode}]
				enriched.Travel[tk] = res.info
				report.CellsNulled += res.info.NullCells()
			}
		}

		out = append(out, enriched)
	}

	logger(ctx).Info("listings enriched",
		logx.FieldRows, len(out),
		"lookups", report.Lookups,
		"cache_hits", report.CacheHits,
		"provider_calls", report.ProviderCalls,
		"failures", report.Failures,
		"cells_nulled", report.CellsNulled,
	)

	return out, report, nil
}

// lookup collapses concurrent requests for the same key into one.
func (e *Enricher) lookup(ctx context.Context, key CacheKey) lookupResult {
	v, _, _ := e.flight.Do(key.String(), func() (any, error) {
		return e.resolve(ctx, key), nil
	})

	return v.(lookupResult) //nolint:forcetypeassert // always lookupResult
}

func (e *Enricher) resolve(ctx context.Context, key CacheKey) lookupResult {
	entry, ok, err := e.store.Get(ctx, key)
	if err != nil {
		logger(ctx).Warn("travel cache read failed", logx.FieldError, err)
	}
	if ok && e.policy.Fresh(entry) {
		return lookupResult{info: entry.Info, hit: true}
	}

	info, calls, err := e.fetch(ctx, key)
	if err != nil && !isPermanent(err) {
		return lookupResult{calls: calls, err: err}
	}

	// Постоянные ошибки тоже кэшируем, иначе каждый прогон будет их повторять.
	if setErr := e.store.Set(ctx, key, Entry{Info: info, FetchedAt: e.policy.Now()}); setErr != nil {
		logger(ctx).Warn("travel cache write failed", logx.FieldError, setErr)
	}

	return lookupResult{info: info, calls: calls, err: err}
}

// fetch retries transient errors with exponential backoff. Exhausted retries
// come back as an EnrichmentFailure wrapping the last transient error.
func (e *Enricher) fetch(ctx context.Context, key CacheKey) (entity.TravelInfo, int, error) {
	var lastErr error

	for attempt := 1; attempt <= e.opts.Attempts; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return entity.TravelInfo{}, attempt - 1, err
		}

		info, err := e.call(ctx, key)
		if err == nil {
			return info, attempt, nil
		}

		if !isTransient(err) {
			return info, attempt, err
		}

		lastErr = err

		if attempt == e.opts.Attempts {
			break
		}

		logger(ctx).Debug("retrying travel lookup", logx.FieldAttempt, attempt, logx.FieldError, err)

		select {
		case <-ctx.Done():
			return entity.TravelInfo{}, attempt, ctx.Err()
		case <-time.After(e.opts.Backoff * time.Duration(1<<(attempt-1))):
		}
	}

	return entity.TravelInfo{}, e.opts.Attempts, &exhaustedError{
		AppError: domain.WrapError(lastErr, errcodes.EnrichmentFailure,
			fmt.Sprintf("travel lookup gave up after %d attempts", e.opts.Attempts)),
	}
}

// exhaustedError is an EnrichmentFailure that must not be cached.
type exhaustedError struct {
	*domain.AppError
}

func (e *exhaustedError) Unwrap() error {
	return e.AppError
}

func isTransient(err error) bool {
	return domain.HasCode(err, errcodes.TransientProviderError)
}

func isPermanent(err error) bool {
	var exhausted *exhaustedError
	if errors.As(err, &exhausted) {
		return false
	}

	return domain.HasCode(err, errcodes.EnrichmentFailure)
}

// call bounds a single provider request by Options.Timeout. Hitting that
// deadline is transient; cancellation of the parent ctx is passed through.
func (e *Enricher) call(ctx context.Context, key CacheKey) (entity.TravelInfo, error) {
	callCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	info, err := e.provider.Lookup(callCtx, key.Origin, key.Destination, key.Mode)
	if err != nil && ctx.Err() == nil && callCtx.Err() != nil && !isTransient(err) {
		return info, domain.WrapError(err, errcodes.TransientProviderError, "travel lookup timed out")
	}

	return info, err
}
