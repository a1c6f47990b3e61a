package housing

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/domain/service/normalizer"
	"rent_radar/internal/domain/service/ranking"
	"rent_radar/internal/domain/service/scoring"
	"rent_radar/pkg/contextx"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/logx"
)

const (
	DefaultLimit   = 3000
	latestBatchTTL = 48 * time.Hour
)

type ListingSource interface {
	Fetch(ctx context.Context, filters entity.Filters, limit int) ([]entity.RawListing, error)
}

type Enricher interface {
	Enrich(
		ctx context.Context,
		listings []entity.Listing,
		destinations []entity.Destination,
	) ([]entity.EnrichedListing, entity.EnrichReport, error)
}

type BatchRepository interface {
	SaveBatch(ctx context.Context, batch entity.ScoredBatch) error
	// LatestBatch returns a DigestNotFound AppError when nothing was saved.
	LatestBatch(ctx context.Context, profile string) (entity.ScoredBatch, error)
}

// Recorder receives per-stage counters. *metrics.Pipeline implements it.
type Recorder interface {
	RowsDropped(profile, reason string, n int)
	CellsNulled(profile string, n int)
	ProviderCalls(result string, n int)
	CacheHits(n int)
	RunFinished(profile, status string, d time.Duration, considered int)
}

type Config struct {
	Profiles                  []entity.Profile
	Destinations              []entity.Destination
	Bounds                    entity.ScoreBounds
	Limit                     int
	TopN                      int
	SmallDescriptionThreshold int
}

type Service struct {
	cfg        Config
	source     ListingSource
	enricher   Enricher
	repo       BatchRepository
	recorder   Recorder
	normalizer *normalizer.Normalizer
	engine     *scoring.Engine
	latest     *cache.Cache
	now        func() time.Time
}

// NewService validates the configuration once. repo and recorder may be nil.
func NewService(
	cfg Config,
	source ListingSource,
	enricher Enricher,
	repo BatchRepository,
	recorder Recorder,
) (*Service, error) {
	if len(cfg.Profiles) == 0 {
		return nil, domain.NewError(errcodes.ConfigurationError, "at least one profile is required")
	}

	for _, d := range cfg.Destinations {
		if len(d.Modes) == 0 {
			return nil, domain.NewError(errcodes.ConfigurationError,
				fmt.Sprintf("destination %q has no travel modes", d.Name))
		}
	}

	engine, err := scoring.NewEngine(cfg.Bounds, cfg.Destinations)
	if err != nil {
		return nil, err
	}

	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.TopN <= 0 {
		cfg.TopN = ranking.DefaultTopN
	}

	return &Service{
		cfg:        cfg,
		source:     source,
		enricher:   enricher,
		repo:       repo,
		recorder:   recorder,
		normalizer: normalizer.New(cfg.SmallDescriptionThreshold),
		engine:     engine,
		latest:     cache.New(latestBatchTTL, time.Hour),
		now:        time.Now,
	}, nil
}

func (s *Service) Profiles() []entity.Profile {
	return s.cfg.Profiles
}

func (s *Service) Destinations() []entity.Destination {
	return s.cfg.Destinations
}

func (s *Service) Profile(name string) (entity.Profile, error) {
	for _, p := range s.cfg.Profiles {
		if p.Name == name {
			return p, nil
		}
	}

	return entity.Profile{}, domain.NewError(errcodes.ProfileNotFound, fmt.Sprintf("profile %q not found", name))
}

// Run executes the pipeline for one named profile.
func (s *Service) Run(ctx context.Context, profileName string) (entity.ScoredBatch, error) {
	p, err := s.Profile(profileName)
	if err != nil {
		return entity.ScoredBatch{}, err
	}

	return s.run(ctx, p)
}

// RunAll runs the named profiles, or every profile when names is empty, in
// configuration order. A profile that ends up empty after normalization
// becomes a failed section. Any other error aborts so no partial digest is
// produced.
func (s *Service) RunAll(ctx context.Context, names ...string) ([]entity.DigestSection, error) {
	profiles, err := s.selectProfiles(names)
	if err != nil {
		return nil, err
	}

	sections := make([]entity.DigestSection, 0, len(profiles))

	for _, p := range profiles {
		section := entity.DigestSection{Title: p.Title, Destinations: s.destinationNames()}

		batch, err := s.run(ctx, p)
		switch {
		case err == nil:
			section.Batch = batch
		case domain.HasCode(err, errcodes.DataQualityError):
			section.Failed = err.Error()
		default:
			return nil, fmt.Errorf("profile %s: %w", p.Name, err)
		}

		sections = append(sections, section)
	}

	return sections, nil
}

func (s *Service) selectProfiles(names []string) ([]entity.Profile, error) {
	if len(names) == 0 {
		return s.cfg.Profiles, nil
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, err := s.Profile(n); err != nil {
			return nil, err
		}
		wanted[n] = struct{}{}
	}

	out := make([]entity.Profile, 0, len(wanted))
	for _, p := range s.cfg.Profiles {
		if _, ok := wanted[p.Name]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

// Latest returns the last batch of a profile from memory or the repository.
func (s *Service) Latest(ctx context.Context, profileName string) (entity.ScoredBatch, error) {
	if _, err := s.Profile(profileName); err != nil {
		return entity.ScoredBatch{}, err
	}

	if v, ok := s.latest.Get(profileName); ok {
		return v.(entity.ScoredBatch), nil //nolint:forcetypeassert // only batches are stored
	}

	if s.repo == nil {
		return entity.ScoredBatch{}, domain.NewError(errcodes.DigestNotFound, "no batch for profile "+profileName)
	}

	batch, err := s.repo.LatestBatch(ctx, profileName)
	if err != nil {
		return entity.ScoredBatch{}, err
	}

	s.latest.Set(profileName, batch, cache.DefaultExpiration)

	return batch, nil
}

func (s *Service) run(ctx context.Context, p entity.Profile) (batch entity.ScoredBatch, err error) {
	runID := xid.New().String()
	ctx = contextx.WithRunID(ctx, runID)
	ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.FieldProfile, p.Name))

	started := s.now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		s.observe(func(r Recorder) {
			r.RunFinished(p.Name, status, s.now().Sub(started), len(batch.Considered))
		})
	}()

	logger(ctx).Info("pipeline run started")

	raw, err := s.source.Fetch(ctx, p.Filters, s.cfg.Limit)
	if err != nil {
		if domain.IsAppError(err) {
			return entity.ScoredBatch{}, err
		}
		return entity.ScoredBatch{}, domain.WrapError(err, errcodes.SourceUnavailable, "fetch listings")
	}

	listings, nreport, err := s.normalizer.Normalize(ctx, raw)
	s.observe(func(r Recorder) {
		r.RowsDropped(p.Name, "small_description", nreport.SmallDescription)
		r.RowsDropped(p.Name, "zero_area", nreport.ZeroArea)
		r.RowsDropped(p.Name, "zero_price", nreport.ZeroPrice)
		r.RowsDropped(p.Name, "incomplete", nreport.Incomplete)
		r.RowsDropped(p.Name, "duplicate", nreport.Duplicate)
	})
	if err != nil {
		return entity.ScoredBatch{}, err
	}

	enriched, ereport, err := s.enricher.Enrich(ctx, listings, s.cfg.Destinations)
	s.observe(func(r Recorder) {
		r.CacheHits(ereport.CacheHits)
		r.ProviderCalls("attempt", ereport.ProviderCalls)
		r.ProviderCalls("failed", ereport.Failures)
		r.CellsNulled(p.Name, ereport.CellsNulled)
	})
	if err != nil {
		return entity.ScoredBatch{}, err
	}

	ranked := ranking.Rank(s.engine.Score(enriched), s.cfg.TopN)

	batch = entity.ScoredBatch{
		RunID:      runID,
		Profile:    p.Name,
		Listings:   ranked.Listings,
		Considered: ranked.Considered,
		Top:        ranked.Top,
		CreatedAt:  s.now(),
	}

	s.latest.Set(p.Name, batch, cache.DefaultExpiration)

	if s.repo != nil {
		if err := s.repo.SaveBatch(ctx, batch); err != nil {
			// Ошибка сохранения не прерывает прогон.
			logger(ctx).Error("failed to save scored batch", logx.FieldError, err)
		}
	}

	logger(ctx).Info("pipeline run finished",
		logx.FieldRows, len(batch.Listings),
		"considered", len(batch.Considered),
		"top", len(batch.Top),
	)

	return batch, nil
}

func (s *Service) destinationNames() []string {
	names := make([]string, 0, len(s.cfg.Destinations))
	for _, d := range s.cfg.Destinations {
		names = append(names, d.Name)
	}
	return names
}

func (s *Service) observe(fn func(Recorder)) {
	if s.recorder != nil {
		fn(s.recorder)
	}
}
