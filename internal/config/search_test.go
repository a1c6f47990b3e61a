package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/config"
	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
)

const validSearchYAML = `
profiles:
  - name: two-br
    title: Two bedrooms
    price_min: 2000
    price_max: 4500
    min_bedrooms: 2
    max_bedrooms: 3
    min_area: 600
    posted_today: true
  - name: studio
    price_max: 2500
destinations:
  office:
    lat: 37.7897
    lng: -122.3972
    modes: [transit, cycling]
  gym:
    lat: 37.7612
    lng: -122.4231
modes: walking
bounds:
  ppsqft: {min: 2.5, max: 6}
limit: 500
top_n: 3
receivers: [first@example.org, second@example.org]
`

func TestParseSearch(t *testing.T) {
	rq := require.New(t)

	s, err := config.ParseSearch([]byte(validSearchYAML))
	rq.NoError(err)

	profiles := s.DomainProfiles()
	rq.Len(profiles, 2)
	rq.Equal("two-br", profiles[0].Name)
	rq.Equal(entity.Filters{
		PriceMin: 2000, PriceMax: 4500, MinBedrooms: 2, MaxBedrooms: 3, MinArea: 600, PostedToday: true,
	}, profiles[0].Filters)
	rq.Empty(profiles[1].Title)

	destinations := s.DomainDestinations()
	rq.Len(destinations, 2)
	rq.Equal("gym", destinations[0].Name)
	rq.Equal([]entity.Mode{entity.ModeWalking}, destinations[0].Modes)
	rq.Equal("office", destinations[1].Name)
	rq.Equal([]entity.Mode{entity.ModeTransit, entity.ModeBicycling}, destinations[1].Modes)

	bounds := s.ScoreBounds()
	rq.Equal(entity.ScoreBound{Min: 2.5, Max: 6}, bounds[entity.MetricPricePerArea])
	rq.Equal(entity.ScoreBound{Min: 8, Max: 30}, bounds["transit"])

	rq.Equal(500, s.Limit)
	rq.Equal(3, s.TopN)
	rq.Equal([]string{"first@example.org", "second@example.org"}, s.Receivers)
}

func TestParseSearchInvalid(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "No profiles",
			yaml:    "destinations: {office: {lat: 1, lng: 2, modes: walking}}",
			wantErr: config.ErrNoProfiles,
		},
		{
			name:    "Destination without coordinate",
			yaml:    "profiles: [{name: a}]\ndestinations: {office: {lat: 1, modes: walking}}",
			wantErr: config.ErrMissingCoordinate,
		},
		{
			name:    "Destination without modes",
			yaml:    "profiles: [{name: a}]\ndestinations: {office: {lat: 1, lng: 2}}",
			wantErr: config.ErrNoModes,
		},
		{
			name:    "Degenerate bound",
			yaml:    "profiles: [{name: a}]\ndestinations: {office: {lat: 1, lng: 2, modes: walking}}\nbounds: {walking: {min: 10, max: 10}}",
			wantErr: config.ErrInvalidBound,
		},
		{
			name:    "Price range",
			yaml:    "profiles: [{name: a, price_min: 5000, price_max: 100}]\ndestinations: {office: {lat: 1, lng: 2, modes: walking}}",
			wantErr: config.ErrPriceRange,
		},
		{
			name:    "Duplicate profile",
			yaml:    "profiles: [{name: a}, {name: a}]\ndestinations: {office: {lat: 1, lng: 2, modes: walking}}",
			wantErr: config.ErrDuplicateProfile,
		},
		{
			name:    "Bad receiver",
			yaml:    "profiles: [{name: a}]\ndestinations: {office: {lat: 1, lng: 2, modes: walking}}\nreceivers: [nope]",
			wantErr: config.ErrInvalidSearchPayload,
		},
		{
			name:    "Unknown mode",
			yaml:    "profiles: [{name: a}]\ndestinations: {office: {lat: 1, lng: 2, modes: teleport}}",
			wantErr: config.ErrInvalidMode,
		},
		{
			name: "Unknown field",
			yaml: "profiles: [{name: a, rooms: 3}]\ndestinations: {office: {lat: 1, lng: 2, modes: walking}}",
		},
	}

	for _, tc := range testCases {
		_, err := config.ParseSearch([]byte(tc.yaml))
		rq.Error(err, tc.name)

		code, ok := domain.GetCode(err)
		rq.True(ok, tc.name)
		rq.Equal(errcodes.ConfigurationError, code, tc.name)

		if tc.wantErr != nil {
			rq.True(errors.Is(err, tc.wantErr), "%s: %v", tc.name, err)
		}
	}
}

func TestLoadSearch(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "search.yaml")
	rq.NoError(os.WriteFile(path, []byte(validSearchYAML), 0o600))

	s, err := config.LoadSearch(path)
	rq.NoError(err)
	rq.Len(s.Profiles, 2)

	_, err = config.LoadSearch(filepath.Join(t.TempDir(), "missing.yaml"))
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.ConfigurationError, code)
}

func TestLoad(t *testing.T) {
	rq := require.New(t)

	t.Setenv("LISTINGS_URL", "https://feed.example.org")
	t.Setenv("DISTANCE_API_KEY", "key")
	t.Setenv("BOT_CHAT_IDS", "1,2")
	t.Setenv("ENRICH_INTERVAL", "2s")

	cfg, err := config.Load()
	rq.NoError(err)
	rq.Equal([]int64{1, 2}, cfg.Bot.ChatIDs)
	rq.Equal("search.yaml", cfg.SearchPath)
	rq.Equal(3, cfg.Enricher.Attempts)
	rq.Equal("2s", cfg.Enricher.Interval.String())
	rq.False(cfg.Postgres.Enabled())
	rq.False(cfg.Mail.Enabled())
}

func TestLoadSearchExample(t *testing.T) {
	rq := require.New(t)

	s, err := config.LoadSearch(filepath.Join("..", "..", "search.yaml"))
	rq.NoError(err)

	profiles := s.DomainProfiles()
	rq.Len(profiles, 2)
	rq.Equal("two-br", profiles[0].Name)
	rq.Empty(profiles[1].Title)

	dests := s.DomainDestinations()
	rq.Len(dests, 2)
	rq.Equal("gym", dests[0].Name)
	rq.Len(dests[0].Modes, 1)
	rq.Len(dests[1].Modes, 2)

	bounds := s.ScoreBounds()
	rq.InDelta(40.0, bounds["transit"].Max, 1e-9)
	rq.InDelta(30.0, bounds["walking"].Max, 1e-9)
	rq.Len(s.Receivers, 2)
}
