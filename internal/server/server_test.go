package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/server"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/rest"
	"rent_radar/pkg/tests"
)

type fakeHousing struct {
	profiles []entity.Profile
	batches  map[string]entity.ScoredBatch
	runs     []string
}

func (f *fakeHousing) Profiles() []entity.Profile { return f.profiles }

func (f *fakeHousing) Run(_ context.Context, name string) (entity.ScoredBatch, error) {
	f.runs = append(f.runs, name)

	if name == "empty" {
		return entity.ScoredBatch{}, domain.NewError(errcodes.DataQualityError, "no listings left after normalization")
	}

	return f.Latest(context.Background(), name)
}

func (f *fakeHousing) Latest(_ context.Context, name string) (entity.ScoredBatch, error) {
	b, ok := f.batches[name]
	if !ok {
		return entity.ScoredBatch{}, domain.NewError(errcodes.ProfileNotFound, "profile not found")
	}
	return b, nil
}

func ptr(v float64) *float64 { return &v }

func newTestAPI(t *testing.T, limit int) (tests.APIClient, *fakeHousing) {
	t.Helper()

	key := entity.TravelKey{Destination: "work", Mode: entity.ModeTransit}
	listing := func(id string, score float64) entity.ScoredListing {
		return entity.ScoredListing{
			EnrichedListing: entity.EnrichedListing{
				Listing: entity.Listing{ID: id, URL: "https://example.org/" + id, Price: 3000, Area: 700},
				Travel:  map[entity.TravelKey]entity.TravelInfo{key: {DistanceKm: ptr(5.2), DurationMin: ptr(18)}},
			},
			ModeScores: map[entity.TravelKey]float64{key: 0.55},
			Score:      score,
		}
	}

	housing := &fakeHousing{
		profiles: []entity.Profile{{Name: "two-br", Title: "Two bedrooms", Filters: entity.Filters{PriceMax: 4500}}},
		batches: map[string]entity.ScoredBatch{
			"two-br": {
				RunID:      "run-1",
				Profile:    "two-br",
				CreatedAt:  time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
				Listings:   []entity.ScoredListing{listing("a", 0.7), listing("b", 0)},
				Considered: []string{"https://example.org/a"},
				Top:        []string{"https://example.org/a", "https://example.org/b"},
			},
			"empty": {},
		},
	}

	srv := httptest.NewServer(server.NewRouter(
		server.NewServer(server.NewProfileServer(housing)),
		server.RouterOptions{RequestsPerMinute: limit},
	))
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client()), housing
}

func TestGetProfiles(t *testing.T) {
	rq := require.New(t)
	api, _ := newTestAPI(t, 0)

	var profiles []rest.Profile

	resp, err := api.Get(context.Background(), "/v1/profiles", &profiles, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(profiles, 1)
	rq.Equal("two-br", profiles[0].Name)
	rq.Equal(4500, profiles[0].Filters.PriceMax)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))
}

func TestGetProfileDigest(t *testing.T) {
	rq := require.New(t)
	api, _ := newTestAPI(t, 0)

	var batch rest.Batch

	resp, err := api.Get(context.Background(), "/v1/profiles/two-br/digest", &batch, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("run-1", batch.RunID)
	rq.Equal(2, batch.Total)
	rq.Equal(1, batch.Considered)
	rq.Len(batch.Top, 2)
	rq.Equal(1, batch.Top[0].Rank)
	rq.Len(batch.Listings[0].Travel, 1)
	rq.Equal("transit", batch.Listings[0].Travel[0].Mode)
	rq.InDelta(5.2, *batch.Listings[0].Travel[0].DistanceKm, 1e-9)
	rq.InDelta(0.55, batch.Listings[0].Travel[0].Score, 1e-9)
}

func TestGetProfileDigestNotFound(t *testing.T) {
	rq := require.New(t)
	api, _ := newTestAPI(t, 0)

	var apiErr rest.Error

	resp, err := api.Get(context.Background(), "/v1/profiles/nope/digest", nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ProfileNotFound), apiErr.Code)
	rq.NotEmpty(apiErr.SupportID)
}

func TestPostRun(t *testing.T) {
	rq := require.New(t)
	api, housing := newTestAPI(t, 0)

	var batch rest.Batch

	resp, err := api.Post(context.Background(), "/v1/runs", rest.RunRequest{Profile: "two-br"}, &batch, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("two-br", batch.Profile)
	rq.Equal([]string{"two-br"}, housing.runs)
}

func TestPostRunErrors(t *testing.T) {
	rq := require.New(t)
	api, housing := newTestAPI(t, 0)

	var apiErr rest.Error

	resp, err := api.PostJSON(context.Background(), "/v1/runs", `{"profile": ""}`, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError), apiErr.Code)

	resp, err = api.PostJSON(context.Background(), "/v1/runs", `{not json`, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = api.Post(context.Background(), "/v1/runs", rest.RunRequest{Profile: "empty"}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.DataQualityError), apiErr.Code)

	rq.Equal([]string{"empty"}, housing.runs)
}

func TestRateLimit(t *testing.T) {
	rq := require.New(t)
	api, _ := newTestAPI(t, 2)

	for range 2 {
		resp, err := api.Get(context.Background(), "/v1/profiles", nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
	}

	resp, err := api.Get(context.Background(), "/v1/profiles", nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusTooManyRequests, resp.StatusCode)
}
