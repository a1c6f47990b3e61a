package scoring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/domain/service/scoring"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/tests"
)

func ptr(v float64) *float64 {
	return &v
}

func TestNormalize(t *testing.T) {
	rq := require.New(t)

	bound := entity.ScoreBound{Min: 2, Max: 7}

	testCases := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "At min", value: 2, want: 1},
		{name: "At max", value: 7, want: 0},
		{name: "Below min", value: -3, want: 1},
		{name: "Above max", value: 100, want: 0},
		{name: "Middle", value: 4.5, want: 0.5},
		{name: "NaN", value: math.NaN(), want: 0},
	}

	for _, tc := range testCases {
		rq.InDelta(tc.want, scoring.Normalize(tc.value, bound), 1e-12, tc.name)
	}
}

func TestNormalizeDegenerateBound(t *testing.T) {
	rq := require.New(t)

	for _, bound := range []entity.ScoreBound{
		{Min: 5, Max: 5},
		{Min: 7, Max: 2},
		{Min: math.NaN(), Max: 3},
	} {
		for _, v := range []float64{-1, 2, 5, 7, 100} {
			got := scoring.Normalize(v, bound)
			rq.False(math.IsNaN(got))
			rq.Zero(got)
		}
	}
}

func TestNormalizeProperties(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()

	for range 500 {
		lo := random.Range(-50, 50)
		hi := lo + random.Range(0.01, 50)
		bound := entity.ScoreBound{Min: lo, Max: hi}

		a := random.Range(lo-20, hi+20)
		b := a + random.Range(0, 20)

		sa, sb := scoring.Normalize(a, bound), scoring.Normalize(b, bound)
		rq.GreaterOrEqual(sa, 0.0)
		rq.LessOrEqual(sa, 1.0)
		rq.GreaterOrEqual(sa, sb, "normalize must be non-increasing")
	}
}

func TestGeometricMean(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()

	rq.Zero(scoring.GeometricMean())
	rq.Zero(scoring.GeometricMean(0.9, 0, 1))
	rq.InDelta(0.5, scoring.GeometricMean(0.25, 1), 1e-12)

	for range 200 {
		v := random.Range(0.001, 1)
		rq.InDelta(v, scoring.GeometricMean(v, v, v), 1e-9)

		withZero := []float64{random.Range(0.01, 1), random.Range(0.01, 1), 0}
		rq.Zero(scoring.GeometricMean(withZero...))
	}
}

func TestNewEngineRejectsBadBounds(t *testing.T) {
	rq := require.New(t)

	destinations := []entity.Destination{{Name: "office", Modes: []entity.Mode{entity.ModeWalking}}}

	testCases := []struct {
		name   string
		bounds entity.ScoreBounds
	}{
		{
			name: "Equal bounds",
			bounds: entity.ScoreBounds{
				entity.MetricPricePerArea: {Min: 3, Max: 3},
				"walking":                 {Min: 8, Max: 30},
			},
		},
		{
			name: "Inverted bounds",
			bounds: entity.ScoreBounds{
				entity.MetricPricePerArea: {Min: 2, Max: 7},
				"walking":                 {Min: 30, Max: 8},
			},
		},
		{
			name: "Missing mode bound",
			bounds: entity.ScoreBounds{
				entity.MetricPricePerArea: {Min: 2, Max: 7},
			},
		},
	}

	for _, tc := range testCases {
		_, err := scoring.NewEngine(tc.bounds, destinations)
		rq.Error(err, tc.name)

		code, ok := domain.GetCode(err)
		rq.True(ok, tc.name)
		rq.Equal(errcodes.ConfigurationError, code, tc.name)
	}
}

func TestEngineScorePricePerArea(t *testing.T) {
	rq := require.New(t)

	office := entity.Destination{Name: "office", Modes: []entity.Mode{entity.ModeWalking}}
	key := entity.TravelKey{Destination: "office", Mode: entity.ModeWalking}
	fast := map[entity.TravelKey]entity.TravelInfo{key: {DistanceKm: ptr(0.5), DurationMin: ptr(5)}}

	engine, err := scoring.NewEngine(entity.DefaultScoreBounds(), []entity.Destination{office})
	rq.NoError(err)

	scored := engine.Score([]entity.EnrichedListing{
		{Listing: entity.Listing{ID: "x", PricePerArea: 2}, Travel: fast},
		{Listing: entity.Listing{ID: "y", PricePerArea: 7}, Travel: fast},
	})
	rq.Len(scored, 2)

	rq.InDelta(1.0, scored[0].PricePerAreaScore, 1e-12)
	rq.InDelta(1.0, scored[0].TravelScores["office"], 1e-12)
	rq.InDelta(1.0, scored[0].Score, 1e-12)
	rq.True(scored[0].Considered())

	rq.Zero(scored[1].PricePerAreaScore)
	rq.Zero(scored[1].Score)
	rq.False(scored[1].Considered())
}

func TestEngineScoreMissingTravel(t *testing.T) {
	rq := require.New(t)

	office := entity.Destination{
		Name:  "office",
		Modes: []entity.Mode{entity.ModeWalking, entity.ModeTransit},
	}

	engine, err := scoring.NewEngine(entity.DefaultScoreBounds(), []entity.Destination{office})
	rq.NoError(err)

	scored := engine.Score([]entity.EnrichedListing{
		{
			Listing: entity.Listing{ID: "nulls", PricePerArea: 2},
			Travel: map[entity.TravelKey]entity.TravelInfo{
				{Destination: "office", Mode: entity.ModeWalking}: {DistanceKm: ptr(1.2)},
			},
		},
		{Listing: entity.Listing{ID: "absent", PricePerArea: 2}},
	})

	for _, s := range scored {
		rq.InDelta(1.0, s.PricePerAreaScore, 1e-12, s.ID)
		rq.Zero(s.TravelScores["office"], s.ID)
		rq.Zero(s.Score, s.ID)
	}
}

func TestEngineScoreBestModeWins(t *testing.T) {
	rq := require.New(t)

	office := entity.Destination{Name: "office", Modes: []entity.Mode{entity.ModeWalking, entity.ModeBicycling}}
	park := entity.Destination{Name: "park", Modes: []entity.Mode{entity.ModeDriving}}

	engine, err := scoring.NewEngine(entity.DefaultScoreBounds(), []entity.Destination{office, park})
	rq.NoError(err)

	scored := engine.Score([]entity.EnrichedListing{{
		Listing: entity.Listing{ID: "a", PricePerArea: 4.5},
		Travel: map[entity.TravelKey]entity.TravelInfo{
			{Destination: "office", Mode: entity.ModeWalking}:   {DurationMin: ptr(40)},
			{Destination: "office", Mode: entity.ModeBicycling}: {DurationMin: ptr(19)},
			{Destination: "park", Mode: entity.ModeDriving}:     {DurationMin: ptr(8)},
		},
	}})

	s := scored[0]
	rq.Zero(s.ModeScores[entity.TravelKey{Destination: "office", Mode: entity.ModeWalking}])
	rq.InDelta(0.5, s.TravelScores["office"], 1e-12)
	rq.InDelta(1.0, s.TravelScores["park"], 1e-12)
	rq.InDelta(math.Cbrt(0.5*0.5*1.0), s.Score, 1e-12)

	cols := s.ScoreColumns()
	rq.InDelta(0.5, cols["bicycling_office_score"], 1e-12)
	rq.InDelta(s.Score, cols["score"], 1e-12)
}
