package scoring

import (
	"fmt"
	"math"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
)

// Normalize maps value into [0,1] where lower raw values are better.
// A degenerate bound (Max <= Min) yields 0 for every value.
func Normalize(value float64, bound entity.ScoreBound) float64 {
	if math.IsNaN(value) || !(bound.Max > bound.Min) {
		return 0
	}

	s := 1 - (value-bound.Min)/(bound.Max-bound.Min)

	return math.Max(0, math.Min(1, s))
}

// GeometricMean returns 0 when any score is 0 or the input is empty.
func GeometricMean(scores ...float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range scores {
		if s <= 0 || math.IsNaN(s) {
			return 0
		}
		sum += math.Log(s)
	}

	return math.Exp(sum / float64(len(scores)))
}

// ValidateBounds checks every metric in metrics has a usable bound.
func ValidateBounds(bounds entity.ScoreBounds, metrics []string) error {
	for _, metric := range metrics {
		b, ok := bounds[metric]
		if !ok {
			return domain.NewError(errcodes.ConfigurationError, fmt.Sprintf("no score bound for %q", metric))
		}

		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min >= b.Max {
			return domain.NewError(errcodes.ConfigurationError,
				fmt.Sprintf("score bound for %q must have min < max, got (%g, %g)", metric, b.Min, b.Max))
		}
	}

	return nil
}

// Metrics lists the bound names needed to score the destinations.
func Metrics(destinations []entity.Destination) []string {
	seen := map[string]struct{}{entity.MetricPricePerArea: {}}
	metrics := []string{entity.MetricPricePerArea}

	for _, d := range destinations {
		for _, m := range d.Modes {
			if _, ok := seen[m.String()]; ok {
				continue
			}
			seen[m.String()] = struct{}{}
			metrics = append(metrics, m.String())
		}
	}

	return metrics
}
