package scoring

import (
	"rent_radar/internal/domain/entity"
)

type Engine struct {
	bounds       entity.ScoreBounds
	destinations []entity.Destination
}

// NewEngine fails with a ConfigurationError when a metric the destinations
// need has no bound or has min >= max.
func NewEngine(bounds entity.ScoreBounds, destinations []entity.Destination) (*Engine, error) {
	if err := ValidateBounds(bounds, Metrics(destinations)); err != nil {
		return nil, err
	}

	return &Engine{
		bounds:       bounds,
		destinations: destinations,
	}, nil
}

// Score keeps input order. A travel cell that never resolved scores 0.
func (e *Engine) Score(listings []entity.EnrichedListing) []entity.ScoredListing {
	out := make([]entity.ScoredListing, 0, len(listings))

	for _, l := range listings {
		out = append(out, e.scoreOne(l))
	}

	return out
}

func (e *Engine) scoreOne(l entity.EnrichedListing) entity.ScoredListing {
	scored := entity.ScoredListing{
		EnrichedListing:   l,
		PricePerAreaScore: Normalize(l.PricePerArea, e.bounds[entity.MetricPricePerArea]),
		ModeScores:        make(map[entity.TravelKey]float64),
		TravelScores:      make(map[string]float64, len(e.destinations)),
	}

	components := make([]float64, 0, len(e.destinations)+1)
	components = append(components, scored.PricePerAreaScore)

	for _, d := range e.destinations {
		best := 0.0

		for _, key := range d.Keys() {
			s := e.modeScore(l.Travel, key)
			scored.ModeScores[key] = s
			if s > best {
				best = s
			}
		}

		scored.TravelScores[d.Name] = best
		components = append(components, best)
	}

	scored.Score = GeometricMean(components...)

	return scored
}

func (e *Engine) modeScore(travel map[entity.TravelKey]entity.TravelInfo, key entity.TravelKey) float64 {
	info, ok := travel[key]
	if !ok || info.DurationMin == nil {
		return 0
	}

	return Normalize(*info.DurationMin, e.bounds[key.Mode.String()])
}
