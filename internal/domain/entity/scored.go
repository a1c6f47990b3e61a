package entity

import "time"

// ScoredListing is final once the ranker has ordered the batch.
type ScoredListing struct {
	EnrichedListing

	PricePerAreaScore float64
	ModeScores        map[TravelKey]float64
	// TravelScores — лучший режим для каждого направления.
	TravelScores map[string]float64
	Score        float64
}

func (s ScoredListing) Considered() bool {
	return s.Score > 0
}

// TravelColumns flattens travel data into distance_<dest>_<mode> and
// duration_<dest>_<mode> columns.
func (s ScoredListing) TravelColumns() map[string]*float64 {
	cols := make(map[string]*float64, len(s.Travel)*2)
	for k, info := range s.Travel {
		cols[k.DistanceColumn()] = info.DistanceKm
		cols[k.DurationColumn()] = info.DurationMin
	}
	return cols
}

func (s ScoredListing) ScoreColumns() map[string]float64 {
	cols := make(map[string]float64, len(s.ModeScores)+len(s.TravelScores)+2)
	cols["ppsqft_score"] = s.PricePerAreaScore
	for k, v := range s.ModeScores {
		cols[k.ScoreColumn()] = v
	}
	for dest, v := range s.TravelScores {
		cols["travel_"+dest+"_score"] = v
	}
	cols["score"] = s.Score
	return cols
}

type ScoredBatch struct {
	RunID    string
	Profile  string
	Listings []ScoredListing
	// Considered — URL объявлений со score > 0, в порядке ранжирования.
	Considered []string
	Top        []string
	CreatedAt  time.Time
}

func (b ScoredBatch) ConsideredListings() []ScoredListing {
	out := make([]ScoredListing, 0, len(b.Considered))
	for _, l := range b.Listings {
		if l.Considered() {
			out = append(out, l)
		}
	}
	return out
}

// DigestSection is one profile's part of the digest.
type DigestSection struct {
	Title        string
	Destinations []string
	Batch        ScoredBatch
	// Failed is set when the profile produced no batch (for example the
	// source returned nothing usable).
	Failed string
}
