package persistence

import (
	"database/sql"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"rent_radar/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// scoredListingSchema — строка таблицы scored_listings.
type scoredListingSchema struct {
	RunID      string          `db:"run_id"`
	Profile    string          `db:"profile"`
	Position   int             `db:"position"`
	ListingID  string          `db:"listing_id"`
	URL        string          `db:"url"`
	Title      string          `db:"title"`
	Price      int             `db:"price"`
	Area       int             `db:"area"`
	Bedrooms   sql.NullInt64   `db:"bedrooms"`
	Bathrooms  sql.NullFloat64 `db:"bathrooms"`
	Lat        float64         `db:"lat"`
	Lng        float64         `db:"lng"`
	PPSqft     float64         `db:"ppsqft"`
	Travel     []byte          `db:"travel"`
	Scores     []byte          `db:"scores"`
	Score      float64         `db:"score"`
	Considered bool            `db:"considered"`
	InTop      bool            `db:"in_top"`
	PostedAt   sql.NullTime    `db:"posted_at"`
	Datestr    time.Time       `db:"datestr"`
	CreatedAt  time.Time       `db:"created_at"`
}

func fromScored(batch entity.ScoredBatch, position int, l entity.ScoredListing, inTop bool) (scoredListingSchema, error) {
	travel, err := json.Marshal(l.TravelColumns())
	if err != nil {
		return scoredListingSchema{}, err
	}

	scores, err := json.Marshal(l.ScoreColumns())
	if err != nil {
		return scoredListingSchema{}, err
	}

	s := scoredListingSchema{
		RunID:      batch.RunID,
		Profile:    batch.Profile,
		Position:   position,
		ListingID:  l.ID,
		URL:        l.URL,
		Title:      l.Title,
		Price:      l.Price,
		Area:       l.Area,
		Lat:        l.Coordinate.Lat,
		Lng:        l.Coordinate.Lng,
		PPSqft:     l.PricePerArea,
		Travel:     travel,
		Scores:     scores,
		Score:      l.Score,
		Considered: l.Considered(),
		InTop:      inTop,
		Datestr:    dateOf(batch.CreatedAt),
		CreatedAt:  batch.CreatedAt,
	}

	if l.Bedrooms != nil {
		s.Bedrooms = sql.NullInt64{Int64: int64(*l.Bedrooms), Valid: true}
	}
	if l.Bathrooms != nil {
		s.Bathrooms = sql.NullFloat64{Float64: *l.Bathrooms, Valid: true}
	}
	if !l.PostedAt.IsZero() {
		s.PostedAt = sql.NullTime{Time: l.PostedAt, Valid: true}
	}

	return s, nil
}

func (s *scoredListingSchema) toDomain() (entity.ScoredListing, error) {
	coord := entity.Coordinate{Lat: s.Lat, Lng: s.Lng}

	l := entity.ScoredListing{
		EnrichedListing: entity.EnrichedListing{
			Listing: entity.Listing{
				ID:              s.ListingID,
				URL:             s.URL,
				Title:           s.Title,
				Price:           s.Price,
				Area:            s.Area,
				Coordinate:      coord,
				CacheCoordinate: coord.Rounded(),
				PricePerArea:    s.PPSqft,
			},
			Travel: make(map[entity.TravelKey]entity.TravelInfo),
		},
		ModeScores:   make(map[entity.TravelKey]float64),
		TravelScores: make(map[string]float64),
		Score:        s.Score,
	}

	if s.Bedrooms.Valid {
		b := int(s.Bedrooms.Int64)
		l.Bedrooms = &b
	}
	if s.Bathrooms.Valid {
		b := s.Bathrooms.Float64
		l.Bathrooms = &b
	}
	if s.PostedAt.Valid {
		l.PostedAt = s.PostedAt.Time
	}

	var travel map[string]*float64
	if err := json.Unmarshal(s.Travel, &travel); err != nil {
		return entity.ScoredListing{}, err
	}

	for col, v := range travel {
		key, isDistance, ok := parseTravelColumn(col)
		if !ok {
			continue
		}
		info := l.Travel[key]
		if isDistance {
			info.DistanceKm = v
		} else {
			info.DurationMin = v
		}
		l.Travel[key] = info
	}

	var scores map[string]float64
	if err := json.Unmarshal(s.Scores, &scores); err != nil {
		return entity.ScoredListing{}, err
	}

	for col, v := range scores {
		name, ok := strings.CutSuffix(col, "_score")
		if !ok {
			continue
		}

		switch {
		case name == entity.MetricPricePerArea:
			l.PricePerAreaScore = v
		case strings.HasPrefix(name, "travel_"):
			l.TravelScores[strings.TrimPrefix(name, "travel_")] = v
		default:
			if mode, dest, ok := splitModePrefix(name); ok {
				l.ModeScores[entity.TravelKey{Destination: dest, Mode: mode}] = v
			}
		}
	}

	return l, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseTravelColumn reads distance_<dest>_<mode> and duration_<dest>_<mode>.
func parseTravelColumn(col string) (entity.TravelKey, bool, bool) {
	rest, isDistance := strings.CutPrefix(col, "distance_")
	if !isDistance {
		var ok bool
		if rest, ok = strings.CutPrefix(col, "duration_"); !ok {
			return entity.TravelKey{}, false, false
		}
	}

	i := strings.LastIndexByte(rest, '_')
	if i <= 0 {
		return entity.TravelKey{}, false, false
	}

	mode := entity.Mode(rest[i+1:])
	if !mode.Valid() {
		return entity.TravelKey{}, false, false
	}

	return entity.TravelKey{Destination: rest[:i], Mode: mode}, isDistance, true
}

func splitModePrefix(name string) (entity.Mode, string, bool) {
	for _, m := range entity.AllModes {
		if dest, ok := strings.CutPrefix(name, m.String()+"_"); ok && dest != "" {
			return m, dest, true
		}
	}
	return "", "", false
}
