package entity

type Destination struct {
	Name       string
	Coordinate Coordinate
	Modes      []Mode
}

func (d Destination) Keys() []TravelKey {
	keys := make([]TravelKey, 0, len(d.Modes))
	for _, m := range d.Modes {
		keys = append(keys, TravelKey{Destination: d.Name, Mode: m})
	}
	return keys
}

// ScoreBound is the normalization range of one metric. Values at or below Min
// score 1, values at or above Max score 0.
type ScoreBound struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// MetricPricePerArea is the bound name of the price-per-area metric. Travel
// metrics use the mode name.
const MetricPricePerArea = "ppsqft"

type ScoreBounds map[string]ScoreBound

func DefaultScoreBounds() ScoreBounds {
	travel := ScoreBound{Min: 8, Max: 30}

	return ScoreBounds{
		MetricPricePerArea:     {Min: 2, Max: 7},
		ModeWalking.String():   travel,
		ModeBicycling.String(): travel,
		ModeTransit.String():   travel,
		ModeDriving.String():   travel,
	}
}
