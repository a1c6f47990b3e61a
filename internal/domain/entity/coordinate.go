package entity

import (
	"fmt"
	"math"
)

// cacheKeyPrecision — 4 знака после запятой, ~11 м на местности.
const cacheKeyPrecision = 1e4

type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Rounded returns the coordinate rounded to 4 decimals. It is only used as a
// travel cache key so that neighbouring listings share one lookup.
func (c Coordinate) Rounded() Coordinate {
	return Coordinate{
		Lat: math.Round(c.Lat*cacheKeyPrecision) / cacheKeyPrecision,
		Lng: math.Round(c.Lng*cacheKeyPrecision) / cacheKeyPrecision,
	}
}

func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
