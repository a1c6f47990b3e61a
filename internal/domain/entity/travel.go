package entity

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeWalking   Mode = "walking"
	ModeTransit   Mode = "transit"
	ModeBicycling Mode = "bicycling"
	ModeDriving   Mode = "driving"
)

//nolint:gochecknoglobals
var AllModes = []Mode{ModeWalking, ModeTransit, ModeBicycling, ModeDriving}

// ParseMode accepts the provider mode names plus "cycling" as an alias.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "cycling" {
		m = ModeBicycling
	}

	if !m.Valid() {
		return "", fmt.Errorf("unknown travel mode %q", s)
	}

	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeWalking, ModeTransit, ModeBicycling, ModeDriving:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

type TravelKey struct {
	Destination string
	Mode        Mode
}

func (k TravelKey) DistanceColumn() string {
	return "distance_" + k.Destination + "_" + k.Mode.String()
}

func (k TravelKey) DurationColumn() string {
	return "duration_" + k.Destination + "_" + k.Mode.String()
}

func (k TravelKey) ScoreColumn() string {
	return k.Mode.String() + "_" + k.Destination + "_score"
}

// TravelInfo — результат одного запроса к провайдеру. nil = ячейка не заполнена.
type TravelInfo struct {
	DistanceKm  *float64 `json:"distance_km"`
	DurationMin *float64 `json:"duration_min"`
}

func (t TravelInfo) Complete() bool {
	return t.DistanceKm != nil && t.DurationMin != nil
}

// NullCells counts the empty fields.
func (t TravelInfo) NullCells() int {
	n := 0
	if t.DistanceKm == nil {
		n++
	}
	if t.DurationMin == nil {
		n++
	}
	return n
}
