package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/lox"
)

// Search configuration validation errors.
var (
	ErrNoProfiles           = errors.New("at least one profile is required")
	ErrDuplicateProfile     = errors.New("profile names must be unique")
	ErrPriceRange           = errors.New("price_min cannot exceed price_max")
	ErrBedroomRange         = errors.New("min_bedrooms cannot exceed max_bedrooms")
	ErrNoDestinations       = errors.New("at least one destination is required")
	ErrMissingCoordinate    = errors.New("destination requires lat and lng")
	ErrInvalidCoordinate    = errors.New("destination coordinate is out of range")
	ErrNoModes              = errors.New("destination has no travel modes")
	ErrInvalidBound         = errors.New("bound min must be below max")
	ErrMissingBound         = errors.New("no bound for metric")
	ErrInvalidMode          = errors.New("unknown travel mode")
	ErrInvalidSearchPayload = errors.New("search config is invalid")
)

type Search struct {
	Profiles     []ProfileConfig              `yaml:"profiles" validate:"required,dive"`
	Destinations map[string]DestinationConfig `yaml:"destinations" validate:"dive"`
	Modes        ModeList                     `yaml:"modes"`
	Bounds       map[string]entity.ScoreBound `yaml:"bounds"`
	Limit        int                          `yaml:"limit" validate:"gte=0"`
	TopN         int                          `yaml:"top_n" validate:"gte=0"`
	// SmallDescriptionThreshold is the minimum description length in runes.
	SmallDescriptionThreshold int      `yaml:"small_description_threshold" validate:"gte=0"`
	Receivers                 []string `yaml:"receivers" validate:"dive,email"`
}

type ProfileConfig struct {
	Name        string `yaml:"name" validate:"required,printascii,excludesall=/"`
	Title       string `yaml:"title"`
	PriceMin    int    `yaml:"price_min" validate:"gte=0"`
	PriceMax    int    `yaml:"price_max" validate:"gte=0"`
	MinBedrooms int    `yaml:"min_bedrooms" validate:"gte=0"`
	MaxBedrooms int    `yaml:"max_bedrooms" validate:"gte=0"`
	MinArea     int    `yaml:"min_area" validate:"gte=0"`
	PostedToday bool   `yaml:"posted_today"`
}

type DestinationConfig struct {
	Lat   *float64 `yaml:"lat"`
	Lng   *float64 `yaml:"lng"`
	Modes ModeList `yaml:"modes"`
}

// ModeList accepts a single mode or a list of modes.
type ModeList []entity.Mode

func (l *ModeList) UnmarshalYAML(value *yaml.Node) error {
	var names []string

	switch value.Kind {
	case yaml.ScalarNode:
		names = []string{value.Value}
	case yaml.SequenceNode:
		if err := value.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: modes must be a string or a list", value.Line)
	}

	modes := make(ModeList, 0, len(names))
	for _, n := range names {
		m, err := entity.ParseMode(n)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidMode, n)
		}
		modes = append(modes, m)
	}

	*l = modes

	return nil
}

// LoadSearch reads and validates the YAML search configuration. Unknown keys
// are rejected. Every failure is a ConfigurationError.
func LoadSearch(path string) (Search, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Search{}, domain.WrapError(err, errcodes.ConfigurationError, "read search config")
	}

	return ParseSearch(data)
}

func ParseSearch(data []byte) (Search, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Search
	if err := dec.Decode(&s); err != nil {
		return Search{}, domain.WrapError(err, errcodes.ConfigurationError, "parse search config")
	}

	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return Search{}, domain.WrapError(err, errcodes.ConfigurationError, "invalid search config")
	}

	return s, nil
}

func (s *Search) applyDefaults() {
	bounds := entity.DefaultScoreBounds()
	for k, v := range s.Bounds {
		bounds[k] = v
	}
	s.Bounds = bounds

	for name, d := range s.Destinations {
		if len(d.Modes) == 0 {
			d.Modes = s.Modes
			s.Destinations[name] = d
		}
	}
}

func (s *Search) Validate() error {
	if len(s.Profiles) == 0 {
		return ErrNoProfiles
	}

	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSearchPayload, err)
	}

	seen := make(map[string]struct{}, len(s.Profiles))
	for i, p := range s.Profiles {
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateProfile, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.PriceMax > 0 && p.PriceMin > p.PriceMax {
			return fmt.Errorf("%w: profiles[%d]", ErrPriceRange, i)
		}
		if p.MaxBedrooms > 0 && p.MinBedrooms > p.MaxBedrooms {
			return fmt.Errorf("%w: profiles[%d]", ErrBedroomRange, i)
		}
	}

	if len(s.Destinations) == 0 {
		return ErrNoDestinations
	}

	for name, d := range s.Destinations {
		if d.Lat == nil || d.Lng == nil {
			return fmt.Errorf("%w: %s", ErrMissingCoordinate, name)
		}
		if !(entity.Coordinate{Lat: *d.Lat, Lng: *d.Lng}).Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidCoordinate, name)
		}
		if len(d.Modes) == 0 {
			return fmt.Errorf("%w: %s", ErrNoModes, name)
		}
	}

	for metric, b := range s.Bounds {
		if b.Min >= b.Max {
			return fmt.Errorf("%w: %s (%g, %g)", ErrInvalidBound, metric, b.Min, b.Max)
		}
	}

	for _, d := range s.Destinations {
		for _, m := range d.Modes {
			if _, ok := s.Bounds[m.String()]; !ok {
				return fmt.Errorf("%w: %s", ErrMissingBound, m)
			}
		}
	}

	return nil
}

// DomainProfiles keeps the file order. Empty titles stay empty; the digest
// names them.
func (s Search) DomainProfiles() []entity.Profile {
	return lox.Map(s.Profiles, func(p ProfileConfig) entity.Profile {
		return entity.Profile{
			Name:  p.Name,
			Title: p.Title,
			Filters: entity.Filters{
				PriceMin:    p.PriceMin,
				PriceMax:    p.PriceMax,
				MinBedrooms: p.MinBedrooms,
				MaxBedrooms: p.MaxBedrooms,
				MinArea:     p.MinArea,
				PostedToday: p.PostedToday,
			},
		}
	})
}

// DomainDestinations are sorted by name.
func (s Search) DomainDestinations() []entity.Destination {
	names := make([]string, 0, len(s.Destinations))
	for name := range s.Destinations {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]entity.Destination, 0, len(names))
	for _, name := range names {
		d := s.Destinations[name]
		out = append(out, entity.Destination{
			Name:       name,
			Coordinate: entity.Coordinate{Lat: *d.Lat, Lng: *d.Lng},
			Modes:      d.Modes,
		})
	}
	return out
}

func (s Search) ScoreBounds() entity.ScoreBounds {
	return s.Bounds
}
