package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rent_radar/internal/domain/entity"
)

//nolint:gochecknoglobals
var (
	areaPattern  = regexp.MustCompile(`(?i)^\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*ft(?:2|²)`)
	pricePattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

// listingTimeLayouts — форматы дат, которые встречаются в выгрузках.
//
//nolint:gochecknoglobals
var listingTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseArea reads "850ft2" or a bare number. Non-positive values are
// treated as unparsable.
func ParseArea(v entity.RawValue) (int, bool) {
	return parseWith(v, areaPattern)
}

// ParsePrice reads "$3500", "$3,500" or a bare number.
func ParsePrice(v entity.RawValue) (int, bool) {
	return parseWith(v, pricePattern)
}

func parseWith(v entity.RawValue, re *regexp.Regexp) (int, bool) {
	switch {
	case v.Number != nil:
		return positiveInt(*v.Number)
	case v.Text != nil:
		m := re.FindStringSubmatch(*v.Text)
		if m == nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return positiveInt(f)
	default:
		return 0, false
	}
}

// positiveInt truncates toward zero first, so 0.4 becomes 0 and is rejected.
func positiveInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt32 {
		return 0, false
	}

	n := int(f)
	if n <= 0 {
		return 0, false
	}

	return n, true
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range listingTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
