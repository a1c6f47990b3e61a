package normalizer_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/domain/service/normalizer"
	"rent_radar/pkg/errcodes"
)

func rawListing(id string, body string) entity.RawListing {
	return entity.RawListing{
		ID:     id,
		URL:    "https://sfbay.example.org/apa/" + id + ".html",
		Name:   "Listing " + id,
		Body:   body,
		Price:  entity.TextValue("$3500"),
		Area:   entity.TextValue("700ft2"),
		Geotag: &[2]float64{37.776543, -122.417891},
	}
}

func TestNormalizeDropsShortDescriptions(t *testing.T) {
	rq := require.New(t)

	raw := make([]entity.RawListing, 0, 10)
	for i := range 10 {
		body := strings.Repeat("a", 150)
		if i%3 == 0 && i > 0 {
			body = strings.Repeat("b", 50)
		}
		raw = append(raw, rawListing(fmt.Sprint(i), body))
	}

	listings, report, err := normalizer.New(100).Normalize(context.Background(), raw)
	rq.NoError(err)
	rq.Len(listings, 7)
	rq.Equal(3, report.SmallDescription)
	rq.Equal(7, report.Output)

	for i := 1; i < len(listings); i++ {
		rq.Less(listings[i-1].ID, listings[i].ID)
	}
}

func TestNormalizeThresholdIsInclusive(t *testing.T) {
	rq := require.New(t)

	raw := []entity.RawListing{
		rawListing("at", strings.Repeat("x", 100)),
		rawListing("above", strings.Repeat("x", 101)),
	}

	listings, _, err := normalizer.New(100).Normalize(context.Background(), raw)
	rq.NoError(err)
	rq.Len(listings, 1)
	rq.Equal("above", listings[0].ID)
}

func TestNormalizeFields(t *testing.T) {
	rq := require.New(t)

	body := strings.Repeat("d", 120)
	withNumbers := rawListing("num", body)
	withNumbers.Price = entity.NumberValue(2100)
	withNumbers.Area = entity.NumberValue(700)
	withNumbers.Datetime = "2024-03-04 10:15"

	listings, report, err := normalizer.New(100).Normalize(context.Background(), []entity.RawListing{
		rawListing("str", body),
		withNumbers,
	})
	rq.NoError(err)
	rq.Equal(2, report.Output)

	rq.Equal(3500, listings[0].Price)
	rq.Equal(700, listings[0].Area)
	rq.InDelta(5.0, listings[0].PricePerArea, 1e-9)
	rq.Equal(entity.Coordinate{Lat: 37.7765, Lng: -122.4179}, listings[0].CacheCoordinate)
	rq.Equal(entity.Coordinate{Lat: 37.776543, Lng: -122.417891}, listings[0].Coordinate)

	rq.InDelta(3.0, listings[1].PricePerArea, 1e-9)
	rq.Equal(2024, listings[1].PostedAt.Year())
	rq.Equal(15, listings[1].PostedAt.Minute())
}

func TestNormalizeDropReasons(t *testing.T) {
	rq := require.New(t)

	body := strings.Repeat("d", 120)

	zeroArea := rawListing("zero-area", body)
	zeroArea.Area = entity.TextValue("big")

	zeroPrice := rawListing("zero-price", body)
	zeroPrice.Price = entity.NumberValue(0)

	noGeotag := rawListing("no-geotag", body)
	noGeotag.Geotag = nil

	noPrice := rawListing("no-price", body)
	noPrice.Price = entity.RawValue{}

	tinyArea := rawListing("tiny-area", body)
	tinyArea.Area = entity.NumberValue(0.4)

	tinyPrice := rawListing("tiny-price", body)
	tinyPrice.Price = entity.TextValue("$0.4")

	listings, report, err := normalizer.New(100).Normalize(context.Background(), []entity.RawListing{
		zeroArea, zeroPrice, noGeotag, noPrice, tinyArea, tinyPrice, rawListing("ok", body),
	})
	rq.NoError(err)
	rq.Len(listings, 1)
	rq.Equal("ok", listings[0].ID)
	rq.Equal(2, report.ZeroArea)
	rq.Equal(2, report.ZeroPrice)
	rq.Equal(2, report.Incomplete)

	for _, l := range listings {
		rq.Positive(l.Area)
		rq.Positive(l.Price)
		rq.False(math.IsInf(l.PricePerArea, 0))
	}
}

func TestNormalizeDropsDuplicateIDs(t *testing.T) {
	rq := require.New(t)

	body := strings.Repeat("d", 120)

	broken := rawListing("a", body)
	broken.Geotag = nil

	second := rawListing("a", body)
	second.Price = entity.TextValue("$2000")

	third := rawListing("a", body)
	third.Price = entity.TextValue("$1000")

	listings, report, err := normalizer.New(100).Normalize(context.Background(), []entity.RawListing{
		broken, second, rawListing("b", body), third,
	})
	rq.NoError(err)
	rq.Len(listings, 2)
	rq.Equal("a", listings[0].ID)
	rq.Equal(2000, listings[0].Price)
	rq.Equal("b", listings[1].ID)
	rq.Equal(1, report.Incomplete)
	rq.Equal(1, report.Duplicate)
	rq.Equal(2, report.Output)
}

func TestNormalizeEmptyResult(t *testing.T) {
	rq := require.New(t)

	_, report, err := normalizer.New(100).Normalize(context.Background(), []entity.RawListing{
		rawListing("short", "too short"),
	})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.DataQualityError, code)
	rq.Equal(0, report.Output)
}

func TestParse(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		parse func(entity.RawValue) (int, bool)
		input entity.RawValue
		want  int
		ok    bool
	}{
		{name: "Area string", parse: normalizer.ParseArea, input: entity.TextValue("850ft2"), want: 850, ok: true},
		{name: "Area string with suffix", parse: normalizer.ParseArea, input: entity.TextValue("1,200ft2 - 2br"), want: 1200, ok: true},
		{name: "Area number", parse: normalizer.ParseArea, input: entity.NumberValue(640), want: 640, ok: true},
		{name: "Area garbage", parse: normalizer.ParseArea, input: entity.TextValue("spacious"), ok: false},
		{name: "Area zero", parse: normalizer.ParseArea, input: entity.TextValue("0ft2"), ok: false},
		{name: "Area null", parse: normalizer.ParseArea, input: entity.RawValue{}, ok: false},
		{name: "Price string", parse: normalizer.ParsePrice, input: entity.TextValue("$3500"), want: 3500, ok: true},
		{name: "Price with comma", parse: normalizer.ParsePrice, input: entity.TextValue("$3,500"), want: 3500, ok: true},
		{name: "Price number", parse: normalizer.ParsePrice, input: entity.NumberValue(2999), want: 2999, ok: true},
		{name: "Price no currency", parse: normalizer.ParsePrice, input: entity.TextValue("3500"), ok: false},
		{name: "Price negative", parse: normalizer.ParsePrice, input: entity.NumberValue(-10), ok: false},
		{name: "Area below one", parse: normalizer.ParseArea, input: entity.NumberValue(0.4), ok: false},
		{name: "Area below one string", parse: normalizer.ParseArea, input: entity.TextValue("0.4ft2"), ok: false},
		{name: "Price below one", parse: normalizer.ParsePrice, input: entity.TextValue("$0.4"), ok: false},
		{name: "Price below one number", parse: normalizer.ParsePrice, input: entity.NumberValue(0.4), ok: false},
		{name: "Area fraction truncated", parse: normalizer.ParseArea, input: entity.NumberValue(850.9), want: 850, ok: true},
		{name: "Price fraction truncated", parse: normalizer.ParsePrice, input: entity.TextValue("$3,499.99"), want: 3499, ok: true},
	}

	for _, tc := range testCases {
		got, ok := tc.parse(tc.input)
		rq.Equal(tc.ok, ok, tc.name)
		rq.Equal(tc.want, got, tc.name)
	}
}
