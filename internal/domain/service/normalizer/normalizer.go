package normalizer

import (
	"context"
	"unicode/utf8"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
)

const DefaultSmallDescriptionThreshold = 100

type Normalizer struct {
	smallDescription int
}

func New(smallDescriptionThreshold int) *Normalizer {
	if smallDescriptionThreshold <= 0 {
		smallDescriptionThreshold = DefaultSmallDescriptionThreshold
	}
	return &Normalizer{smallDescription: smallDescriptionThreshold}
}

// Normalize drops unusable rows and derives price per area. Surviving rows
// keep their input order. An empty result is a DataQualityError.
func (n *Normalizer) Normalize(ctx context.Context, raw []entity.RawListing) ([]entity.Listing, entity.NormalizeReport, error) {
	report := entity.NormalizeReport{Input: len(raw)}
	out := make([]entity.Listing, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i := range raw {
		r := &raw[i]

		// Короткие описания — почти всегда спам или пустые объявления.
		if utf8.RuneCountInString(r.Body) <= n.smallDescription {
			report.SmallDescription++
			continue
		}

		area, areaOK := ParseArea(r.Area)
		if !areaOK && !r.Area.IsNull() {
			report.ZeroArea++
			continue
		}

		price, priceOK := ParsePrice(r.Price)
		if !priceOK && !r.Price.IsNull() {
			report.ZeroPrice++
			continue
		}

		if !areaOK || !priceOK || r.Geotag == nil {
			report.Incomplete++
			continue
		}

		coord := entity.Coordinate{Lat: r.Geotag[0], Lng: r.Geotag[1]}
		if !coord.Valid() {
			report.Incomplete++
			continue
		}

		// Первое вхождение побеждает, батч хранится по (run_id, listing_id).
		if r.ID != "" {
			if _, dup := seen[r.ID]; dup {
				report.Duplicate++
				continue
			}
			seen[r.ID] = struct{}{}
		}

		out = append(out, entity.Listing{
			ID:              r.ID,
			URL:             r.URL,
			Title:           r.Name,
			Price:           price,
			Area:            area,
			Bedrooms:        r.Bedrooms,
			Bathrooms:       r.Bathrooms,
			Coordinate:      coord,
			CacheCoordinate: coord.Rounded(),
			PricePerArea:    float64(price) / float64(area),
			PostedAt:        parseTime(r.Datetime),
			CreatedAt:       parseTime(r.Created),
			UpdatedAt:       parseTime(r.LastUpdated),
		})
	}

	report.Output = len(out)

	logger(ctx).Info("listings normalized",
		"input", report.Input,
		"small_description", report.SmallDescription,
		"zero_area", report.ZeroArea,
		"zero_price", report.ZeroPrice,
		"incomplete", report.Incomplete,
		"duplicate", report.Duplicate,
		"output", report.Output,
	)

	if len(out) == 0 {
		return nil, report, domain.NewError(errcodes.DataQualityError, "no listings left after normalization")
	}

	return out, report, nil
}
