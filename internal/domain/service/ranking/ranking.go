package ranking

import (
	"sort"

	"rent_radar/internal/domain/entity"
)

const DefaultTopN = 5

// Result is the ranker output. Listings is sorted by score descending with
// ties in input order.
type Result struct {
	Listings   []entity.ScoredListing
	Considered []string
	Top        []string
}

// Rank does not modify scored.
func Rank(scored []entity.ScoredListing, topN int) Result {
	if topN < 0 {
		topN = 0
	}

	sorted := make([]entity.ScoredListing, len(scored))
	copy(sorted, scored)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	res := Result{
		Listings:   sorted,
		Considered: make([]string, 0, len(sorted)),
		Top:        make([]string, 0, min(topN, len(sorted))),
	}

	for i, l := range sorted {
		if l.Considered() {
			res.Considered = append(res.Considered, l.URL)
		}
		// Топ не зависит от порога score > 0.
		if i < topN {
			res.Top = append(res.Top, l.URL)
		}
	}

	return res
}
