package digest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"rent_radar/internal/digest"
	"rent_radar/internal/domain/entity"
)

func listing(id string, score float64) entity.ScoredListing {
	return entity.ScoredListing{
		EnrichedListing: entity.EnrichedListing{
			Listing: entity.Listing{
				ID:           id,
				URL:          "https://sfbay.example.org/apa/" + id + ".html",
				Title:        "Квартира <" + id + ">",
				Price:        3200,
				Area:         800,
				PricePerArea: 4,
			},
		},
		TravelScores: map[string]float64{"office": 0.75},
		Score:        score,
	}
}

func TestBuild(t *testing.T) {
	rq := require.New(t)

	date := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

	d, err := digest.Build(date, []entity.DigestSection{
		{
			Title:        "Two bedrooms",
			Destinations: []string{"office"},
			Batch: entity.ScoredBatch{
				Listings:   []entity.ScoredListing{listing("111", 0.6), listing("222", 0)},
				Considered: []string{"https://sfbay.example.org/apa/111.html"},
			},
		},
		{Failed: "no listings left after normalization"},
	})
	rq.NoError(err)

	rq.Equal("Listings for 2024-03-05", d.Subject)

	rq.Contains(d.HTML, "See below the best listings posted on Craigslist yesterday")
	rq.Contains(d.HTML, "<h3>Two bedrooms</h3>")
	rq.Contains(d.HTML, `<a href="https://sfbay.example.org/apa/111.html">111</a>`)
	rq.Contains(d.HTML, "Квартира &lt;111&gt;")
	rq.NotContains(d.HTML, "222")
	rq.Contains(d.HTML, "<th>office</th>")
	rq.Contains(d.HTML, "<td>0.75</td>")
	rq.Contains(d.HTML, "<h3>Category 2</h3>")
	rq.Contains(d.HTML, "No listings are available for this category")

	rq.True(strings.HasPrefix(d.Text, "Listings for 2024-03-05\n"))
	rq.Contains(d.Text, "1. https://sfbay.example.org/apa/111.html")
	rq.Contains(d.Text, "0.600")
}

func TestBuildAlignsWideRunes(t *testing.T) {
	rq := require.New(t)

	wide := listing("1", 0.9)
	wide.Title = "東京の部屋"
	narrow := listing("2", 0.8)
	narrow.Title = "Loft"

	d, err := digest.Build(time.Now(), []entity.DigestSection{{
		Title: "Mixed",
		Batch: entity.ScoredBatch{
			Listings:   []entity.ScoredListing{wide, narrow},
			Considered: []string{wide.URL, narrow.URL},
		},
	}})
	rq.NoError(err)

	var rows []string
	for _, line := range strings.Split(d.Text, "\n") {
		if strings.Contains(line, "$3200") {
			rows = append(rows, line)
		}
	}
	rq.Len(rows, 2)
	rq.Equal(
		runewidth.StringWidth(rows[0][:strings.Index(rows[0], "$3200")]),
		runewidth.StringWidth(rows[1][:strings.Index(rows[1], "$3200")]),
	)
}
