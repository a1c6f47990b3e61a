package view_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain/entity"
	"rent_radar/internal/transport/bot/view"
	"rent_radar/internal/worker"
)

func TestStatus(t *testing.T) {
	rq := require.New(t)

	next := time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)

	text := view.Status(true, next, nil, nil)
	rq.Contains(text, "🟢 работает")
	rq.Contains(text, "06.03 08:00")
	rq.Contains(text, "все")
	rq.Contains(text, "ещё не было")

	text = view.Status(false, next, &worker.LastRun{StartedAt: next, Err: errors.New("source <down>")}, []string{"studio"})
	rq.Contains(text, "🔴 остановлено")
	rq.Contains(text, "studio")
	rq.Contains(text, "source &lt;down&gt;")

	text = view.Status(true, next, &worker.LastRun{StartedAt: next, Sections: 2, Considered: 7}, nil)
	rq.Contains(text, "секций 2, подходящих 7")
}

func TestProfiles(t *testing.T) {
	rq := require.New(t)

	text := view.Profiles([]entity.Profile{
		{Name: "two-br", Title: "Two bedrooms", Filters: entity.Filters{PriceMin: 2000, PriceMax: 4500, MinBedrooms: 2, MinArea: 600}},
		{Name: "studio"},
	}, []string{"studio"})

	rq.Contains(text, "Профили (2)")
	rq.Contains(text, "<code>two-br</code> Two bedrooms\n")
	rq.Contains(text, "$2000–4500, спален 2+, от 600 ft²")
	rq.Contains(text, "<code>studio</code> Category 2 ⭐")
}

func TestTop(t *testing.T) {
	rq := require.New(t)

	listing := func(id, title string, score float64) entity.ScoredListing {
		return entity.ScoredListing{
			EnrichedListing: entity.EnrichedListing{Listing: entity.Listing{
				ID: id, URL: "https://example.org/" + id, Title: title, Price: 3000, Area: 700,
			}},
			Score: score,
		}
	}

	text := view.Top(entity.ScoredBatch{
		Profile:    "two-br",
		CreatedAt:  time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
		Listings:   []entity.ScoredListing{listing("1", "Loft & garden", 0.8), listing("2", "", 0)},
		Considered: []string{"https://example.org/1"},
		Top:        []string{"https://example.org/1", "https://example.org/2"},
	})

	rq.Contains(text, "Всего 2, подходящих 1")
	rq.Contains(text, `1. <a href="https://example.org/1">Loft &amp; garden</a>`)
	rq.Contains(text, "score 0.800")
	rq.Contains(text, `2. <a href="https://example.org/2">2</a>`)
}
