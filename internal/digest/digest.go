package digest

import (
	"bytes"
	"fmt"
	"time"

	"rent_radar/internal/domain/entity"
)

const noListings = "No listings are available for this category"

type Digest struct {
	Subject string
	HTML    string
	// Text is a plain fallback used by chat notifiers and the mail text part.
	Text string
}

type row struct {
	ID           string
	URL          string
	Title        string
	Price        int
	Area         int
	PricePerArea string
	Travel       []string
	Score        string
}

type section struct {
	Title        string
	Destinations []string
	Rows         []row
	Empty        string
}

// Build renders the considered listings of every section. Sections without a
// title are named "Category <n>".
func Build(date time.Time, sections []entity.DigestSection) (Digest, error) {
	views := make([]section, 0, len(sections))
	for i, s := range sections {
		views = append(views, toView(i, s))
	}

	var html bytes.Buffer
	if err := page.Execute(&html, pageData{Sections: views}); err != nil {
		return Digest{}, fmt.Errorf("render digest html: %w", err)
	}

	return Digest{
		Subject: Subject(date),
		HTML:    html.String(),
		Text:    renderText(date, views),
	}, nil
}

func Subject(date time.Time) string {
	return "Listings for " + date.Format(time.DateOnly)
}

func toView(i int, s entity.DigestSection) section {
	v := section{
		Title:        s.Title,
		Destinations: s.Destinations,
	}
	if v.Title == "" {
		v.Title = fmt.Sprintf("Category %d", i+1)
	}

	for _, l := range s.Batch.ConsideredListings() {
		r := row{
			ID:           l.ID,
			URL:          l.URL,
			Title:        l.Title,
			Price:        l.Price,
			Area:         l.Area,
			PricePerArea: fmt.Sprintf("%.2f", l.PricePerArea),
			Score:        fmt.Sprintf("%.3f", l.Score),
		}
		for _, d := range s.Destinations {
			r.Travel = append(r.Travel, fmt.Sprintf("%.2f", l.TravelScores[d]))
		}
		v.Rows = append(v.Rows, r)
	}

	if len(v.Rows) == 0 {
		v.Empty = noListings
	}

	return v
}
