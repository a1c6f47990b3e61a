package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"rent_radar/internal/domain/entity"
	"rent_radar/internal/worker"
	"rent_radar/pkg/lox"
)

func Status(running bool, next time.Time, last *worker.LastRun, selected []string) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Статус</b>\n\n")

	if running {
		fmt.Fprintf(&sb, "🗓 <b>Расписание:</b> 🟢 работает, следующий прогон %s\n", next.Format("02.01 15:04 MST"))
	} else {
		sb.WriteString("🗓 <b>Расписание:</b> 🔴 остановлено\n")
	}

	if len(selected) == 0 {
		sb.WriteString("📦 <b>Профили:</b> все\n")
	} else {
		fmt.Fprintf(&sb, "📦 <b>Профили:</b> %s\n", html.EscapeString(strings.Join(selected, ", ")))
	}

	switch {
	case last == nil:
		sb.WriteString("🕑 <b>Последний прогон:</b> ещё не было\n")
	case last.Err != nil:
		fmt.Fprintf(&sb, "🕑 <b>Последний прогон:</b> %s ❌ %s\n",
			last.StartedAt.Format("02.01 15:04"), html.EscapeString(last.Err.Error()))
	default:
		fmt.Fprintf(&sb, "🕑 <b>Последний прогон:</b> %s ✅ секций %d, подходящих %d\n",
			last.StartedAt.Format("02.01 15:04"), last.Sections, last.Considered)
	}

	return sb.String()
}

func Profiles(profiles []entity.Profile, selected []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 <b>Профили (%d):</b>\n\n", len(profiles))

	for i, p := range profiles {
		mark := ""
		for _, s := range selected {
			if s == p.Name {
				mark = " ⭐"
				break
			}
		}

		title := p.Title
		if title == "" {
			title = fmt.Sprintf("Category %d", i+1)
		}

		fmt.Fprintf(&sb, "%d. <code>%s</code> %s%s\n", i+1, html.EscapeString(p.Name), html.EscapeString(title), mark)
		fmt.Fprintf(&sb, "    $%s, спален %s, от %d ft²\n",
			span(p.Filters.PriceMin, p.Filters.PriceMax),
			span(p.Filters.MinBedrooms, p.Filters.MaxBedrooms),
			p.Filters.MinArea,
		)
	}

	return sb.String()
}

// Top lists the shortlist of a batch with scores.
func Top(batch entity.ScoredBatch) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🏆 <b>%s</b> — %s\n", html.EscapeString(batch.Profile), batch.CreatedAt.Format("02.01 15:04"))
	fmt.Fprintf(&sb, "Всего %d, подходящих %d\n\n", len(batch.Listings), len(batch.Considered))

	byURL := lox.FilterAssociate(batch.Listings, func(l entity.ScoredListing) (string, bool) {
		return l.URL, l.URL != ""
	})

	for i, u := range batch.Top {
		l := byURL[u]
		fmt.Fprintf(&sb, "%d. <a href=\"%s\">%s</a>\n    $%d · %d ft² · score %.3f\n",
			i+1, html.EscapeString(u), html.EscapeString(titleOr(l)), l.Price, l.Area, l.Score)
	}

	return sb.String()
}

func titleOr(l entity.ScoredListing) string {
	if l.Title != "" {
		return l.Title
	}
	return l.ID
}

func span(lo, hi int) string {
	switch {
	case lo > 0 && hi > 0:
		return fmt.Sprintf("%d–%d", lo, hi)
	case lo > 0:
		return fmt.Sprintf("%d+", lo)
	case hi > 0:
		return fmt.Sprintf("≤%d", hi)
	default:
		return "любые"
	}
}
