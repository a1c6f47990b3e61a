package distancematrix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/httpx"
	"rent_radar/pkg/logx"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	maxPayload     = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Location is used to pin the transit departure time.
	Location *time.Location
}

// Client is a single-shot distance provider. Retries and pacing belong to
// the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	loc     *time.Location
	now     func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    httpx.NewClient(cfg.Timeout, httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker())),
		loc:     cfg.Location,
		now:     time.Now,
	}
}

type response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []element `json:"elements"`
	} `json:"rows"`
}

type element struct {
	Status   string `json:"status"`
	Distance *value `json:"distance"`
	Duration *value `json:"duration"`
}

type value struct {
	Value *float64 `json:"value"`
}

func (c *Client) Lookup(
	ctx context.Context,
	origin, destination entity.Coordinate,
	mode entity.Mode,
) (entity.TravelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+c.query(origin, destination, mode).Encode(), nil)
	if err != nil {
		return entity.TravelInfo{}, domain.WrapError(err, errcodes.InvalidURL, "build distance request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.TravelInfo{}, domain.WrapError(err, errcodes.TransientProviderError, "distance request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return entity.TravelInfo{}, domain.NewError(errcodes.TransientProviderError,
			fmt.Sprintf("distance provider returned %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return entity.TravelInfo{}, domain.NewError(errcodes.EnrichmentFailure,
			fmt.Sprintf("distance provider returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return entity.TravelInfo{}, domain.WrapError(err, errcodes.TransientProviderError, "read distance response")
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return entity.TravelInfo{}, domain.WrapError(err, errcodes.EnrichmentFailure, "decode distance response")
	}

	return parse(payload)
}

func (c *Client) query(origin, destination entity.Coordinate, mode entity.Mode) url.Values {
	q := url.Values{}
	q.Set("origins", origin.String())
	q.Set("destinations", destination.String())
	q.Set("mode", mode.String())
	q.Set("units", "metric")
	q.Set("key", c.apiKey)

	if mode == entity.ModeTransit {
		q.Set("transit_routing_preference", "less_walking")
		q.Set("departure_time", strconv.FormatInt(NextDeparture(c.now().In(c.loc)).Unix(), 10))
	}

	return q
}

// NextDeparture returns the next Monday 09:00 strictly after the current
// day, so transit results do not depend on when the run happens.
func NextDeparture(now time.Time) time.Time {
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}

	d := now.AddDate(0, 0, days)

	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, now.Location())
}

func parse(payload response) (entity.TravelInfo, error) {
	switch payload.Status {
	case "OK":
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return entity.TravelInfo{}, domain.NewError(errcodes.TransientProviderError, "provider status "+payload.Status)
	default:
		return entity.TravelInfo{}, domain.WrapError(errors.New(payload.ErrorMessage), errcodes.EnrichmentFailure,
			"provider status "+payload.Status)
	}

	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return entity.TravelInfo{}, domain.NewError(errcodes.EnrichmentFailure, "empty distance matrix")
	}

	el := payload.Rows[0].Elements[0]
	if el.Status != "OK" {
		return entity.TravelInfo{}, domain.NewError(errcodes.EnrichmentFailure, "element status "+el.Status)
	}

	// Поля разбираются независимо: одно может отсутствовать.
	var info entity.TravelInfo

	if el.Distance != nil && el.Distance.Value != nil {
		km := math.Round(*el.Distance.Value/1000*100) / 100
		info.DistanceKm = &km
	}

	if el.Duration != nil && el.Duration.Value != nil {
		minutes := math.Trunc(*el.Duration.Value / 60)
		info.DurationMin = &minutes
	}

	switch {
	case info.DistanceKm == nil && info.DurationMin == nil:
		return info, domain.NewError(errcodes.EnrichmentFailure, "distance and duration are missing")
	case info.DistanceKm == nil:
		return info, domain.NewError(errcodes.EnrichmentFailure, "distance is missing")
	case info.DurationMin == nil:
		return info, domain.NewError(errcodes.EnrichmentFailure, "duration is missing")
	}

	return info, nil
}
