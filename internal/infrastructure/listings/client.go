package listings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/httpx"
	"rent_radar/pkg/logx"
)

const (
	maxPayload = 32 << 20
	fetchTTL   = 24 * time.Hour
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client reads raw listings from the classifieds feed.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	fetched *cache.Cache
	now     func() time.Time
}

func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.RetryMax = 3
	rc.HTTPClient = httpx.NewClient(cfg.Timeout, httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()))
	rc.Logger = nil

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    rc,
		fetched: cache.New(fetchTTL, time.Hour),
		now:     time.Now,
	}
}

// Fetch returns at most limit raw listings. The same filters are fetched
// from the feed once per day.
func (c *Client) Fetch(ctx context.Context, filters entity.Filters, limit int) ([]entity.RawListing, error) {
	key := fmt.Sprintf("%s|%d|%s", filters.Key(), limit, c.now().Format(time.DateOnly))
	if v, ok := c.fetched.Get(key); ok {
		return v.([]entity.RawListing), nil //nolint:forcetypeassert // only listings are stored
	}

	u := c.baseURL + "/search?" + query(filters, limit, c.token).Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidURL, "build listings request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SourceUnavailable, "listings feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, domain.NewError(errcodes.SourceUnavailable, fmt.Sprintf("listings feed returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SourceUnavailable, "read listings feed")
	}

	var raw []entity.RawListing
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, domain.WrapError(err, errcodes.SourceUnavailable, "decode listings feed")
	}

	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}

	c.fetched.Set(key, raw, cache.DefaultExpiration)

	return raw, nil
}

func query(f entity.Filters, limit int, token string) url.Values {
	q := url.Values{}
	setPositive(q, "min_price", f.PriceMin)
	setPositive(q, "max_price", f.PriceMax)
	setPositive(q, "min_bedrooms", f.MinBedrooms)
	setPositive(q, "max_bedrooms", f.MaxBedrooms)
	setPositive(q, "min_ft2", f.MinArea)
	setPositive(q, "limit", limit)
	if f.PostedToday {
		q.Set("posted_today", "1")
	}
	if token != "" {
		q.Set("token", token)
	}
	return q
}

func setPositive(q url.Values, name string, v int) {
	if v > 0 {
		q.Set(name, strconv.Itoa(v))
	}
}
