package listings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/infrastructure/listings"
	"rent_radar/pkg/errcodes"
)

const feed = `[
	{"id":"7712","url":"https://sfbay.example.org/apa/7712.html","name":"Sunny 2br","body":"...","price":"$3,400","area":"850ft2","bedrooms":2,"bathrooms":1.5,"geotag":[37.7612,-122.4231],"datetime":"2024-03-04 09:12"},
	{"id":"7713","url":"https://sfbay.example.org/apa/7713.html","price":2900,"area":null,"geotag":null}
]`

func TestClientFetch(t *testing.T) {
	rq := require.New(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		rq.Equal("/search", r.URL.Path)
		rq.Equal("2000", r.URL.Query().Get("min_price"))
		rq.Equal("4000", r.URL.Query().Get("max_price"))
		rq.Equal("2", r.URL.Query().Get("min_bedrooms"))
		rq.Equal("1", r.URL.Query().Get("posted_today"))
		rq.Equal("50", r.URL.Query().Get("limit"))
		rq.Equal("secret", r.URL.Query().Get("token"))
		rq.Empty(r.URL.Query().Get("max_bedrooms"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	client := listings.NewClient(listings.Config{BaseURL: srv.URL, Token: "secret", Timeout: time.Second})
	filters := entity.Filters{PriceMin: 2000, PriceMax: 4000, MinBedrooms: 2, PostedToday: true}

	raw, err := client.Fetch(context.Background(), filters, 50)
	rq.NoError(err)
	rq.Len(raw, 2)
	rq.Equal("7712", raw[0].ID)
	rq.Equal("$3,400", *raw[0].Price.Text)
	rq.Equal(2, *raw[0].Bedrooms)
	rq.True(raw[1].Area.IsNull())

	_, err = client.Fetch(context.Background(), filters, 50)
	rq.NoError(err)
	rq.Equal(int32(1), hits.Load())
}

func TestClientFetchLimit(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	client := listings.NewClient(listings.Config{BaseURL: srv.URL, Timeout: time.Second})

	raw, err := client.Fetch(context.Background(), entity.Filters{}, 1)
	rq.NoError(err)
	rq.Len(raw, 1)
}

func TestClientFetchErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Bad request",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		},
		{
			name: "Malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"listings":`))
			},
		},
	}

	for _, tc := range testCases {
		srv := httptest.NewServer(tc.handler)

		client := listings.NewClient(listings.Config{BaseURL: srv.URL, Timeout: time.Second})
		_, err := client.Fetch(context.Background(), entity.Filters{PriceMax: 1}, 10)
		srv.Close()

		code, ok := domain.GetCode(err)
		rq.True(ok, tc.name)
		rq.Equal(errcodes.SourceUnavailable, code, tc.name)
	}
}
