package config

import "time"

type Listings struct {
	BaseURL string        `env:"LISTINGS_URL,required"`
	Token   string        `env:"LISTINGS_TOKEN" json:"-"`
	Timeout time.Duration `env:"LISTINGS_TIMEOUT" envDefault:"30s"`
}

type Distance struct {
	BaseURL  string        `env:"DISTANCE_URL"`
	APIKey   string        `env:"DISTANCE_API_KEY,required" json:"-"`
	Timeout  time.Duration `env:"DISTANCE_TIMEOUT" envDefault:"10s"`
	Timezone string        `env:"DISTANCE_TZ" envDefault:"America/Los_Angeles"`
}

type Enricher struct {
	Workers  int           `env:"ENRICH_WORKERS" envDefault:"4"`
	Interval time.Duration `env:"ENRICH_INTERVAL" envDefault:"1500ms"`
	Attempts int           `env:"ENRICH_ATTEMPTS" envDefault:"3"`
	Backoff  time.Duration `env:"ENRICH_BACKOFF" envDefault:"2s"`
	CacheTTL time.Duration `env:"TRAVEL_CACHE_TTL" envDefault:"720h"`
}

type Schedule struct {
	// At is the local wall-clock time of the daily digest, "HH:MM".
	At       string `env:"DIGEST_AT" envDefault:"08:00"`
	Timezone string `env:"DIGEST_TZ" envDefault:"America/Los_Angeles"`
	Paused   bool   `env:"DIGEST_PAUSED" envDefault:"false"`
}

type HTTP struct {
	ListenAddress  string `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	// RequestsPerMinute limits API calls per client IP.
	RequestsPerMinute int `env:"HTTP_RATE_LIMIT" envDefault:"60"`
}
