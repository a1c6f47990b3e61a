package httpx

import (
	"net/http"
	"time"
)

// NewClient returns an http.Client whose transport logs every exchange.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewLoggingRoundTripper(http.DefaultTransport, opts...),
	}
}
