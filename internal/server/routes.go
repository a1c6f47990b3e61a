package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"rent_radar/pkg/httpx/reply"
	"rent_radar/pkg/logx"
	"rent_radar/pkg/middlewarex"
)

const logFieldMaxLen = 4096

type RouterOptions struct {
	// RequestsPerMinute limits calls per client IP, 0 disables the limit.
	RequestsPerMinute   int
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
}

func NewRouter(s Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	masker := opts.SensitiveDataMasker
	if masker == nil {
		masker = logx.NewSensitiveDataMasker()
	}

	r.Use(
		middlewarex.TraceID,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	if opts.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
	}

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", handler(s.getV1Profiles))
			r.Get("/{profile}/digest", handler(s.getV1ProfileDigest))
		})
		r.Post("/runs", handler(s.postV1Run))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
