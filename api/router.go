package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// requestLogger logs every request through logrus and counts it
func requestLogger(served *atomic.Int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			served.Add(1)
			log.WithField("request_id", middleware.GetReqID(r.Context())).
				WithField("method", r.Method).
				WithField("path", r.URL.Path).
				WithField("status", ww.Status()).
				WithField("duration", time.Since(start)).
				Debug("[API] Served request")
		})
	}
}

func NewRouter(h *Handler, served *atomic.Int64) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(served),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", h.Health)

		r.Route("/fundraisers", func(r chi.Router) {
			r.Post("/", h.Initialize)
			r.Route("/{address}", func(r chi.Router) {
				r.Get("/", h.Fundraiser)
				r.Post("/contributions", h.Contribute)
				r.Get("/contributors/{contributor}", h.Contributor)
				r.Post("/withdraw", h.Withdraw)
				r.Post("/refunds", h.Refund)
			})
		})

		r.Route("/mints", func(r chi.Router) {
			r.Post("/", h.CreateMint)
			r.Post("/{mint}/accounts", h.CreateAccount)
			r.Post("/{mint}/issue", h.MintTo)
		})

		r.Get("/accounts/{address}", h.Account)
	})

	return r
}
