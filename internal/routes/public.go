package routes

import (
	"net/http"

	"github.com/dukerupert/vidar/internal/middleware"
	"github.com/dukerupert/vidar/internal/router"
)

// RegisterPublicRoutes registers the anonymous directory surface. Quote and
// review intake get a tighter rate limit than browsing; both are open to
// anyone on the internet.
func RegisterPublicRoutes(r *router.Router, deps PublicDeps) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)

	r.Get("/listings", deps.Handler.BrowseListings)
	r.Get("/listings/{slug}", deps.Handler.GetListing)

	intake := middleware.RateLimit(middleware.IntakeRateLimiterConfig())
	r.Post("/listings/{slug}/quotes", deps.Handler.SubmitQuote, intake)
	r.Post("/listings/{slug}/reviews", deps.Handler.SubmitReview, intake)
}
