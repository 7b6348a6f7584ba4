package routes

import (
	"github.com/dukerupert/vidar/internal/middleware"
	"github.com/dukerupert/vidar/internal/router"
)

// RegisterAccountRoutes registers the authenticated account surface. Every
// route resolves the bearer token against the identity service and rejects
// anonymous requests.
func RegisterAccountRoutes(r *router.Router, deps AccountDeps) {
	account := r.Group(middleware.WithUser(deps.Verifier), middleware.RequireUser)

	account.Get("/account/profile", deps.Handler.GetProfile)
	account.Post("/account/billing/checkout", deps.Handler.CreateCheckout)

	account.Get("/account/listing", deps.Handler.GetListing)
	account.Put("/account/listing", deps.Handler.UpsertListing)
	account.Post("/account/listing/publish", deps.Handler.PublishListing)
	account.Post("/account/listing/unpublish", deps.Handler.UnpublishListing)

	account.Get("/account/quotes", deps.Handler.ListQuotes)
	account.Patch("/account/quotes/{id}", deps.Handler.UpdateQuoteStatus)

	account.Get("/account/reviews", deps.Handler.ListReviews)
	account.Post("/account/reviews/{id}/approve", deps.Handler.ApproveReview)
}
