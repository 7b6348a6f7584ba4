// Package routes wires handlers onto the router, one registration function
// per surface.
package routes

import (
	"net/http"

	"github.com/dukerupert/vidar/internal/handler"
	"github.com/dukerupert/vidar/internal/handler/webhook"
	"github.com/dukerupert/vidar/internal/identity"
)

// PublicDeps contains dependencies for the anonymous directory surface.
type PublicDeps struct {
	Handler *handler.PublicHandler

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}

// AccountDeps contains dependencies for the authenticated account surface.
type AccountDeps struct {
	Handler  *handler.AccountHandler
	Verifier identity.Verifier
}

// WebhookDeps contains dependencies for payment processor deliveries.
type WebhookDeps struct {
	StripeHandler *webhook.StripeHandler
}

// HookDeps contains dependencies for identity service hooks.
type HookDeps struct {
	Handler *handler.HookHandler
}
