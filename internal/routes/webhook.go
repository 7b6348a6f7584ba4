package routes

import (
	"github.com/dukerupert/vidar/internal/middleware"
	"github.com/dukerupert/vidar/internal/router"
)

// RegisterWebhookRoutes registers payment processor delivery endpoints.
//
// No authentication middleware here: the handler verifies the processor's
// payload signature itself, against the raw body.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/webhooks/stripe", deps.StripeHandler.HandleWebhook, middleware.MaxBodySize(1*middleware.MB))
}

// RegisterHookRoutes registers identity service hooks. The handler checks the
// shared hook secret itself.
func RegisterHookRoutes(r *router.Router, deps HookDeps) {
	r.Post("/hooks/signup", deps.Handler.Signup)
}
