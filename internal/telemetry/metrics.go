// Package telemetry holds the business-level Prometheus metrics: webhook
// processing, billing funnel and directory activity.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds the business-level collectors. Handlers and services
// guard every use with a nil check so tests run without registration.
type BusinessMetrics struct {
	// Webhook processing
	WebhookReceived  *prometheus.CounterVec // labels: event_type
	WebhookProcessed *prometheus.CounterVec // labels: event_type
	WebhookFailed    *prometheus.CounterVec // labels: event_type, reason
	WebhookLatency   *prometheus.HistogramVec

	// Billing funnel
	CheckoutSessionsCreated   prometheus.Counter
	SubscriptionStatusUpdates *prometheus.CounterVec // labels: status

	// Directory activity
	ListingsPublished    prometheus.Counter
	QuoteRequestsCreated prometheus.Counter
	ReviewsSubmitted     prometheus.Counter
	ReviewsApproved      prometheus.Counter
	Signups              prometheus.Counter
}

// Business is the process-wide metrics instance, set by Init.
var Business *BusinessMetrics

// Init registers the business metrics and installs them as the process-wide
// instance.
func Init(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "vidar"
	}
	const subsystem = "business"

	Business = &BusinessMetrics{
		WebhookReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "webhook_received_total",
			Help: "Webhook deliveries received, by event type",
		}, []string{"event_type"}),
		WebhookProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "webhook_processed_total",
			Help: "Webhook deliveries fully applied, by event type",
		}, []string{"event_type"}),
		WebhookFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "webhook_failed_total",
			Help: "Webhook deliveries that failed processing, by event type and reason",
		}, []string{"event_type", "reason"}),
		WebhookLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "webhook_duration_seconds",
			Help:    "Webhook processing duration, by event type",
			Buckets: prometheus.DefBuckets,
		}, []string{"event_type"}),

		CheckoutSessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "checkout_sessions_created_total",
			Help: "Hosted checkout sessions created",
		}),
		SubscriptionStatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "subscription_status_updates_total",
			Help: "Subscription status writes, by resulting status",
		}, []string{"status"}),

		ListingsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "listings_published_total",
			Help: "Listings switched to published",
		}),
		QuoteRequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "quote_requests_created_total",
			Help: "Anonymous quote requests accepted",
		}),
		ReviewsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "reviews_submitted_total",
			Help: "Anonymous reviews accepted",
		}),
		ReviewsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "reviews_approved_total",
			Help: "Reviews approved by listing owners",
		}),
		Signups: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "signups_total",
			Help: "Profiles provisioned by the identity signup hook",
		}),
	}

	return Business
}
