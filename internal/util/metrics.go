package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of add-to-cart operations",
	})

	CartRemovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_removals_total",
		Help: "Total number of cart line removals",
	})

	CheckoutValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_validation_failures_total",
		Help: "Checkout info-step validation failures by field",
	}, []string{"field"})

	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Total number of confirmed orders",
	})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Total number of confirmed orders persisted to the archive",
	})

	OrderArchiveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_archive_failures_total",
		Help: "Total number of failed order archive writes",
	})

	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Order notifications dispatched by method and outcome",
	}, []string{"method", "outcome"})

	ImageResizeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_resize_latency_seconds",
		Help:    "Latency of image ingestion resize operations",
		Buckets: prometheus.DefBuckets,
	})

	ImageGenerationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_generation_requests_total",
		Help: "External image generation requests by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
