package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// embedImpressionsTotal counts embed scripts served, by widget layout type.
	embedImpressionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_embed_impressions_total",
			Help: "Total number of embed widget scripts served.",
		},
		[]string{"widget_type"},
	)

	// testimonialSubmissionsTotal counts accepted public submissions, by the
	// moderation status they entered with.
	testimonialSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_submissions_total",
			Help: "Total number of accepted testimonial submissions.",
		},
		[]string{"status"},
	)
)

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
