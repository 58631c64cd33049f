package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Add failure reasons.
const (
	reasonValidation = "validation"
	reasonImage      = "image"
	reasonStore      = "store"
)

var (
	itemsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_items_added_total",
			Help: "Total number of items added to the inventory",
		},
	)

	itemAddFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_item_add_failures_total",
			Help: "Total number of rejected or failed add-item submissions",
		},
		[]string{"reason"},
	)

	descriptionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_description_fallbacks_total",
			Help: "Total number of items created with the fallback description",
		},
	)

	rentalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_rentals_total",
			Help: "Total number of confirmed rentals",
		},
	)

	rentalRevenueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_rental_revenue_total",
			Help: "Sum of confirmed rental totals",
		},
	)

	itemsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_items_deleted_total",
			Help: "Total number of items deleted from the inventory",
		},
	)

	submissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_add_submissions_in_flight",
			Help: "Number of add-item submissions currently being processed",
		},
	)
)

func recordAddFailure(reason string) {
	itemAddFailuresTotal.WithLabelValues(reason).Inc()
}

func recordRental(total float64) {
	rentalsTotal.Inc()
	if total > 0 {
		rentalRevenueTotal.Add(total)
	}
}
