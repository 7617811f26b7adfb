package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "matches_total", Help: "Total number of match computations"})
	MatchLatency  = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "carpool", Name: "match_latency_seconds", Help: "Match latency seconds"})
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "bookings_total", Help: "Total number of successful seat bookings"})

	OffersActive = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "carpool", Name: "offers_active", Help: "Number of active offers at last listing"})
)
