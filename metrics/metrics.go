package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cruncher_requests_total",
			Help: "Total Numbers API requests",
		},
		[]string{"result"}, // SUCCESS|FAILURE
	)

	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cruncher_request_duration_seconds",
			Help:    "Duration of Numbers API requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	CrunchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cruncher_crunches_total",
			Help: "Total crunches by outcome",
		},
		[]string{"outcome"}, // Yum|Burp|Yuk|Error
	)

	TummySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cruncher_tummy_size",
			Help: "Number of facts currently held in the tummy",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CrunchesTotal)
	prometheus.MustRegister(TummySize)
}

func Register(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
