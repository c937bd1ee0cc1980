package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "typecadence_store_samples_written_total",
			Help: "Insert calls accepted by the sample store, including ignored duplicates.",
		},
	)
	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typecadence_store_errors_total",
			Help: "Failed sample store operations.",
		},
		[]string{"op"},
	)
)
