// Package metrics defines prometheus metric types for the reader-side
// reliability feedback subsystem and provides a convenience method to
// record each emission decision. Modeled on m-lab-etl/metrics's
// promauto-based var block and runZeroInc-sockstats's gauge-per-socket
// style.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yzrtps/acknack/acknack"
)

var (
	// Decisions counts every classifier outcome, broken down by result.
	// Provides metric:
	//    acknack_decisions_total
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acknack_decisions_total",
		Help: "Number of AckNack/NackFrag decisions, by outcome.",
	}, []string{"outcome"})

	// BitmapBits measures the realized size of the sequence-number NACK
	// bitmap for decisions that carry one.
	//    acknack_bitmap_bits
	BitmapBits = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "acknack_bitmap_bits",
		Help:    "Length in bits (numbits) of the sequence-number NACK bitmap of decisions that carry one.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
	})

	// FragBitmapBits measures the realized size of the fragment NACK
	// bitmap for decisions that carry one.
	//    acknack_frag_bitmap_bits
	FragBitmapBits = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "acknack_frag_bitmap_bits",
		Help:    "Length in bits (numbits) of the fragment NACK bitmap of decisions that carry one.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
	})

	// NackFragCount mirrors ProxyWriter.NackFragCount per proxy writer.
	//    acknack_nackfrag_count
	NackFragCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "acknack_nackfrag_count",
		Help: "Current nackfragcount for a proxy writer.",
	}, []string{"proxy_writer"})
)

// Observe records one classifier decision.
func Observe(outcome acknack.Outcome, bitmapBits, fragBitmapBits int) {
	Decisions.WithLabelValues(outcome.String()).Inc()
	if bitmapBits > 0 {
		BitmapBits.Observe(float64(bitmapBits))
	}
	if fragBitmapBits > 0 {
		FragBitmapBits.Observe(float64(fragBitmapBits))
	}
}
