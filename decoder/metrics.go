// SPDX-License-Identifier: MIT

package decoder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// decodeCalls counts decode requests by mode.
	// Labels: "map", "cost_augmented", "marginals", "cost_augmented_marginals"
	decodeCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depdecode_decoder_calls_total",
		Help: "Decode calls by mode",
	}, []string{"mode"})

	decodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depdecode_decoder_duration_seconds",
		Help:    "Wall time of successful decode calls",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"mode"})

	// clamps counts values pulled back into range.
	// Labels: "loss", "entropy", "marginal"
	clamps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depdecode_decoder_clamps_total",
		Help: "Losses, entropies and marginals clamped after rounding drift",
	}, []string{"quantity"})
)

const (
	modeMAP                    = "map"
	modeCostAugmented          = "cost_augmented"
	modeMarginals              = "marginals"
	modeCostAugmentedMarginals = "cost_augmented_marginals"
)
