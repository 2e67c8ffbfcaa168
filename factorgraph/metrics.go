// SPDX-License-Identifier: MIT

package factorgraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// solvesTotal counts Solve calls by final status.
	// Labels: "integral", "fractional", "unsolved"
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depdecode_ad3_solves_total",
		Help: "AD3 solves by final status",
	}, []string{"status"})

	solveIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depdecode_ad3_iterations",
		Help:    "Iterations per AD3 solve",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})

	// factorSolves counts local QP solves by outcome.
	// Labels: "solved", "cached"
	factorSolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depdecode_ad3_factor_solves_total",
		Help: "Local factor QP solves, computed or served from cache",
	}, []string{"outcome"})
)
