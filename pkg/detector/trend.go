package detector

import "gonum.org/v1/gonum/stat"

// fitPopulationTrend fits a simple linear regression of live-cell count over
// generation index, the same technique the teacher codebase uses to trend a
// production counter over time, applied here to a board's population
// instead. With fewer than two samples Slope and Intercept stay zero and
// Samples still reports the sample count.
func fitPopulationTrend(populations []int) PopulationTrend {
	if len(populations) < 2 {
		return PopulationTrend{Samples: len(populations)}
	}

	xs := make([]float64, len(populations))
	ys := make([]float64, len(populations))
	for i, p := range populations {
		xs[i] = float64(i)
		ys[i] = float64(p)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return PopulationTrend{Slope: beta, Intercept: alpha, Samples: len(populations)}
}
