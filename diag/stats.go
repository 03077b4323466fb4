package diag

import (
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/golb/fluid"
)

// VelocityStats returns the mean and variance of each velocity component
// over every site of the field.
func VelocityStats(f *fluid.Field) (mean, variance [3]float64) {
	comps := [3][]float64{}
	for a := range comps { comps[a] = make([]float64, f.Volume) }

	for idx := 0; idx < f.Volume; idx++ {
		_, u := f.Velocity(idx)
		for a := 0; a < 3; a++ { comps[a][idx] = u[a] }
	}

	for a := 0; a < 3; a++ {
		mean[a], variance[a] = stat.MeanVariance(comps[a], nil)
	}
	return mean, variance
}

// SeriesStats returns the mean and standard deviation of the density and z
// velocity of a time series.
func SeriesStats(recs []TimeSeriesRecord) (rho, vz [2]float64) {
	rhos := make([]float64, len(recs))
	vzs := make([]float64, len(recs))
	for i, r := range recs { rhos[i], vzs[i] = r.Density, r.Vz }

	rho[0], rho[1] = stat.MeanStdDev(rhos, nil)
	vz[0], vz[1] = stat.MeanStdDev(vzs, nil)
	return rho, vz
}
