package diag

import (
	"fmt"
	"math"

	plt "github.com/phil-mansfield/pyplot"
)

// PlotProfile queues a plot of the z velocity profile of one step.
func PlotProfile(recs []ProfileRecord, step int, fname string) {
	is, vzs := make([]float64, len(recs)), make([]float64, len(recs))
	for j, r := range recs { is[j], vzs[j] = float64(r.I), r.Vz }

	plt.Figure()
	plt.Plot(is, vzs, "ok")
	plt.Plot(is, vzs, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("Step %d", step))
	plt.XLabel(`$x$ [lattice units]`, plt.FontSize(16))
	plt.YLabel(`$v_z$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// PlotTimeSeries queues a plot of the density and z velocity of the
// monitored site.
func PlotTimeSeries(recs []TimeSeriesRecord, fname string) {
	steps := make([]float64, len(recs))
	rhos, vzs := make([]float64, len(recs)), make([]float64, len(recs))
	for i, r := range recs {
		steps[i], rhos[i], vzs[i] = float64(r.Step), r.Density, r.Vz
	}

	plt.Figure()
	plt.Plot(steps, rhos, "b", plt.LW(2))
	plt.Plot(steps, vzs, "r", plt.LW(2))
	plt.Title(`Monitored site: density (blue), $v_z$ (red)`)
	plt.XLabel(`step`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// PlotHistogram queues a plot of a velocity histogram alongside the
// Gaussian expected for a fluid at temperature lbTemp and density rho0, both
// in lattice units. A non-positive lbTemp skips the Gaussian.
func PlotHistogram(
	recs []HistogramRecord, center, lbTemp, rho0 float64, fname string,
) {
	xs, ys := make([]float64, len(recs)), make([]float64, len(recs))
	for i, r := range recs { xs[i], ys[i] = r.Center, r.Density }

	plt.Figure()
	plt.Plot(xs, ys, "ok")
	if lbTemp > 0 && len(xs) > 1 {
		gs := make([]float64, len(xs))
		for i, x := range xs { gs[i] = Gaussian(x, center, lbTemp / rho0) }
		plt.Plot(xs, gs, "r", plt.LW(3))
	}
	plt.XLabel(`$v_z$`, plt.FontSize(16))
	plt.YLabel(`$P(v_z)$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// Gaussian returns the normal density with the given mean and variance.
func Gaussian(x, mean, variance float64) float64 {
	dx := x - mean
	return math.Exp(-dx*dx / (2*variance)) / math.Sqrt(2*math.Pi*variance)
}

// ExecutePlots runs every queued plot.
func ExecutePlots() { plt.Execute() }
