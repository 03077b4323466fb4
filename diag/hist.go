package diag

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Histogram is a uniform histogram over [Center - Range/2, Center + Range/2).
type Histogram struct {
	Bins int
	Range, Center float64

	Counts []int
	// Outliers counts samples which fell outside the range. They do not
	// contribute to the normalisation.
	Outliers int
}

// NewHistogram creates an empty Histogram.
func NewHistogram(bins int, rng, center float64) *Histogram {
	return &Histogram{
		Bins: bins, Range: rng, Center: center, Counts: make([]int, bins),
	}
}

// BinWidth returns the width of a single bin.
func (h *Histogram) BinWidth() float64 { return h.Range / float64(h.Bins) }

// Add bins a single sample and returns false if it was an outlier.
func (h *Histogram) Add(v float64) bool {
	// Shift into [0, Range).
	shifted := v + 0.5*h.Range - h.Center
	if math.IsNaN(shifted) || shifted < 0 || shifted >= h.Range {
		h.Outliers++
		return false
	}

	i := int(shifted / h.BinWidth())
	if i >= h.Bins { i = h.Bins - 1 }
	h.Counts[i]++
	return true
}

// Total returns the number of samples which landed inside the range.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h.Counts { n += c }
	return n
}

// Centers returns the centers of the histogram bins.
func (h *Histogram) Centers() []float64 {
	min := h.Center - 0.5*h.Range
	dx := h.BinWidth()

	centers := make([]float64, h.Bins)
	for i := range centers {
		centers[i] = min + dx * (float64(i) + 0.5)
	}
	return centers
}

// Density returns the counts normalised so that the histogram integrates to
// one over its range. An empty histogram has zero density everywhere.
func (h *Histogram) Density() []float64 {
	density := make([]float64, h.Bins)
	for i, c := range h.Counts { density[i] = float64(c) }

	total := floats.Sum(density)
	if total == 0 { return density }
	floats.Scale(1 / (total * h.BinWidth()), density)
	return density
}

// Records returns the normalised histogram as a slice of records.
func (h *Histogram) Records() []HistogramRecord {
	centers, density := h.Centers(), h.Density()
	recs := make([]HistogramRecord, h.Bins)
	for i := range recs {
		recs[i] = HistogramRecord{ Center: centers[i], Density: density[i] }
	}
	return recs
}

// Reset clears all counts.
func (h *Histogram) Reset() {
	for i := range h.Counts { h.Counts[i] = 0 }
	h.Outliers = 0
}
