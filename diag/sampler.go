package diag

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/golb/fluid"
)

// Density returns the density of the site at (x, y, z).
func Density(f *fluid.Field, x, y, z int) float64 {
	return f.Density(f.Idx(x, y, z))
}

// Momentum returns the momentum density of the site at (x, y, z).
func Momentum(f *fluid.Field, x, y, z int) [3]float64 {
	return f.Momentum(f.Idx(x, y, z))
}

// Velocity returns the density and velocity of the site at (x, y, z).
func Velocity(f *fluid.Field, x, y, z int) (float64, [3]float64) {
	return f.Velocity(f.Idx(x, y, z))
}

// Sampler measures a Field after every step according to a Policy and sends
// the results to a Sink.
type Sampler struct {
	Policy Policy
	Sink Sink
	Hist *Histogram

	// Quiet turns off the per-sample log line of the monitored site.
	Quiet bool

	last TimeSeriesRecord
	histDone bool
}

// NewSampler creates a Sampler for a lattice of the given widths. A nil sink
// discards all output.
func NewSampler(p Policy, sink Sink, width [3]int) (*Sampler, error) {
	p = p.Resolve(width)
	if err := p.Check(width); err != nil { return nil, err }
	if sink == nil { sink = Discard{} }

	s := &Sampler{ Policy: p, Sink: sink }
	if p.HistEnabled() {
		s.Hist = NewHistogram(p.Bins, p.Range, p.Center)
	}
	return s, nil
}

// Last returns the most recent time series record.
func (s *Sampler) Last() TimeSeriesRecord { return s.last }

// HistDone returns true once the histogram has been emitted.
func (s *Sampler) HistDone() bool { return s.histDone }

// RestoreHistogram replaces the histogram counts and the finished state,
// for runs which continue from a checkpoint. counts must have one entry per
// bin.
func (s *Sampler) RestoreHistogram(counts []int, outliers int, done bool) error {
	if s.Hist == nil {
		if len(counts) > 0 {
			return fmt.Errorf(
				"%d histogram bins given, but histograms are off: %w",
				len(counts), ErrBadPolicy,
			)
		}
		return nil
	}
	if len(counts) != s.Hist.Bins {
		return fmt.Errorf(
			"%d histogram bins given, expected %d: %w",
			len(counts), s.Hist.Bins, ErrBadPolicy,
		)
	}

	copy(s.Hist.Counts, counts)
	s.Hist.Outliers = outliers
	s.histDone = done
	return nil
}

// Sample runs every diagnostic which is due on the given step. It never
// modifies the field.
func (s *Sampler) Sample(step int, f *fluid.Field) error {
	p := &s.Policy

	if p.ProfileStep(step) {
		if err := s.Sink.WriteProfile(step, s.Profile(f)); err != nil {
			return err
		}

		m := p.Monitor
		rho, u := Velocity(f, m[0], m[1], m[2])
		s.last = TimeSeriesRecord{ Step: step, Density: rho, Vz: u[2] }
		if err := s.Sink.WriteTimeSeries(s.last); err != nil { return err }

		if !s.Quiet {
			log.Printf(
				"site (%2d,%2d,%2d) = den %5.3f   v_z %5.3f",
				m[0], m[1], m[2], rho, u[2],
			)
		}
	}

	if s.Hist == nil || s.histDone { return nil }

	if p.HistStep(step) { s.binVelocities(f) }
	if step >= p.HistEnd {
		s.histDone = true
		if s.Hist.Total() + s.Hist.Outliers == 0 {
			log.Printf(
				"Velocity histogram ended at step %d without samples. " +
					"It was not written.", step,
			)
			return nil
		}
		log.Printf(
			"Velocity histogram finished with %d samples and %d outliers.",
			s.Hist.Total(), s.Hist.Outliers,
		)
		return s.Sink.WriteHistogram(s.Hist.Records())
	}
	return nil
}

// Profile returns the density and z velocity of every site in the profile
// column.
func (s *Sampler) Profile(f *fluid.Field) []ProfileRecord {
	recs := make([]ProfileRecord, f.Width[0])
	for i := range recs {
		rho, u := Velocity(f, i, s.Policy.ProfileJ, s.Policy.ProfileK)
		recs[i] = ProfileRecord{ I: i, Density: rho, Vz: u[2] }
	}
	return recs
}

func (s *Sampler) binVelocities(f *fluid.Field) {
	if s.Policy.HistSingleSite {
		c := s.Policy.HistSite
		_, u := Velocity(f, c[0], c[1], c[2])
		s.Hist.Add(u[2])
		return
	}

	for idx := 0; idx < f.Volume; idx++ {
		_, u := f.Velocity(idx)
		s.Hist.Add(u[2])
	}
}
