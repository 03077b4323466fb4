package io

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/golb"
	"github.com/phil-mansfield/golb/lattice"
)

// SolverHeader returns the checkpoint header describing the current state of
// a solver.
func SolverHeader(s *golb.Solver) *CheckpointHeader {
	p := s.Params()
	w := s.Field.Width
	hd := &CheckpointHeader{
		Width: [3]int64{int64(w[0]), int64(w[1]), int64(w[2])},
		Q: lattice.Q,
		Step: int64(s.StepNum()),
		CheckpointParams: CheckpointParams{
			A: p.A, Tau: p.Tau, Rho0: p.Rho0, U0: p.U0,
			GammaBulk: p.GammaBulk, GammaShear: p.GammaShear,
			GammaOdd: p.GammaOdd, GammaEven: p.GammaEven,
			LBTemp: p.LBTemp,
			ExtForce: p.ExtForce,
			ForceProfile: int64(p.ForceProfile),
			ForceAmplitude: p.ForceAmplitude,
		},
	}

	if h := s.Sampler.Hist; h != nil {
		hd.HistBins, hd.HistOutliers = int64(h.Bins), int64(h.Outliers)
		hd.HistRange, hd.HistCenter = h.Range, h.Center
	}
	if s.Sampler.HistDone() { hd.HistDone = 1 }
	return hd
}

// histogramCounts returns the solver's histogram counts in checkpoint form.
func histogramCounts(s *golb.Solver) []int64 {
	h := s.Sampler.Hist
	if h == nil { return []int64{} }
	counts := make([]int64, h.Bins)
	for i, c := range h.Counts { counts[i] = int64(c) }
	return counts
}

// WriteSolver writes the populations and histogram of a solver to a
// checkpoint file.
func WriteSolver(file string, s *golb.Solver) error {
	log.Printf("Writing checkpoint %s at step %d.", file, s.StepNum())
	return WriteCheckpoint(
		file, SolverHeader(s), s.Field.Buffer(), histogramCounts(s),
	)
}

// RestoreSolver replaces the populations, step counter and histogram of a
// solver with those of a checkpoint file. The lattices must have the same
// shape. Physical parameters stored in the checkpoint which differ from the
// solver's are logged, and the solver's values are kept. The histogram is
// only restored if it was accumulated with the same bins.
func RestoreSolver(file string, s *golb.Solver) error {
	hd := &CheckpointHeader{}
	if err := ReadCheckpointHeader(file, hd); err != nil { return err }

	now := SolverHeader(s)
	if hd.Width != now.Width {
		return fmt.Errorf(
			"Checkpoint %s has widths %v, but the lattice has widths %v.",
			file, hd.Width, now.Width,
		)
	}

	counts, err := ReadCheckpoint(file, hd, s.Field.Buffer())
	if err != nil { return err }
	s.ResumeAt(int(hd.Step))

	if hd.CheckpointParams != now.CheckpointParams {
		log.Printf(
			"Parameters in checkpoint %s differ from the configured ones. " +
				"Using the configured ones.", file,
		)
	}

	if err = restoreHistogram(file, hd, counts, now, s); err != nil {
		return err
	}

	log.Printf("Restored checkpoint %s at step %d.", file, hd.Step)
	return nil
}

func restoreHistogram(
	file string, hd *CheckpointHeader, counts []int64,
	now *CheckpointHeader, s *golb.Solver,
) error {
	if s.Sampler.Hist == nil { return nil }

	pol := &s.Sampler.Policy
	if hd.HistBins != now.HistBins || hd.HistRange != now.HistRange ||
		hd.HistCenter != now.HistCenter {

		if int(hd.Step) >= pol.HistEnd {
			log.Printf(
				"Checkpoint %s has a different histogram and the histogram " +
					"window ended at step %d. No histogram will be written.",
				file, pol.HistEnd,
			)
			bins := s.Sampler.Hist.Bins
			return s.Sampler.RestoreHistogram(make([]int, bins), 0, true)
		}
		log.Printf(
			"Checkpoint %s has a different histogram. Samples before step " +
				"%d are dropped.", file, hd.Step,
		)
		return nil
	}

	ints := make([]int, len(counts))
	for i, c := range counts { ints[i] = int(c) }
	return s.Sampler.RestoreHistogram(
		ints, int(hd.HistOutliers), hd.HistDone != 0,
	)
}
