/*package diag contains the read-only diagnostics of a lattice-Boltzmann
fluid: site observables, density/velocity profiles, the time series of a
monitored site and the histogram of velocity fluctuations, along with the
sinks which write them and the readers and plots which consume them.
*/
package diag

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadPolicy is returned when a sampling Policy cannot be used on a
// lattice.
var ErrBadPolicy = errors.New("diag: invalid sampling policy")

// Policy controls which steps and sites the Sampler measures.
type Policy struct {
	// ProfileEvery is the stride of the profile and time series output.
	// Step 1 is always sampled. Zero turns the stride off.
	ProfileEvery int
	// ProfileJ and ProfileK select the x column used for profiles.
	ProfileJ, ProfileK int
	// Monitor is the site whose density and velocity form the time series.
	Monitor [3]int

	// Histogram sampling runs on steps HistStart, HistStart + HistEvery, ...
	// up to and including HistEnd. A HistEvery of zero turns it off.
	HistStart, HistEnd, HistEvery int
	Bins int
	Range, Center float64
	// HistSingleSite restricts the histogram to the site HistSite. Otherwise
	// every site contributes one sample per sampled step.
	HistSingleSite bool
	HistSite [3]int
}

// AutoMonitor in Monitor[0] places the monitored site at a quarter of the
// x extent of whichever lattice the Policy is used on.
const AutoMonitor = -1

// DefaultPolicy returns the sampling policy used when nothing else is
// configured for a lattice of the given widths: profiles every 50 steps,
// the site at a quarter of the x extent as the monitor, and a 100 bin
// histogram of width 0.4 around center from step 500 to step 1000.
func DefaultPolicy(width [3]int, center float64) Policy {
	return Policy{
		ProfileEvery: 50,
		Monitor: [3]int{int(0.25 * float64(width[0])), 0, 0},
		HistStart: 500, HistEnd: 1000, HistEvery: 1,
		Bins: 100, Range: 0.4, Center: center,
	}
}

// Resolve returns a copy of the policy with an AutoMonitor replaced by the
// site it stands for on a lattice of the given widths.
func (p Policy) Resolve(width [3]int) Policy {
	if p.Monitor[0] == AutoMonitor {
		p.Monitor = [3]int{int(0.25 * float64(width[0])), 0, 0}
	}
	return p
}

// HistEnabled returns true if the policy samples a histogram.
func (p *Policy) HistEnabled() bool { return p.HistEvery > 0 }

// ProfileStep returns true if profiles are written on the given step.
func (p *Policy) ProfileStep(step int) bool {
	return step == 1 || (p.ProfileEvery > 0 && step % p.ProfileEvery == 0)
}

// HistStep returns true if the histogram is sampled on the given step.
func (p *Policy) HistStep(step int) bool {
	if !p.HistEnabled() || step < p.HistStart || step > p.HistEnd {
		return false
	}
	return (step - p.HistStart) % p.HistEvery == 0
}

// Check returns an error wrapping ErrBadPolicy if the policy cannot be used
// on a lattice of the given widths.
func (p *Policy) Check(width [3]int) error {
	inside := func(c [3]int) bool {
		for k := 0; k < 3; k++ {
			if c[k] < 0 || c[k] >= width[k] { return false }
		}
		return true
	}

	switch {
	case p.ProfileEvery < 0:
		return fmt.Errorf("ProfileEvery is %d: %w", p.ProfileEvery, ErrBadPolicy)
	case !inside([3]int{0, p.ProfileJ, p.ProfileK}):
		return fmt.Errorf(
			"profile column (%d, %d) is outside the lattice: %w",
			p.ProfileJ, p.ProfileK, ErrBadPolicy,
		)
	case !inside(p.Monitor):
		return fmt.Errorf(
			"monitored site %v is outside the lattice: %w",
			p.Monitor, ErrBadPolicy,
		)
	case p.HistEvery < 0:
		return fmt.Errorf("HistEvery is %d: %w", p.HistEvery, ErrBadPolicy)
	}

	if !p.HistEnabled() { return nil }

	switch {
	case p.HistEnd < p.HistStart || p.HistStart < 0:
		return fmt.Errorf(
			"histogram range [%d, %d] is empty: %w",
			p.HistStart, p.HistEnd, ErrBadPolicy,
		)
	case p.Bins <= 0:
		return fmt.Errorf("Bins is %d: %w", p.Bins, ErrBadPolicy)
	case !(p.Range > 0) || math.IsInf(p.Range, 0):
		return fmt.Errorf("Range is %g: %w", p.Range, ErrBadPolicy)
	case math.IsNaN(p.Center) || math.IsInf(p.Center, 0):
		return fmt.Errorf("Center is %g: %w", p.Center, ErrBadPolicy)
	case p.HistSingleSite && !inside(p.HistSite):
		return fmt.Errorf(
			"histogram site %v is outside the lattice: %w",
			p.HistSite, ErrBadPolicy,
		)
	}
	return nil
}
