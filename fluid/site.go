/*package fluid contains the per-site state of a lattice-Boltzmann fluid and
the collision and streaming operators which act on it.
*/
package fluid

import (
	"math"

	"github.com/phil-mansfield/golb/lattice"
)

// Populations is the vector of particle-distribution amplitudes at one site.
type Populations [lattice.Q]float64

// GhostBuffer is the staging array that streaming writes into. It always has
// one entry per lattice site.
type GhostBuffer []Populations

// Noise is a source of standard normal deviates. Each goroutine which runs
// collisions needs its own.
type Noise interface {
	NormFloat64() float64
}

// Site is the mutable state of one lattice point, excluding its populations,
// which live in the Field's population buffers.
//
// Weight and InvNorm are local copies of the model tables. They are kept per
// site so that the lattice model can be made spatially heterogeneous later.
type Site struct {
	Weight, InvNorm [lattice.Q]float64

	GammaBulk, GammaShear, GammaOdd, GammaEven float64

	// Phi is the standard deviation of the noise added to each moment.
	Phi [lattice.Q]float64
	// Force is the external force density acting on the site.
	Force [3]float64
}

// NewSite returns a Site seeded with the tables of the given model.
func NewSite(m *lattice.Model) Site {
	return Site{ Weight: m.Weights, InvNorm: m.InvNorm }
}

// Gamma returns the relaxation rate used for moments in the given group.
// Conserved moments are not relaxed and have a rate of 1.
func (s *Site) Gamma(mode lattice.Mode) float64 {
	switch mode {
	case lattice.Bulk:
		return s.GammaBulk
	case lattice.Shear:
		return s.GammaShear
	case lattice.Odd:
		return s.GammaOdd
	case lattice.Even:
		return s.GammaEven
	}
	return 1
}

// SetGamma sets the relaxation rate of a moment group.
func (s *Site) SetGamma(mode lattice.Mode, gamma float64) {
	switch mode {
	case lattice.Bulk:
		s.GammaBulk = gamma
	case lattice.Shear:
		s.GammaShear = gamma
	case lattice.Odd:
		s.GammaOdd = gamma
	case lattice.Even:
		s.GammaEven = gamma
	}
}

// SetPhi computes the noise amplitudes for the thermal mass density mu,
// phi_k = sqrt(mu / invNorm_k * (1 - gamma_k^2)). Conserved moments get no
// noise.
func (s *Site) SetPhi(mu float64) {
	for k := 0; k < lattice.Q; k++ {
		mode := lattice.Modes[k]
		if mode == lattice.Conserved {
			s.Phi[k] = 0
			continue
		}
		g := s.Gamma(mode)
		s.Phi[k] = math.Sqrt(mu / s.InvNorm[k] * (1 - g*g))
	}
}

// ClearPhi turns off fluctuations at the site.
func (s *Site) ClearPhi() {
	for k := range s.Phi { s.Phi[k] = 0 }
}
