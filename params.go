package golb

import (
	"fmt"
	"log"
	"math"

	"github.com/phil-mansfield/golb/fluid"
	"github.com/phil-mansfield/golb/lattice"
)

// Params are the mutable physical parameters of a Solver.
type Params struct {
	A, Tau, Rho0 float64
	U0 [3]float64

	GammaBulk, GammaShear, GammaOdd, GammaEven float64
	LBTemp float64

	ExtForce [3]float64
	ForceProfile Profile
	ForceAmplitude float64
}

func paramsFromConfig(con *Config) Params {
	return Params{
		A: con.A, Tau: con.Tau, Rho0: con.Rho0, U0: con.U0,
		GammaBulk: con.GammaBulk, GammaShear: con.GammaShear,
		GammaOdd: con.GammaOdd, GammaEven: con.GammaEven,
		LBTemp: con.LBTemp,
		ExtForce: con.ExtForce,
		ForceProfile: con.ForceProfile, ForceAmplitude: con.ForceAmplitude,
	}
}

// Params returns a copy of the solver's current parameters.
func (s *Solver) Params() Params { return s.params }

// ShearViscosity returns the kinematic shear viscosity in lattice units
// implied by GammaShear.
func (p *Params) ShearViscosity() float64 {
	return (1 + p.GammaShear) / (6 * (1 - p.GammaShear))
}

// BulkViscosity returns the kinematic bulk viscosity in lattice units
// implied by GammaBulk.
func (p *Params) BulkViscosity() float64 {
	return (1 + p.GammaBulk) / (9 * (1 - p.GammaBulk))
}

// GammaKind names one of the four relaxation rates.
type GammaKind int

const (
	BulkGamma GammaKind = iota
	ShearGamma
	OddGamma
	EvenGamma
	EndGamma
)

var gammaNames = []string{"gammaBulk", "gammaShear", "gammaOdd", "gammaEven"}

func (k GammaKind) String() string {
	if k < 0 || k >= EndGamma { return fmt.Sprintf("GammaKind(%d)", int(k)) }
	return gammaNames[k]
}

// Mode returns the group of moments relaxed at this rate.
func (k GammaKind) Mode() lattice.Mode {
	return [...]lattice.Mode{
		lattice.Bulk, lattice.Shear, lattice.Odd, lattice.Even,
	}[k]
}

// change identifies the parameter whose derived per-site state needs to be
// rebuilt.
type change int

const (
	bulkChange change = iota
	shearChange
	oddChange
	evenChange
	temperatureChange
	forceChange
)

func (k GammaKind) change() change { return change(k) }

func (p *Params) gamma(k GammaKind) *float64 {
	switch k {
	case BulkGamma:
		return &p.GammaBulk
	case ShearGamma:
		return &p.GammaShear
	case OddGamma:
		return &p.GammaOdd
	}
	return &p.GammaEven
}

// recomputeDerivedState brings every site up to date with the parameter
// that changed. This is a pass over the whole lattice.
func (s *Solver) recomputeDerivedState(ch change) {
	switch ch {
	case bulkChange, shearChange, oddChange, evenChange:
		k := GammaKind(ch)
		s.Field.SetGamma(k.Mode(), *s.params.gamma(k))
		log.Printf("%s is %g", k, *s.params.gamma(k))
		// Noise amplitudes depend on the rates.
		if s.flags.Thermal { s.Field.SetPhi(s.mu()) }

	case temperatureChange:
		s.flags.Thermal = s.params.LBTemp > 0
		s.Field.SetPhi(s.mu())
		if s.flags.Thermal {
			log.Printf(
				"Fluctuations are on with lbTemp = %g (mu = %g).",
				s.params.LBTemp, s.mu(),
			)
		} else {
			log.Printf("Fluctuations are off.")
		}

	case forceChange:
		s.flags.Forced = s.Field.SetForces(s.params.forceAt(s.Field.Width))
		m := s.Sampler.Policy.Monitor
		f := s.Field.Sites[s.Field.Idx(m[0], m[1], m[2])].Force
		log.Printf(
			"External force at (%d, %d, %d) is (%g, %g, %g).",
			m[0], m[1], m[2], f[0], f[1], f[2],
		)
	}
}

// mu is the thermal mass density which sets the noise amplitudes.
func (s *Solver) mu() float64 {
	a3 := s.params.A * s.params.A * s.params.A
	return s.params.LBTemp / (s.Model.SoundSpeedSquared * a3)
}

// SetGamma changes one of the relaxation rates.
func (s *Solver) SetGamma(k GammaKind, gamma float64) error {
	if k < 0 || k >= EndGamma {
		return fmt.Errorf("unknown relaxation rate %s: %w", k, ErrBadParameter)
	}
	if err := checkGamma(k.String(), gamma); err != nil { return err }
	*s.params.gamma(k) = gamma
	s.recomputeDerivedState(k.change())
	return nil
}

func (s *Solver) SetGammaBulk(g float64) error { return s.SetGamma(BulkGamma, g) }
func (s *Solver) SetGammaShear(g float64) error { return s.SetGamma(ShearGamma, g) }
func (s *Solver) SetGammaOdd(g float64) error { return s.SetGamma(OddGamma, g) }
func (s *Solver) SetGammaEven(g float64) error { return s.SetGamma(EvenGamma, g) }

// SetLBTemp changes the temperature of the fluid in lattice units. Zero
// turns fluctuations off.
func (s *Solver) SetLBTemp(t float64) error {
	if t < 0 || !finite(t) {
		return fmt.Errorf("lbTemp is %g: %w", t, ErrBadParameter)
	}
	s.params.LBTemp = t
	s.recomputeDerivedState(temperatureChange)
	return nil
}

// SetExtForce changes the uniform part of the external force density.
func (s *Solver) SetExtForce(f [3]float64) {
	s.params.ExtForce = f
	s.recomputeDerivedState(forceChange)
}

// SetForceProfile changes the spatially varying part of the external force.
func (s *Solver) SetForceProfile(p Profile, amp float64) error {
	if p < 0 || p >= EndProfile {
		return fmt.Errorf("force profile %s: %w", p, ErrBadParameter)
	}
	if !finite(amp) {
		return fmt.Errorf("force amplitude is %g: %w", amp, ErrBadParameter)
	}
	s.params.ForceProfile, s.params.ForceAmplitude = p, amp
	s.recomputeDerivedState(forceChange)
	return nil
}

// forceAt returns the force density at every site of a lattice with the
// given widths: ExtForce plus the profile's contribution.
func (p *Params) forceAt(width [3]int) func(x, y, z int) [3]float64 {
	ext, amp := p.ExtForce, p.ForceAmplitude
	switch p.ForceProfile {
	case Sinusoidal:
		return func(x, y, z int) [3]float64 {
			return [3]float64{
				ext[0], ext[1], ext[2] + amp * sinX(x, width[0]),
			}
		}
	}
	return func(x, y, z int) [3]float64 { return ext }
}

// initProfile returns the initial velocity of every site in lattice units.
func (con *Config) initProfile() fluid.VelocityProfile {
	u0 := con.LatticeU0()
	switch con.InitProfile {
	case Sinusoidal:
		amp := con.InitAmplitude * con.Tau / con.A
		return func(x, y, z int) [3]float64 {
			return [3]float64{u0[0], u0[1], u0[2] + amp * sinX(x, con.Nx)}
		}
	}
	return fluid.Uniform(u0)
}

func sinX(x, nx int) float64 {
	return math.Sin(2 * math.Pi * float64(x) / float64(nx))
}
