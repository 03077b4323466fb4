package golb

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/phil-mansfield/golb/diag"
	"github.com/phil-mansfield/golb/lattice"
)

var (
	// ErrNoNoiseSource is returned when a Solver is created without a noise
	// source.
	ErrNoNoiseSource = errors.New("golb: no noise source")
	// ErrBadDimensions is returned for non-positive lattice extents or a
	// dimensionality other than three.
	ErrBadDimensions = errors.New("golb: invalid lattice dimensions")
	// ErrBadVelocitySet is returned when the number of velocities is not the
	// number of velocities of the D3Q19 model.
	ErrBadVelocitySet = errors.New("golb: unsupported velocity set")
	// ErrBadGamma is returned for relaxation rates outside [-1, 1].
	ErrBadGamma = errors.New("golb: relaxation rate outside [-1, 1]")
	// ErrBadParameter is returned for any other invalid parameter.
	ErrBadParameter = errors.New("golb: invalid parameter")
)

// Profile is the spatial shape of the initial velocity or of the external
// force.
type Profile int

const (
	// Uniform is constant over the lattice.
	Uniform Profile = iota
	// Sinusoidal adds a z component of Amplitude * sin(2 pi x / Nx).
	Sinusoidal
	EndProfile
)

var profileNames = []string{"Uniform", "Sinusoidal"}

func (p Profile) String() string {
	if p < 0 || p >= EndProfile {
		return fmt.Sprintf("Profile(%d)", int(p))
	}
	return profileNames[p]
}

// ParseProfile converts a case-insensitive profile name into a Profile.
func ParseProfile(name string) (Profile, error) {
	var p Profile
	for p = 0; p < EndProfile; p++ {
		if strings.ToLower(p.String()) == strings.ToLower(name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unrecognized profile '%s': %w", name, ErrBadParameter)
}

// Config holds everything needed to construct a Solver. Velocities and
// lengths are in physical units and are converted with A and Tau; forces,
// relaxation rates and LBTemp are given directly in lattice units.
type Config struct {
	Nx, Ny, Nz int
	A, Tau float64
	Rho0 float64
	U0 [3]float64

	// NumDims and NumVels describe the lattice model. Only D3Q19 is
	// supported.
	NumDims, NumVels int

	GammaBulk, GammaShear, GammaOdd, GammaEven float64
	LBTemp float64

	ExtForce [3]float64
	ForceProfile Profile
	ForceAmplitude float64

	InitProfile Profile
	InitAmplitude float64

	// Workers is the number of goroutines used per step. Zero uses every
	// logical core.
	Workers int
	// Seed seeds the noise source built by SeededNoise. Zero seeds from the
	// clock.
	Seed int64

	Policy diag.Policy
}

// DefaultConfig returns the configuration of a 16^3 fluid at rest with unit
// density, no noise and no force. The monitored site follows Nx.
func DefaultConfig() Config {
	con := Config{
		Nx: 16, Ny: 16, Nz: 16,
		A: 1, Tau: 1, Rho0: 1,
		NumDims: 3, NumVels: lattice.Q,
		ForceAmplitude: 0.0005,
		InitAmplitude: 0.05,
	}
	con.Policy = diag.DefaultPolicy(con.Width(), 0)
	con.Policy.Monitor[0] = diag.AutoMonitor
	return con
}

// Width returns the extents of the lattice.
func (con *Config) Width() [3]int { return [3]int{con.Nx, con.Ny, con.Nz} }

// LatticeU0 returns the initial velocity in lattice units.
func (con *Config) LatticeU0() [3]float64 {
	s := con.Tau / con.A
	return [3]float64{con.U0[0] * s, con.U0[1] * s, con.U0[2] * s}
}

// finite returns true if none of xs is NaN or infinite.
func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) { return false }
	}
	return true
}

func checkGamma(name string, g float64) error {
	if math.IsNaN(g) || g < -1 || g > 1 {
		return fmt.Errorf("%s is %g: %w", name, g, ErrBadGamma)
	}
	return nil
}

// Check returns an error wrapping one of the package's sentinel errors if
// the configuration cannot be used.
func (con *Config) Check() error {
	switch {
	case con.Nx <= 0 || con.Ny <= 0 || con.Nz <= 0:
		return fmt.Errorf(
			"lattice extents are (%d, %d, %d): %w",
			con.Nx, con.Ny, con.Nz, ErrBadDimensions,
		)
	case con.NumDims != 3:
		return fmt.Errorf(
			"NumDims is %d, but only 3 is supported: %w",
			con.NumDims, ErrBadDimensions,
		)
	case con.NumVels != lattice.Q:
		return fmt.Errorf(
			"NumVels is %d, but only %d is supported: %w",
			con.NumVels, lattice.Q, ErrBadVelocitySet,
		)
	case con.A <= 0 || !finite(con.A):
		return fmt.Errorf("A is %g: %w", con.A, ErrBadParameter)
	case con.Tau <= 0 || !finite(con.Tau):
		return fmt.Errorf("Tau is %g: %w", con.Tau, ErrBadParameter)
	case con.Rho0 <= 0 || !finite(con.Rho0):
		return fmt.Errorf("Rho0 is %g: %w", con.Rho0, ErrBadParameter)
	case con.LBTemp < 0 || !finite(con.LBTemp):
		return fmt.Errorf("LBTemp is %g: %w", con.LBTemp, ErrBadParameter)
	case !finite(con.U0[:]...):
		return fmt.Errorf("U0 is %v: %w", con.U0, ErrBadParameter)
	case !finite(con.ExtForce[:]...):
		return fmt.Errorf("ExtForce is %v: %w", con.ExtForce, ErrBadParameter)
	case !finite(con.ForceAmplitude, con.InitAmplitude):
		return fmt.Errorf(
			"ForceAmplitude is %g and InitAmplitude is %g: %w",
			con.ForceAmplitude, con.InitAmplitude, ErrBadParameter,
		)
	case con.Workers < 0:
		return fmt.Errorf("Workers is %d: %w", con.Workers, ErrBadParameter)
	case con.ForceProfile < 0 || con.ForceProfile >= EndProfile:
		return fmt.Errorf(
			"ForceProfile is %s: %w", con.ForceProfile, ErrBadParameter,
		)
	case con.InitProfile < 0 || con.InitProfile >= EndProfile:
		return fmt.Errorf(
			"InitProfile is %s: %w", con.InitProfile, ErrBadParameter,
		)
	}

	gammas := []struct {
		name string
		g float64
	}{
		{"GammaBulk", con.GammaBulk}, {"GammaShear", con.GammaShear},
		{"GammaOdd", con.GammaOdd}, {"GammaEven", con.GammaEven},
	}
	for _, g := range gammas {
		if err := checkGamma(g.name, g.g); err != nil { return err }
	}

	pol := con.Policy.Resolve(con.Width())
	if err := pol.Check(con.Width()); err != nil {
		return fmt.Errorf("%w: %w", err, ErrBadParameter)
	}
	return nil
}

func (con *Config) workers() int {
	w := con.Workers
	if w == 0 { w = runtime.NumCPU() }
	if w > con.Nx { w = con.Nx }
	return w
}
