package io

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/golb"
	"github.com/phil-mansfield/golb/diag"
	"github.com/phil-mansfield/golb/lattice"
)

const ExampleConfigFile = `[LatticeBoltzmann]

#######################
# Required Parameters #
#######################

# Number of lattice sites along each axis. The lattice is periodic in every
# direction.
Nx = 32
Ny = 4
Nz = 4

#######################
# Optional Parameters #
#######################

# Lattice spacing and time step. Velocities below are converted into lattice
# units with Tau / A. Both default to 1.
# A = 1
# Tau = 1

# Initial density and velocity of the fluid. Rho0 defaults to 1.
# Rho0 = 1
# U0X = 0
# U0Y = 0
# U0Z = 0

# Only the D3Q19 model is supported, so these must be left at 3 and 19.
# NumDims = 3
# NumVels = 19

# Relaxation rates of the bulk, shear, odd (ghost) and even (ghost) moments.
# All of them must be in [-1, 1]. The shear viscosity in lattice units is
# (1 + GammaShear) / (6 (1 - GammaShear)).
# GammaBulk = 0
# GammaShear = 0
# GammaOdd = 0
# GammaEven = 0

# Temperature of the fluid in lattice units. Zero turns off fluctuations.
# LBTemp = 0

# Uniform external force density in lattice units.
# ForceX = 0
# ForceY = 0
# ForceZ = 0

# ForceProfile can be set to one of [ Uniform | Sinusoidal ]. Sinusoidal adds
# ForceAmplitude * sin(2 pi x / Nx) to the z component of the force.
# ForceProfile = Uniform
# ForceAmplitude = 0.0005

# InitProfile can be set to one of [ Uniform | Sinusoidal ]. Sinusoidal adds
# InitAmplitude * sin(2 pi x / Nx) to the z component of the initial
# velocity, which is useful for watching shear waves decay.
# InitProfile = Uniform
# InitAmplitude = 0.05

[Diagnostics]

# Directory which diagnostic files are written to. Defaults to the working
# directory.
# Output = path/to/output/dir

# File names. Profiles are written to <ProfilePrefix><step>.dat. Setting a
# name to the empty string turns that output off.
# ProfilePrefix = vz_of_x
# TimeSeriesFile = myfile.dat
# HistogramFile = vel_dist.dat

# Profiles and the monitored site are written every ProfileEvery steps and on
# step 1. The profile runs along x at y = ProfileJ, z = ProfileK.
# ProfileEvery = 50
# ProfileJ = 0
# ProfileK = 0

# The monitored site. MonitorX defaults to Nx / 4.
# MonitorX = 8
# MonitorY = 0
# MonitorZ = 0

# The histogram of z velocities is accumulated from HistStart to HistEnd
# (inclusive) every HistEvery steps and written once at HistEnd. HistEvery = 0
# turns it off. HistCenter defaults to the initial z velocity.
# HistStart = 500
# HistEnd = 1000
# HistEvery = 1
# HistBins = 100
# HistRange = 0.4
# HistCenter = 0

# Restrict the histogram to a single site instead of every site.
# HistSingleSite = false
# HistSiteX = 0
# HistSiteY = 0
# HistSiteZ = 0

[Run]

#######################
# Required Parameters #
#######################

# Number of steps to run.
Steps = 1000

#######################
# Optional Parameters #
#######################

# Seed of the noise generators. Zero seeds from the clock.
# Seed = 0

# Number of worker goroutines. Zero uses the value of -Threads.
# Workers = 0

# Checkpoint is written at the end of the run. If Restart is set, the
# populations are read from it instead of being initialized from Rho0 and U0.
# Checkpoint = path/to/checkpoint.lb
# Restart = path/to/checkpoint.lb

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

type LatticeBoltzmannConfig struct {
	// Required
	Nx, Ny, Nz int

	// Optional
	A, Tau, Rho0 float64
	U0X, U0Y, U0Z float64
	NumDims, NumVels int

	GammaBulk, GammaShear, GammaOdd, GammaEven float64
	LBTemp float64

	ForceX, ForceY, ForceZ float64
	ForceProfile string
	ForceAmplitude float64
	InitProfile string
	InitAmplitude float64
}

func (con *LatticeBoltzmannConfig) ValidWidth() bool {
	return con.Nx > 0 && con.Ny > 0 && con.Nz > 0
}
func (con *LatticeBoltzmannConfig) ValidUnits() bool {
	return con.A > 0 && con.Tau > 0
}
func (con *LatticeBoltzmannConfig) ValidRho0() bool {
	return con.Rho0 > 0
}
func (con *LatticeBoltzmannConfig) ValidModel() bool {
	return con.NumDims == 3 && con.NumVels == lattice.Q
}
func (con *LatticeBoltzmannConfig) ValidLBTemp() bool {
	return con.LBTemp >= 0
}
func (con *LatticeBoltzmannConfig) ValidForceProfile() bool {
	_, err := golb.ParseProfile(con.ForceProfile)
	return err == nil
}
func (con *LatticeBoltzmannConfig) ValidInitProfile() bool {
	_, err := golb.ParseProfile(con.InitProfile)
	return err == nil
}

type DiagnosticsConfig struct {
	Output string
	ProfilePrefix, TimeSeriesFile, HistogramFile string

	ProfileEvery, ProfileJ, ProfileK int
	MonitorX, MonitorY, MonitorZ int

	HistStart, HistEnd, HistEvery, HistBins int
	HistRange, HistCenter float64
	HistSingleSite bool
	HistSiteX, HistSiteY, HistSiteZ int
}

func (con *DiagnosticsConfig) ValidProfileEvery() bool {
	return con.ProfileEvery >= 0
}
func (con *DiagnosticsConfig) ValidHistogram() bool {
	if con.HistEvery == 0 { return true }
	return con.HistEvery > 0 && con.HistBins > 0 && con.HistRange > 0 &&
		con.HistStart >= 0 && con.HistEnd >= con.HistStart
}

type RunConfig struct {
	// Required
	Steps int

	// Optional
	Seed int64
	Workers int
	Checkpoint, Restart string
	LogFile, ProfileFile string
}

func (con *RunConfig) ValidSteps() bool {
	return con.Steps >= 0
}
func (con *RunConfig) ValidWorkers() bool {
	return con.Workers >= 0
}
func (con *RunConfig) ValidCheckpoint() bool {
	return con.Checkpoint != ""
}
func (con *RunConfig) ValidRestart() bool {
	return con.Restart != ""
}
func (con *RunConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *RunConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type Wrapper struct {
	LatticeBoltzmann LatticeBoltzmannConfig
	Diagnostics DiagnosticsConfig
	Run RunConfig
}

// DefaultWrapper returns a Wrapper holding the value of every optional
// parameter which is not given in a config file.
func DefaultWrapper() *Wrapper {
	lb := LatticeBoltzmannConfig{
		A: 1, Tau: 1, Rho0: 1,
		NumDims: 3, NumVels: lattice.Q,
		ForceProfile: "Uniform", ForceAmplitude: 0.0005,
		InitProfile: "Uniform", InitAmplitude: 0.05,
	}

	diagCon := DiagnosticsConfig{
		ProfilePrefix: "vz_of_x",
		TimeSeriesFile: "myfile.dat",
		HistogramFile: "vel_dist.dat",
		ProfileEvery: 50,
		MonitorX: -1,
		HistStart: 500, HistEnd: 1000, HistEvery: 1,
		HistBins: 100, HistRange: 0.4, HistCenter: math.NaN(),
	}

	return &Wrapper{ LatticeBoltzmann: lb, Diagnostics: diagCon }
}

// ReadConfig reads and checks a config file.
func ReadConfig(file string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadFileInto(wrap, file); err != nil { return nil, err }
	if err := wrap.CheckInit(); err != nil { return nil, err }
	return wrap, nil
}

// ReadConfigString reads and checks config file contents.
func ReadConfigString(str string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadStringInto(wrap, str); err != nil { return nil, err }
	if err := wrap.CheckInit(); err != nil { return nil, err }
	return wrap, nil
}

// CheckInit checks every parameter and fills in the defaults which depend
// on other parameters.
func (wrap *Wrapper) CheckInit() error {
	lb, d, run := &wrap.LatticeBoltzmann, &wrap.Diagnostics, &wrap.Run

	switch {
	case !lb.ValidWidth():
		return fmt.Errorf(
			"Nx, Ny, and Nz must all be positive, but are %d, %d, and %d.",
			lb.Nx, lb.Ny, lb.Nz,
		)
	case !lb.ValidUnits():
		return fmt.Errorf(
			"A and Tau must be positive, but are %g and %g.", lb.A, lb.Tau,
		)
	case !lb.ValidRho0():
		return fmt.Errorf("Rho0 must be positive, but is %g.", lb.Rho0)
	case !lb.ValidModel():
		return fmt.Errorf(
			"Only the D3Q19 model is supported, but NumDims = %d and " +
				"NumVels = %d.", lb.NumDims, lb.NumVels,
		)
	case !lb.ValidLBTemp():
		return fmt.Errorf("LBTemp must be non-negative, but is %g.", lb.LBTemp)
	case !lb.ValidForceProfile():
		return fmt.Errorf(
			"Unrecognized ForceProfile '%s'. Must be one of 'Uniform' " +
				"or 'Sinusoidal'.", lb.ForceProfile,
		)
	case !lb.ValidInitProfile():
		return fmt.Errorf(
			"Unrecognized InitProfile '%s'. Must be one of 'Uniform' " +
				"or 'Sinusoidal'.", lb.InitProfile,
		)
	case !d.ValidProfileEvery():
		return fmt.Errorf(
			"ProfileEvery must be non-negative, but is %d.", d.ProfileEvery,
		)
	case !d.ValidHistogram():
		return fmt.Errorf("Invalid histogram parameters.")
	case !run.ValidSteps():
		return fmt.Errorf("Steps must be non-negative, but is %d.", run.Steps)
	case !run.ValidWorkers():
		return fmt.Errorf(
			"Workers must be non-negative, but is %d.", run.Workers,
		)
	}

	if d.MonitorX < 0 { d.MonitorX = int(0.25 * float64(lb.Nx)) }
	if math.IsNaN(d.HistCenter) { d.HistCenter = lb.U0Z * lb.Tau / lb.A }

	return nil
}

// Policy returns the diagnostics sampling policy.
func (con *DiagnosticsConfig) Policy() diag.Policy {
	return diag.Policy{
		ProfileEvery: con.ProfileEvery,
		ProfileJ: con.ProfileJ, ProfileK: con.ProfileK,
		Monitor: [3]int{con.MonitorX, con.MonitorY, con.MonitorZ},
		HistStart: con.HistStart, HistEnd: con.HistEnd,
		HistEvery: con.HistEvery,
		Bins: con.HistBins, Range: con.HistRange, Center: con.HistCenter,
		HistSingleSite: con.HistSingleSite,
		HistSite: [3]int{con.HistSiteX, con.HistSiteY, con.HistSiteZ},
	}
}

// Sink returns the FileSink described by the config.
func (con *DiagnosticsConfig) Sink() *diag.FileSink {
	return &diag.FileSink{
		Dir: con.Output,
		ProfilePrefix: con.ProfilePrefix,
		TimeSeriesFile: con.TimeSeriesFile,
		HistogramFile: con.HistogramFile,
	}
}

// SolverConfig converts a checked Wrapper into a golb.Config.
func (wrap *Wrapper) SolverConfig() (*golb.Config, error) {
	lb := &wrap.LatticeBoltzmann

	forceProfile, err := golb.ParseProfile(lb.ForceProfile)
	if err != nil { return nil, err }
	initProfile, err := golb.ParseProfile(lb.InitProfile)
	if err != nil { return nil, err }

	con := &golb.Config{
		Nx: lb.Nx, Ny: lb.Ny, Nz: lb.Nz,
		A: lb.A, Tau: lb.Tau, Rho0: lb.Rho0,
		U0: [3]float64{lb.U0X, lb.U0Y, lb.U0Z},
		NumDims: lb.NumDims, NumVels: lb.NumVels,
		GammaBulk: lb.GammaBulk, GammaShear: lb.GammaShear,
		GammaOdd: lb.GammaOdd, GammaEven: lb.GammaEven,
		LBTemp: lb.LBTemp,
		ExtForce: [3]float64{lb.ForceX, lb.ForceY, lb.ForceZ},
		ForceProfile: forceProfile, ForceAmplitude: lb.ForceAmplitude,
		InitProfile: initProfile, InitAmplitude: lb.InitAmplitude,
		Workers: wrap.Run.Workers,
		Seed: wrap.Run.Seed,
		Policy: wrap.Diagnostics.Policy(),
	}

	if err := con.Check(); err != nil { return nil, err }
	return con, nil
}
