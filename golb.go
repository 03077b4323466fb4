/*package golb is a fluctuating lattice-Boltzmann solver for a fluid on a
periodic three dimensional lattice, using the D3Q19 velocity set with a
multi-relaxation-time collision operator. Thermal noise and external forces
are optional. The solver is advanced either directly through Step and Run
or by attaching it to an integrator.
*/
package golb

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/golb/diag"
	"github.com/phil-mansfield/golb/fluid"
	"github.com/phil-mansfield/golb/integrator"
	"github.com/phil-mansfield/golb/lattice"
	"github.com/phil-mansfield/golb/rand"
)

// NoiseSource returns one independent Gaussian noise source per worker.
type NoiseSource func(workers int) []fluid.Noise

// SeededNoise returns a NoiseSource whose generators are derived from seed.
// A seed of zero seeds from the clock.
func SeededNoise(seed int64) NoiseSource {
	return func(workers int) []fluid.Noise {
		gens := rand.Split(seed, workers)
		noise := make([]fluid.Noise, workers)
		for i := range noise { noise[i] = gens[i] }
		return noise
	}
}

// Solver holds the complete state of one lattice-Boltzmann fluid.
type Solver struct {
	Model *lattice.Model
	Field *fluid.Field
	Sampler *diag.Sampler

	params Params
	flags fluid.Flags
	step int

	workers int
	workspaces []workspace

	// connections to an attached integrator.
	befIntP, befIntV *integrator.Connection
	err error
}

// workspace is the part of the lattice and the noise source owned by one
// worker goroutine.
type workspace struct {
	noise fluid.Noise
	lowX, highX int
}

// New creates a Solver from a configuration. Every site starts in the
// equilibrium of the configured density and initial velocity profile. A nil
// sink discards diagnostics.
func New(con *Config, noise NoiseSource, sink diag.Sink) (*Solver, error) {
	if noise == nil {
		return nil, fmt.Errorf("cannot create fluid: %w", ErrNoNoiseSource)
	}
	if err := con.Check(); err != nil { return nil, err }

	s := &Solver{ Model: lattice.NewModel(con.A, con.Tau) }

	var err error
	s.Field, err = fluid.NewField(con.Width(), s.Model)
	if err != nil { return nil, fmt.Errorf("%w: %w", err, ErrBadDimensions) }
	s.Sampler, err = diag.NewSampler(con.Policy, sink, con.Width())
	if err != nil { return nil, fmt.Errorf("%w: %w", err, ErrBadParameter) }

	s.workers = con.workers()
	s.workspaces = make([]workspace, s.workers)
	sources := noise(s.workers)
	if len(sources) != s.workers {
		return nil, fmt.Errorf(
			"noise source gave %d generators for %d workers: %w",
			len(sources), s.workers, ErrNoNoiseSource,
		)
	}
	for id := range s.workspaces {
		w := &s.workspaces[id]
		w.noise = sources[id]
		w.lowX = id * con.Nx / s.workers
		w.highX = (id + 1) * con.Nx / s.workers
	}

	s.params = paramsFromConfig(con)
	s.Model.Log()
	log.Printf(
		"Created %d x %d x %d fluid with %d workers.",
		con.Nx, con.Ny, con.Nz, s.workers,
	)

	for _, ch := range []change{
		bulkChange, shearChange, oddChange, evenChange,
		temperatureChange, forceChange,
	} {
		s.recomputeDerivedState(ch)
	}

	u := con.initProfile()
	s.Field.InitPopulations(con.Rho0, u)

	return s, nil
}

// StepNum returns the number of completed steps.
func (s *Solver) StepNum() int { return s.step }

// ResumeAt sets the step counter, for runs which continue from a
// checkpoint.
func (s *Solver) ResumeAt(step int) { s.step = step }

// Workers returns the number of goroutines used per step.
func (s *Solver) Workers() int { return s.workers }

// Flags returns the collision stages which are currently active.
func (s *Solver) Flags() fluid.Flags { return s.flags }

// Step advances the fluid by one collide-and-stream step and runs the
// diagnostics which are due.
func (s *Solver) Step() error {
	s.step++
	if s.step % 50 == 0 || s.step == 1 {
		log.Printf("Starting LB step %d.", s.step)
	}

	out := make(chan int, s.workers)
	for id := 0; id < s.workers - 1; id++ {
		go s.chanCollideStream(id, out)
	}
	s.chanCollideStream(s.workers - 1, out)

	for i := 0; i < s.workers; i++ { <-out }

	s.Field.Swap()
	return s.Sampler.Sample(s.step, s.Field)
}

// Run performs n steps, stopping at the first error.
func (s *Solver) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil { return err }
	}
	return nil
}

func (s *Solver) chanCollideStream(id int, out chan<- int) {
	w := &s.workspaces[id]
	low, high := s.Field.PlaneRange(w.lowX, w.highX)
	s.Field.CollideStream(low, high, s.flags, w.noise)
	out <- id
}

// Attach connects the solver to an integrator: every BefIntP emission
// advances the fluid by one step and every BefIntV emission calls
// AddPolyLBForces. Attaching twice replaces the earlier connection.
func (s *Solver) Attach(integ integrator.Integrator) {
	s.Detach()
	log.Printf("Connecting fluid to integrator.")
	s.befIntP = integ.BefIntP().Connect(func() {
		if s.err != nil { return }
		if err := s.Step(); err != nil {
			log.Printf("LB step %d failed: %s", s.step, err.Error())
			s.err = err
		}
	})
	s.befIntV = integ.BefIntV().Connect(s.AddPolyLBForces)
}

// Detach disconnects the solver from its integrator, if any.
func (s *Solver) Detach() {
	if s.befIntP != nil { s.befIntP.Disconnect() }
	if s.befIntV != nil { s.befIntV.Disconnect() }
	s.befIntP, s.befIntV = nil, nil
}

// Err returns the first error hit by a step triggered through an attached
// integrator. Later steps are skipped once it is set.
func (s *Solver) Err() error { return s.err }

// AddPolyLBForces is called before every velocity update of an attached
// integrator. It is the hook for coupling polymers to the fluid and
// currently does nothing.
func (s *Solver) AddPolyLBForces() {}
