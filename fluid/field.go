package fluid

import (
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/golb/geom"
	"github.com/phil-mansfield/golb/lattice"
)

// VelocityProfile gives the initial velocity (in lattice units) of the site
// at (x, y, z).
type VelocityProfile func(x, y, z int) [3]float64

// Uniform returns a VelocityProfile which is u everywhere.
func Uniform(u [3]float64) VelocityProfile {
	return func(x, y, z int) [3]float64 { return u }
}

// Field is a periodic lattice of Sites together with two population buffers:
// the primary one, which holds the current state, and the ghost buffer which
// streaming writes into.
type Field struct {
	geom.Grid
	Model *lattice.Model
	Sites []Site

	pops  []Populations
	ghost GhostBuffer

	// nbrs[idx][l] is the site that population l of site idx streams to.
	nbrs [][lattice.Q]int32
}

// NewField creates a Field of the given widths whose sites are seeded from
// the model. Populations start at zero.
func NewField(width [3]int, m *lattice.Model) (*Field, error) {
	f := &Field{ Model: m }
	if err := f.Grid.Init(width); err != nil {
		return nil, err
	}

	f.Sites = make([]Site, f.Volume)
	f.pops = make([]Populations, f.Volume)
	f.ghost = make(GhostBuffer, f.Volume)
	f.nbrs = make([][lattice.Q]int32, f.Volume)

	for idx := range f.Sites {
		f.Sites[idx] = NewSite(m)
		for l := 0; l < lattice.Q; l++ {
			f.nbrs[idx][l] = int32(f.Neighbor(idx, m.Velocities[l]))
		}
	}

	return f, nil
}

// InitPopulations sets every site to the equilibrium with density rho0 and
// the velocity given by u. The ghost buffer is cleared.
func (f *Field) InitPopulations(rho0 float64, u VelocityProfile) {
	for idx := range f.Sites {
		x, y, z := f.Coords(idx)
		f.Sites[idx].Equilibrium(rho0, u(x, y, z), &f.pops[idx])
		f.ghost[idx] = Populations{}
	}
}

// Populations returns the current populations of a site.
func (f *Field) Populations(idx int) *Populations { return &f.pops[idx] }

// Buffer returns the primary population buffer. It is only valid until the
// next Swap.
func (f *Field) Buffer() []Populations { return f.pops }

// Ghost returns the ghost buffer entry of a site.
func (f *Field) Ghost(idx int) *Populations { return &f.ghost[idx] }

// Swap promotes the ghost buffer to the primary buffer. The old primary
// buffer becomes the new scratch space.
func (f *Field) Swap() { f.pops, f.ghost = f.ghost, f.pops }

// Density returns the density of a site.
func (f *Field) Density(idx int) float64 {
	return floats.Sum(f.pops[idx][:])
}

// Momentum returns the momentum density of a site.
func (f *Field) Momentum(idx int) [3]float64 {
	j := [3]float64{}
	p := &f.pops[idx]
	for l := 0; l < lattice.Q; l++ {
		c := &f.Model.Velocities[l]
		j[0] += p[l] * float64(c[0])
		j[1] += p[l] * float64(c[1])
		j[2] += p[l] * float64(c[2])
	}
	return j
}

// Velocity returns the density and velocity of a site.
func (f *Field) Velocity(idx int) (rho float64, u [3]float64) {
	rho = f.Density(idx)
	j := f.Momentum(idx)
	return rho, [3]float64{j[0] / rho, j[1] / rho, j[2] / rho}
}

// TotalMass returns the sum of all populations on the lattice.
func (f *Field) TotalMass() float64 {
	rhos := make([]float64, f.Volume)
	for idx := range rhos { rhos[idx] = f.Density(idx) }
	return floats.Sum(rhos)
}

// TotalMomentum returns the summed momentum density of the lattice.
func (f *Field) TotalMomentum() [3]float64 {
	comps := [3][]float64{}
	for a := range comps { comps[a] = make([]float64, f.Volume) }

	for idx := 0; idx < f.Volume; idx++ {
		j := f.Momentum(idx)
		for a := 0; a < 3; a++ { comps[a][idx] = j[a] }
	}
	return [3]float64{
		floats.Sum(comps[0]), floats.Sum(comps[1]), floats.Sum(comps[2]),
	}
}

// SetGamma sets the relaxation rate of a moment group on every site.
func (f *Field) SetGamma(mode lattice.Mode, gamma float64) {
	for idx := range f.Sites { f.Sites[idx].SetGamma(mode, gamma) }
}

// SetPhi recomputes the noise amplitudes of every site for the thermal mass
// density mu. A mu of zero clears them.
func (f *Field) SetPhi(mu float64) {
	for idx := range f.Sites {
		if mu == 0 {
			f.Sites[idx].ClearPhi()
		} else {
			f.Sites[idx].SetPhi(mu)
		}
	}
}

// SetForces sets the force of every site from a profile and returns true if
// any of them is non-zero.
func (f *Field) SetForces(force func(x, y, z int) [3]float64) bool {
	nonZero := false
	for idx := range f.Sites {
		x, y, z := f.Coords(idx)
		fc := force(x, y, z)
		f.Sites[idx].Force = fc
		if fc != [3]float64{} { nonZero = true }
	}
	return nonZero
}
