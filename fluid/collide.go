package fluid

import (
	"github.com/phil-mansfield/golb/lattice"
)

// Flags selects the optional stages of a collision.
type Flags struct {
	Thermal, Forced bool
}

// collision is the workspace of a single site collision. The populations go
// through four states: raw, moments, relaxed and back-transformed.
type collision struct {
	m, eq [lattice.Q]float64
	rho   float64
	// j is the momentum density used for the equilibrium. It includes half
	// of the force when forcing is active.
	j [3]float64
}

// Collide relaxes the populations f of site s in place. noise is only used
// when flags.Thermal is set and may be nil otherwise.
func (s *Site) Collide(f *Populations, flags Flags, noise Noise) {
	c := collision{}
	c.localMoments(f)
	c.eqMoments(s, flags.Forced)
	c.relax(s)
	if flags.Thermal {
		c.fluctuate(s, noise)
	}
	if flags.Forced {
		c.applyForce(s)
	}
	lattice.Populations(&c.m, &s.Weight, &s.InvNorm, (*[lattice.Q]float64)(f))
}

func (c *collision) localMoments(f *Populations) {
	lattice.Moments((*[lattice.Q]float64)(f), &c.m)
}

func (c *collision) eqMoments(s *Site, forced bool) {
	c.rho = c.m[0]
	c.j = [3]float64{c.m[1], c.m[2], c.m[3]}
	if forced {
		for a := 0; a < 3; a++ { c.j[a] += 0.5 * s.Force[a] }
	}
	EquilibriumMoments(c.rho, c.j, &c.eq)
}

// relax moves every non-conserved moment towards its equilibrium value,
// m' = gamma m + (1 - gamma) m_eq, using the rate of the moment's group.
func (c *collision) relax(s *Site) {
	for k := 4; k < lattice.Q; k++ {
		g := s.Gamma(lattice.Modes[k])
		c.m[k] = g*c.m[k] + (1-g)*c.eq[k]
	}
}

// fluctuate adds Gaussian noise to the non-conserved moments.
func (c *collision) fluctuate(s *Site, noise Noise) {
	for k := 4; k < lattice.Q; k++ {
		c.m[k] += s.Phi[k] * noise.NormFloat64()
	}
}

// applyForce adds the force to the momentum moments and the matching
// force-velocity term to the stress moments.
func (c *collision) applyForce(s *Site) {
	f := s.Force
	u := [3]float64{c.j[0] / c.rho, c.j[1] / c.rho, c.j[2] / c.rho}
	uf := u[0]*f[0] + u[1]*f[1] + u[2]*f[2]

	gs, gb := s.GammaShear, s.GammaBulk
	diag := (gb - gs) / 3 * uf
	cxx := (1+gs)*u[0]*f[0] + diag
	cyy := (1+gs)*u[1]*f[1] + diag
	czz := (1+gs)*u[2]*f[2] + diag
	cxy := 0.5 * (1 + gs) * (u[0]*f[1] + u[1]*f[0])
	cxz := 0.5 * (1 + gs) * (u[0]*f[2] + u[2]*f[0])
	cyz := 0.5 * (1 + gs) * (u[1]*f[2] + u[2]*f[1])

	c.m[1] += f[0]
	c.m[2] += f[1]
	c.m[3] += f[2]

	c.m[4] += cxx + cyy + czz
	c.m[5] += 2*cxx - cyy - czz
	c.m[6] += cyy - czz
	c.m[7] += cxy
	c.m[8] += cxz
	c.m[9] += cyz
}

// EquilibriumMoments writes the second-order equilibrium moments for a
// density rho and momentum density j into eq. All lengths are in lattice
// units, where cs^2 = 1/3.
func EquilibriumMoments(rho float64, j [3]float64, eq *[lattice.Q]float64) {
	jx, jy, jz := j[0], j[1], j[2]
	j2 := jx*jx + jy*jy + jz*jz

	*eq = [lattice.Q]float64{}
	eq[0] = rho
	eq[1], eq[2], eq[3] = jx, jy, jz
	eq[4] = j2 / rho
	eq[5] = (3*jx*jx - j2) / rho
	eq[6] = (jy*jy - jz*jz) / rho
	eq[7] = jx * jy / rho
	eq[8] = jx * jz / rho
	eq[9] = jy * jz / rho
}

// Equilibrium writes the equilibrium populations of a site with density rho
// and velocity u (lattice units) into f.
func (s *Site) Equilibrium(rho float64, u [3]float64, f *Populations) {
	var eq [lattice.Q]float64
	EquilibriumMoments(rho, [3]float64{rho * u[0], rho * u[1], rho * u[2]}, &eq)
	lattice.Populations(&eq, &s.Weight, &s.InvNorm, (*[lattice.Q]float64)(f))
}
