package fluid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/golb/lattice"
)

const eps = 1e-13

func randomSite(gen *rand.Rand, m *lattice.Model) Site {
	s := NewSite(m)
	s.GammaBulk = 2*gen.Float64() - 1
	s.GammaShear = 2*gen.Float64() - 1
	s.GammaOdd = 2*gen.Float64() - 1
	s.GammaEven = 2*gen.Float64() - 1
	return s
}

func randomPops(gen *rand.Rand, f *Populations) {
	for l := range f { f[l] = 0.05 + 0.1*gen.Float64() }
}

func sums(m *lattice.Model, f *Populations) (rho float64, j [3]float64) {
	for l := 0; l < lattice.Q; l++ {
		rho += f[l]
		for a := 0; a < 3; a++ {
			j[a] += f[l] * float64(m.Velocities[l][a])
		}
	}
	return rho, j
}

func TestEquilibriumClosedForm(t *testing.T) {
	m := lattice.NewModel(1, 1)
	s := NewSite(m)
	rho, u := 1.3, [3]float64{0.02, -0.05, 0.01}

	f := &Populations{}
	s.Equilibrium(rho, u, f)

	u2 := u[0]*u[0] + u[1]*u[1] + u[2]*u[2]
	for l := 0; l < lattice.Q; l++ {
		c := m.Velocities[l]
		cu := float64(c[0])*u[0] + float64(c[1])*u[1] + float64(c[2])*u[2]
		want := m.Weights[l] * rho * (1 + 3*cu + 4.5*cu*cu - 1.5*u2)
		assert.InDelta(t, want, f[l], eps, "population %d", l)
	}
}

func TestEquilibriumFixedPoint(t *testing.T) {
	m := lattice.NewModel(1, 1)
	gen := rand.New(rand.NewSource(1))

	for trial := 0; trial < 25; trial++ {
		s := randomSite(gen, m)
		u := [3]float64{
			0.1 * (gen.Float64() - 0.5),
			0.1 * (gen.Float64() - 0.5),
			0.1 * (gen.Float64() - 0.5),
		}
		f := &Populations{}
		s.Equilibrium(0.5+gen.Float64(), u, f)
		before := *f

		s.Collide(f, Flags{}, nil)
		assert.InDeltaSlice(t, before[:], f[:], eps, "trial %d", trial)
	}
}

func TestCollisionConservation(t *testing.T) {
	m := lattice.NewModel(1, 1)
	gen := rand.New(rand.NewSource(2))

	table := []struct {
		name  string
		flags Flags
	}{
		{"plain", Flags{}},
		{"thermal", Flags{Thermal: true}},
	}

	for _, test := range table {
		for trial := 0; trial < 25; trial++ {
			s := randomSite(gen, m)
			s.SetPhi(1e-3)
			f := &Populations{}
			randomPops(gen, f)

			rho0, j0 := sums(m, f)
			s.Collide(f, test.flags, gen)
			rho1, j1 := sums(m, f)

			assert.InDelta(t, rho0, rho1, eps, "%s mass", test.name)
			assert.InDeltaSlice(t, j0[:], j1[:], eps, "%s momentum", test.name)
		}
	}
}

func TestCollisionForce(t *testing.T) {
	m := lattice.NewModel(1, 1)
	gen := rand.New(rand.NewSource(3))

	s := randomSite(gen, m)
	s.Force = [3]float64{1e-3, -2e-3, 5e-4}
	f := &Populations{}
	randomPops(gen, f)

	rho0, j0 := sums(m, f)
	s.Collide(f, Flags{Forced: true}, nil)
	rho1, j1 := sums(m, f)

	assert.InDelta(t, rho0, rho1, eps)
	for a := 0; a < 3; a++ {
		assert.InDelta(t, j0[a]+s.Force[a], j1[a], eps, "axis %d", a)
	}
}

func TestCollisionRelaxesStress(t *testing.T) {
	// With every gamma at zero the non-conserved moments land exactly on
	// their equilibrium values.
	m := lattice.NewModel(1, 1)
	gen := rand.New(rand.NewSource(4))
	s := NewSite(m)

	f := &Populations{}
	randomPops(gen, f)
	rho, j := sums(m, f)
	s.Collide(f, Flags{}, nil)

	want := &Populations{}
	s.Equilibrium(rho, [3]float64{j[0] / rho, j[1] / rho, j[2] / rho}, want)
	assert.InDeltaSlice(t, want[:], f[:], eps)
}

func TestSetPhi(t *testing.T) {
	m := lattice.NewModel(1, 1)
	s := NewSite(m)
	s.GammaBulk, s.GammaShear = 0.5, -0.25
	mu := 0.3
	s.SetPhi(mu)

	for k := 0; k < lattice.Q; k++ {
		var want float64
		switch lattice.Modes[k] {
		case lattice.Conserved:
			want = 0
		case lattice.Bulk:
			want = math.Sqrt(mu / m.InvNorm[k] * (1 - 0.25))
		case lattice.Shear:
			want = math.Sqrt(mu / m.InvNorm[k] * (1 - 0.0625))
		default:
			want = math.Sqrt(mu / m.InvNorm[k])
		}
		assert.InDelta(t, want, s.Phi[k], 1e-15, "mode %d", k)
	}

	s.ClearPhi()
	assert.Equal(t, [lattice.Q]float64{}, s.Phi)
}

func TestStreamPeriodicity(t *testing.T) {
	m := lattice.NewModel(1, 1)
	fd, err := NewField([3]int{3, 4, 5}, m)
	require.NoError(t, err)

	for idx := 0; idx < fd.Volume; idx++ {
		p := fd.Populations(idx)
		for l := range p { p[l] = float64(idx*lattice.Q + l) }
	}
	fd.Stream(0, fd.Volume)

	for idx := 0; idx < fd.Volume; idx++ {
		x, y, z := fd.Coords(idx)
		for l := 0; l < lattice.Q; l++ {
			c := m.Velocities[l]
			dx := ((x+c[0])%3 + 3) % 3
			dy := ((y+c[1])%4 + 4) % 4
			dz := ((z+c[2])%5 + 5) % 5
			dest := fd.Ghost(fd.Idx(dx, dy, dz))
			if dest[l] != float64(idx*lattice.Q+l) {
				t.Errorf("Population %d of (%d %d %d) landed in the wrong "+
					"site.", l, x, y, z)
			}
		}
	}

	fd.Swap()
	rest := fd.Idx(1, 2, 3)
	assert.Equal(t, float64(rest*lattice.Q), fd.Populations(rest)[0])
}

func TestCollideStreamMatchesSeparateStages(t *testing.T) {
	m := lattice.NewModel(1, 1)
	gen := rand.New(rand.NewSource(5))

	f1, err := NewField([3]int{4, 3, 2}, m)
	require.NoError(t, err)
	f2, err := NewField([3]int{4, 3, 2}, m)
	require.NoError(t, err)

	for idx := 0; idx < f1.Volume; idx++ {
		s := randomSite(gen, m)
		f1.Sites[idx], f2.Sites[idx] = s, s
		randomPops(gen, f1.Populations(idx))
		*f2.Populations(idx) = *f1.Populations(idx)
	}

	f1.CollideStream(0, f1.Volume, Flags{}, nil)
	f2.Collide(0, f2.Volume, Flags{}, nil)
	f2.Stream(0, f2.Volume)

	for idx := 0; idx < f1.Volume; idx++ {
		assert.Equal(t, *f1.Ghost(idx), *f2.Ghost(idx), "site %d", idx)
	}
}

func TestFieldTotals(t *testing.T) {
	m := lattice.NewModel(1, 1)
	fd, err := NewField([3]int{4, 4, 4}, m)
	require.NoError(t, err)

	u := [3]float64{0, 0, 0.01}
	fd.InitPopulations(1.0, Uniform(u))

	assert.InDelta(t, 64.0, fd.TotalMass(), 1e-12)
	j := fd.TotalMomentum()
	assert.InDeltaSlice(t, []float64{0, 0, 0.64}, j[:], 1e-12)

	rho, v := fd.Velocity(fd.Idx(1, 2, 3))
	assert.InDelta(t, 1.0, rho, 1e-14)
	assert.InDeltaSlice(t, u[:], v[:], 1e-14)
}

func TestSetForces(t *testing.T) {
	m := lattice.NewModel(1, 1)
	fd, err := NewField([3]int{2, 2, 2}, m)
	require.NoError(t, err)

	zero := func(x, y, z int) [3]float64 { return [3]float64{} }
	assert.False(t, fd.SetForces(zero))

	onePlane := func(x, y, z int) [3]float64 {
		if x == 1 { return [3]float64{0, 0, 1} }
		return [3]float64{}
	}
	assert.True(t, fd.SetForces(onePlane))
	assert.Equal(t, [3]float64{0, 0, 1}, fd.Sites[fd.Idx(1, 0, 1)].Force)
	assert.Equal(t, [3]float64{}, fd.Sites[fd.Idx(0, 0, 1)].Force)
}

func BenchmarkCollideStream(b *testing.B) {
	m := lattice.NewModel(1, 1)
	fd, _ := NewField([3]int{16, 16, 16}, m)
	fd.InitPopulations(1, Uniform([3]float64{0, 0, 0.01}))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fd.CollideStream(0, fd.Volume, Flags{}, nil)
		fd.Swap()
	}
}
