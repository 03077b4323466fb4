package lattice

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestWeights(t *testing.T) {
	assert.InDelta(t, 1.0, floats.Sum(Weights[:]), 1e-15, "weights sum")

	for l := 0; l < Q; l++ {
		c := Velocities[l]
		norm := abs(c[0]) + abs(c[1]) + abs(c[2])
		switch norm {
		case 0:
			assert.Equal(t, 0, l, "rest velocity must be index 0")
			assert.Equal(t, 1./3., Weights[l])
		case 1:
			assert.Equal(t, 1./18., Weights[l], "face weight %d", l)
		case 2:
			assert.Equal(t, 1./36., Weights[l], "edge weight %d", l)
		default:
			t.Errorf("Velocity %d = %v has Manhattan norm %d.", l, c, norm)
		}
	}
}

func TestVelocitiesUnique(t *testing.T) {
	seen := map[[3]int]bool{}
	for _, c := range Velocities {
		assert.False(t, seen[c], "duplicate velocity %v", c)
		seen[c] = true
	}
}

func TestIsotropy(t *testing.T) {
	// Second moment of the weights must be cs^2 delta_ab with cs^2 = 1/3.
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			sum := 0.0
			for l := 0; l < Q; l++ {
				sum += Weights[l] * float64(Velocities[l][a]*Velocities[l][b])
			}
			if a == b {
				assert.InDelta(t, 1./3., sum, 1e-15)
			} else {
				assert.InDelta(t, 0.0, sum, 1e-15)
			}
		}
	}
}

func TestBasis(t *testing.T) {
	require.NoError(t, checkBasis(Basis()))

	e := Basis()
	for k := 0; k < Q; k++ {
		assert.Equal(t, Conserved == Modes[k], k < 4, "mode %d group", k)
	}
	// Density and momentum rows.
	for i := 0; i < Q; i++ {
		assert.Equal(t, 1.0, e.At(0, i))
		for a := 0; a < 3; a++ {
			assert.Equal(t, float64(Velocities[i][a]), e.At(a+1, i))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	gen := rand.New(rand.NewSource(7))
	var f, m, g [Q]float64
	w, inv := Weights, InvNorm

	for trial := 0; trial < 20; trial++ {
		for i := range f { f[i] = gen.Float64() }
		Moments(&f, &m)
		Populations(&m, &w, &inv, &g)
		assert.InDeltaSlice(t, f[:], g[:], 1e-13, "trial %d", trial)
	}
}

func TestMomentsMatchDense(t *testing.T) {
	gen := rand.New(rand.NewSource(11))
	var f, m [Q]float64
	for i := range f { f[i] = gen.Float64() }
	Moments(&f, &m)

	want := mat.NewVecDense(Q, nil)
	want.MulVec(Basis(), mat.NewVecDense(Q, f[:]))
	for k := 0; k < Q; k++ {
		assert.InDelta(t, want.AtVec(k), m[k], 1e-14, "moment %d", k)
	}
}

func TestNewModel(t *testing.T) {
	table := []struct {
		a, tau, cs2 float64
	}{
		{1, 1, 1. / 3.},
		{2, 1, 4. / 3.},
		{1, 0.5, 4. / 3.},
	}

	for i, test := range table {
		m := NewModel(test.a, test.tau)
		if math.Abs(m.SoundSpeedSquared-test.cs2) > 1e-14 {
			t.Errorf("%d) Expected cs^2 = %g, got %g.", i, test.cs2,
				m.SoundSpeedSquared)
		}
		assert.Equal(t, Weights, m.Weights)
		assert.Equal(t, InvNorm, m.InvNorm)
	}
}

func abs(x int) int {
	if x < 0 { return -x }
	return x
}

func BenchmarkMomentsRoundTrip(b *testing.B) {
	var f, m, g [Q]float64
	w, inv := Weights, InvNorm
	for i := range f { f[i] = float64(i) }
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Moments(&f, &m)
		Populations(&m, &w, &inv, &g)
	}
}
