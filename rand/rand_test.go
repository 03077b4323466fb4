package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestSeedReproducible(t *testing.T) {
	g1, g2 := New(17), New(17)
	for i := 0; i < 100; i++ {
		assert.Equal(t, g1.NormFloat64(), g2.NormFloat64())
	}
	assert.Equal(t, int64(17), g1.Seed())
}

func TestUniform(t *testing.T) {
	g := New(3)
	buf := make([]float64, 10000)
	g.UniformAt(-2, 3, buf)
	for _, x := range buf {
		if x < -2 || x >= 3 {
			t.Fatalf("Uniform deviate %g out of range [-2, 3).", x)
		}
	}
	assert.InDelta(t, 0.5, stat.Mean(buf, nil), 0.05)
}

func TestGaussianMoments(t *testing.T) {
	g := New(5)
	buf := make([]float64, 100000)
	for i := range buf { buf[i] = g.Gaussian(1, 2) }

	mean, std := stat.MeanStdDev(buf, nil)
	assert.InDelta(t, 1.0, mean, 0.03)
	assert.InDelta(t, 2.0, std, 0.03)
}

func TestSplit(t *testing.T) {
	gens := Split(11, 4)
	assert.Len(t, gens, 4)

	seen := map[int64]bool{}
	for _, g := range gens {
		assert.False(t, seen[g.Seed()])
		seen[g.Seed()] = true
	}

	again := Split(11, 4)
	for i := range gens {
		assert.Equal(t, gens[i].NormFloat64(), again[i].NormFloat64())
	}
}
