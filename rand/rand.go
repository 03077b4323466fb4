/*package rand supplies the Gaussian noise sources used by fluctuating
lattice-Boltzmann collisions. Every worker goroutine owns one Generator, so
none of them are safe for concurrent use.
*/
package rand

import (
	"math/rand"
	"time"
)

// Generator is a seeded source of uniform and standard normal deviates.
type Generator struct {
	seed int64
	gen *rand.Rand
}

// New returns a Generator with the given seed.
func New(seed int64) *Generator {
	return &Generator{ seed: seed, gen: rand.New(rand.NewSource(seed)) }
}

// NewTimeSeed returns a Generator seeded from the current time.
func NewTimeSeed() *Generator {
	return New(time.Now().UnixNano())
}

// Seed returns the seed the Generator was created with.
func (g *Generator) Seed() int64 { return g.seed }

// Uniform returns a deviate in [low, high).
func (g *Generator) Uniform(low, high float64) float64 {
	return low + (high - low) * g.gen.Float64()
}

// NormFloat64 returns a deviate from N(0, 1).
func (g *Generator) NormFloat64() float64 {
	return g.gen.NormFloat64()
}

// Gaussian returns a deviate from N(mu, sigma^2).
func (g *Generator) Gaussian(mu, sigma float64) float64 {
	return mu + sigma * g.gen.NormFloat64()
}

// UniformAt fills buf with uniform deviates in [low, high).
func (g *Generator) UniformAt(low, high float64, buf []float64) {
	for i := range buf { buf[i] = g.Uniform(low, high) }
}

// Split returns n Generators, one for each worker, whose seeds are derived
// from seed. A seed of zero seeds from the clock instead.
func Split(seed int64, n int) []*Generator {
	if seed == 0 { seed = time.Now().UnixNano() }
	gens := make([]*Generator, n)
	for i := range gens {
		gens[i] = New(seed + int64(i) * 104729)
	}
	return gens
}
