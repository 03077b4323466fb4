/*package lattice contains the D3Q19 velocity set used by the fluid solver and
the linear transform between populations and moments.

All tables are tabulated constants. They are indexed consistently: index 0 is
always the rest velocity and the rest (density) moment.
*/
package lattice

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Q is the number of discrete velocities in the D3Q19 model.
const Q = 19

// Mode identifies the relaxation group a moment belongs to.
type Mode int

const (
	Conserved Mode = iota
	Bulk
	Shear
	Odd
	Even
	EndMode
)

func (m Mode) String() string {
	switch m {
	case Conserved:
		return "Conserved"
	case Bulk:
		return "Bulk"
	case Shear:
		return "Shear"
	case Odd:
		return "Odd"
	case Even:
		return "Even"
	}
	panic(fmt.Sprintf("Unknown Mode %d", int(m)))
}

var (
	// Weights are the quadrature weights of each velocity.
	Weights = [Q]float64{
		1. / 3.,
		1. / 18., 1. / 18., 1. / 18., 1. / 18., 1. / 18., 1. / 18.,
		1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36.,
		1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36.,
	}

	// Velocities are the lattice velocity vectors in units of a/tau.
	Velocities = [Q][3]int{
		{0, 0, 0},
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		{1, 1, 0}, {-1, -1, 0}, {1, -1, 0}, {-1, 1, 0},
		{1, 0, 1}, {-1, 0, -1}, {1, 0, -1}, {-1, 0, 1},
		{0, 1, 1}, {0, -1, -1}, {0, 1, -1}, {0, -1, 1},
	}

	// InvNorm[k] is 1 / sum_i Weights[i] * E(k, i)^2 for each moment.
	InvNorm = [Q]float64{
		1.,
		3., 3., 3.,
		3. / 2., 3. / 4., 9. / 4.,
		9., 9., 9.,
		3. / 2., 3. / 2., 3. / 2.,
		9. / 2., 9. / 2., 9. / 2.,
		1. / 2., 3. / 4., 9. / 4.,
	}

	// Modes gives the relaxation group of each moment.
	Modes = [Q]Mode{
		Conserved,
		Conserved, Conserved, Conserved,
		Bulk,
		Shear, Shear, Shear, Shear, Shear,
		Odd, Odd, Odd, Odd, Odd, Odd,
		Even, Even, Even,
	}
)

// Model is the D3Q19 lattice model for a given grid spacing and time step.
// It is never modified after NewModel returns.
type Model struct {
	A, Tau            float64
	SoundSpeedSquared float64

	Weights    [Q]float64
	Velocities [Q][3]int
	InvNorm    [Q]float64
}

// NewModel returns the D3Q19 model with grid spacing a and time step tau.
func NewModel(a, tau float64) *Model {
	m := &Model{
		A: a, Tau: tau,
		SoundSpeedSquared: a * a / (3 * tau * tau),
		Weights:           Weights,
		Velocities:        Velocities,
		InvNorm:           InvNorm,
	}
	return m
}

// Log writes the model tables to the standard logger.
func (m *Model) Log() {
	log.Printf("D3Q19 model: a = %.4f, tau = %.4f, cs^2 = %.4f",
		m.A, m.Tau, m.SoundSpeedSquared)
	for l := 0; l < Q; l++ {
		c := m.Velocities[l]
		log.Printf("  c[%2d] = (%2d %2d %2d)  w = %.4f  1/b = %.4f",
			l, c[0], c[1], c[2], m.Weights[l], m.InvNorm[l])
	}
}

// basisValue evaluates the polynomial defining moment k at velocity c.
func basisValue(k int, c [3]int) float64 {
	x, y, z := float64(c[0]), float64(c[1]), float64(c[2])
	c2 := x*x + y*y + z*z

	switch k {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return y
	case 3:
		return z
	case 4:
		return c2 - 1
	case 5:
		return 3*x*x - c2
	case 6:
		return y*y - z*z
	case 7:
		return x * y
	case 8:
		return x * z
	case 9:
		return y * z
	case 10:
		return (3*c2 - 5) * x
	case 11:
		return (3*c2 - 5) * y
	case 12:
		return (3*c2 - 5) * z
	case 13:
		return x * (y*y - z*z)
	case 14:
		return y * (x*x - z*z)
	case 15:
		return z * (x*x - y*y)
	case 16:
		return 3*c2*c2 - 6*c2 + 1
	case 17:
		return (2*c2 - 3) * (3*x*x - c2)
	case 18:
		return (2*c2 - 3) * (y*y - z*z)
	}
	panic(fmt.Sprintf("Moment index %d out of range.", k))
}

// Basis returns the Q x Q transform matrix E, where E(k, i) is the
// contribution of population i to moment k.
func Basis() *mat.Dense {
	e := mat.NewDense(Q, Q, nil)
	for k := 0; k < Q; k++ {
		for i := 0; i < Q; i++ {
			e.Set(k, i, basisValue(k, Velocities[i]))
		}
	}
	return e
}

// checkBasis returns an error if the moments are not orthogonal under the
// quadrature weights or if their norms disagree with InvNorm.
func checkBasis(e *mat.Dense) error {
	w := mat.NewDiagDense(Q, Weights[:])

	ew := &mat.Dense{}
	ew.Mul(e, w)
	norms := &mat.Dense{}
	norms.Mul(ew, e.T())

	for k := 0; k < Q; k++ {
		for j := 0; j < Q; j++ {
			b := norms.At(k, j)
			if k == j {
				if math.Abs(b*InvNorm[k]-1) > 1e-12 {
					return fmt.Errorf(
						"Moment %d has norm %g, but InvNorm is %g.",
						k, b, InvNorm[k],
					)
				}
			} else if math.Abs(b) > 1e-12 {
				return fmt.Errorf(
					"Moments %d and %d are not orthogonal (%g).", k, j, b,
				)
			}
		}
	}
	return nil
}

func init() {
	e := Basis()
	if err := checkBasis(e); err != nil {
		panic("Internal lattice setup error: " + err.Error())
	}
	initTerms(e)
}
