package lattice

import (
	"gonum.org/v1/gonum/mat"
)

// term is one non-zero entry of the transform matrix.
type term struct {
	idx  int
	coef float64
}

var (
	// rowTerms[k] lists the populations contributing to moment k.
	rowTerms [Q][]term
	// colTerms[i] lists the moments contributing to population i.
	colTerms [Q][]term
)

func initTerms(e *mat.Dense) {
	for k := 0; k < Q; k++ {
		for i := 0; i < Q; i++ {
			c := e.At(k, i)
			if c == 0 { continue }
			rowTerms[k] = append(rowTerms[k], term{i, c})
			colTerms[i] = append(colTerms[i], term{k, c})
		}
	}
}

// Moments transforms the populations f into the moment basis, writing the
// result to m.
func Moments(f, m *[Q]float64) {
	for k := 0; k < Q; k++ {
		sum := 0.0
		for _, t := range rowTerms[k] {
			sum += t.coef * f[t.idx]
		}
		m[k] = sum
	}
}

// Populations is the inverse of Moments. It uses the supplied weights and
// inverse norms rather than the package tables so that callers can carry
// their own copies. m and f must not alias.
func Populations(m, weights, invNorm, f *[Q]float64) {
	var scaled [Q]float64
	for k := 0; k < Q; k++ {
		scaled[k] = invNorm[k] * m[k]
	}

	for i := 0; i < Q; i++ {
		sum := 0.0
		for _, t := range colTerms[i] {
			sum += t.coef * scaled[t.idx]
		}
		f[i] = weights[i] * sum
	}
}
