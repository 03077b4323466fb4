package fluid

import (
	"github.com/phil-mansfield/golb/lattice"
)

// Stream pushes the populations of the sites in [low, high) into the ghost
// buffer entries of their neighbors. Every (site, direction) pair has a
// unique destination, so disjoint ranges can be streamed concurrently.
func (f *Field) Stream(low, high int) {
	for idx := low; idx < high; idx++ {
		p := &f.pops[idx]
		nbr := &f.nbrs[idx]
		for l := 0; l < lattice.Q; l++ {
			f.ghost[nbr[l]][l] = p[l]
		}
	}
}

// Collide runs the collision operator on the sites in [low, high).
func (f *Field) Collide(low, high int, flags Flags, noise Noise) {
	for idx := low; idx < high; idx++ {
		f.Sites[idx].Collide(&f.pops[idx], flags, noise)
	}
}

// CollideStream collides each site in [low, high) and immediately streams
// its populations. A site is only read by its own collision, so this is
// equivalent to Collide followed by Stream.
func (f *Field) CollideStream(low, high int, flags Flags, noise Noise) {
	for idx := low; idx < high; idx++ {
		p := &f.pops[idx]
		f.Sites[idx].Collide(p, flags, noise)

		nbr := &f.nbrs[idx]
		for l := 0; l < lattice.Q; l++ {
			f.ghost[nbr[l]][l] = p[l]
		}
	}
}
