/*package integrator describes the molecular-dynamics integrator that a
lattice-Boltzmann fluid is coupled to. The coupling is through two signals
emitted on every integration step: BefIntP, before the positions are
updated, and BefIntV, before the velocities are updated.
*/
package integrator

// Signal is a list of callbacks which are run, in connection order, every
// time the signal is emitted. Signals are not safe for concurrent use.
type Signal struct {
	slots []*slot
	nextID int
}

type slot struct {
	id int
	f func()
	connected bool
}

// Connection is the handle returned by Signal.Connect.
type Connection struct {
	sig *Signal
	id int
}

// Connect adds f to the signal.
func (sig *Signal) Connect(f func()) *Connection {
	id := sig.nextID
	sig.nextID++
	sig.slots = append(sig.slots, &slot{ id, f, true })
	return &Connection{ sig, id }
}

// Emit runs every connected callback. Callbacks connected during an
// emission first run on the next one; callbacks disconnected during an
// emission do not run again.
func (sig *Signal) Emit() {
	for _, s := range sig.slots {
		if s.connected { s.f() }
	}
}

// Len returns the number of connected callbacks.
func (sig *Signal) Len() int { return len(sig.slots) }

// Disconnect removes the callback from its signal. Disconnecting twice is a
// no-op.
func (c *Connection) Disconnect() {
	if c.sig == nil { return }

	// Emit may be ranging over the old slice, so it is never modified.
	slots := make([]*slot, 0, len(c.sig.slots))
	for _, s := range c.sig.slots {
		if s.id == c.id {
			s.connected = false
		} else {
			slots = append(slots, s)
		}
	}
	c.sig.slots = slots
	c.sig = nil
}

// Connected returns true if the callback is still attached to its signal.
func (c *Connection) Connected() bool { return c.sig != nil }

// Integrator is anything which emits the two integration signals.
type Integrator interface {
	BefIntP() *Signal
	BefIntV() *Signal
}

// Loop is a minimal Integrator which only emits its signals. It stands in
// for a full molecular-dynamics integrator when the fluid is run on its own.
type Loop struct {
	befIntP, befIntV Signal
	steps int
}

// NewLoop returns a Loop with no connections.
func NewLoop() *Loop { return &Loop{} }

func (l *Loop) BefIntP() *Signal { return &l.befIntP }
func (l *Loop) BefIntV() *Signal { return &l.befIntV }

// Steps returns the number of completed integration steps.
func (l *Loop) Steps() int { return l.steps }

// Run performs n integration steps.
func (l *Loop) Run(n int) {
	for i := 0; i < n; i++ {
		l.befIntP.Emit()
		l.befIntV.Emit()
		l.steps++
	}
}

var _ Integrator = &Loop{}
