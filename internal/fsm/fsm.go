// Package fsm implements a small state-machine skeleton: an array of
// states indexed by id, each pairing a run callback with a transition
// callback that picks the next id. Application task handlers (such as the
// schedulerdemo command's ping handler) drive an instance when they need
// more than a single request/response step; the scheduler core does not
// use this package.
package fsm

// InvalidState is the sentinel current-state id meaning "not running".
const InvalidState = 256

// RunFunc executes one state's work for this tick.
type RunFunc func(args any)

// ChangeFunc inspects args and returns the id of the state to run next.
// Returning an id outside the machine's range stops the machine (the
// current state becomes InvalidState).
type ChangeFunc func(args any) int

// State pairs a state's run behavior with its transition behavior.
type State struct {
	Run    RunFunc
	Change ChangeFunc
}

// FSM is a fixed-size array of states addressed by small integer id.
type FSM struct {
	states []*State
	curr   int
}

// New creates a machine with stateCount state slots, all empty, and no
// current state.
func New(stateCount int) *FSM {
	return &FSM{
		states: make([]*State, stateCount),
		curr:   InvalidState,
	}
}

// AddState registers state at id. Refuses if id is out of range or a
// state is already registered there; returns whether the registration
// took effect.
func (f *FSM) AddState(id int, state *State) bool {
	if id < 0 || id >= len(f.states) || f.states[id] != nil {
		return false
	}
	f.states[id] = state
	return true
}

// SetState forces the machine into id without running anything. Used to
// start the machine, or to force a jump from outside the normal
// Run/Change cycle. Passing an out-of-range id sets InvalidState.
func (f *FSM) SetState(id int) {
	if id < 0 || id >= len(f.states) {
		f.curr = InvalidState
		return
	}
	f.curr = id
}

// CurrentState returns the active state id, or InvalidState if the
// machine is not running.
func (f *FSM) CurrentState() int { return f.curr }

// Running reports whether the machine has an active state.
func (f *FSM) Running() bool { return f.curr != InvalidState }

// Run executes the current state's Run callback, then advances curr per
// its Change callback. A no-op if the machine is not running.
func (f *FSM) Run(args any) {
	if f.curr == InvalidState {
		return
	}
	state := f.states[f.curr]
	state.Run(args)
	next := state.Change(args)
	if next >= 0 && next < len(f.states) {
		f.curr = next
	} else {
		f.curr = InvalidState
	}
}

// Deinit clears every registered state and stops the machine.
func (f *FSM) Deinit() {
	for i := range f.states {
		f.states[i] = nil
	}
	f.curr = InvalidState
}
