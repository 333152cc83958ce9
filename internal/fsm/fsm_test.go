package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineIsNotRunning(t *testing.T) {
	f := New(3)
	assert.False(t, f.Running())
	assert.Equal(t, InvalidState, f.CurrentState())
}

func TestAddStateRejectsOutOfRangeAndDuplicate(t *testing.T) {
	f := New(2)
	assert.True(t, f.AddState(0, &State{Run: func(any) {}, Change: func(any) int { return 0 }}))
	assert.False(t, f.AddState(0, &State{Run: func(any) {}, Change: func(any) int { return 0 }}), "duplicate registration refused")
	assert.False(t, f.AddState(5, &State{Run: func(any) {}, Change: func(any) int { return 0 }}), "out of range refused")
}

func TestRunAdvancesThroughStates(t *testing.T) {
	var trace []int
	f := New(3)
	f.AddState(0, &State{
		Run:    func(any) { trace = append(trace, 0) },
		Change: func(any) int { return 1 },
	})
	f.AddState(1, &State{
		Run:    func(any) { trace = append(trace, 1) },
		Change: func(any) int { return 2 },
	})
	f.AddState(2, &State{
		Run:    func(any) { trace = append(trace, 2) },
		Change: func(any) int { return InvalidState },
	})
	f.SetState(0)

	require.True(t, f.Running())
	f.Run(nil)
	f.Run(nil)
	f.Run(nil)

	assert.Equal(t, []int{0, 1, 2}, trace)
	assert.False(t, f.Running(), "the third state's Change returns InvalidState")
}

func TestRunIsNoopWhenNotRunning(t *testing.T) {
	ran := false
	f := New(1)
	f.AddState(0, &State{Run: func(any) { ran = true }, Change: func(any) int { return 0 }})
	f.Run(nil) // curr_state is InvalidState until SetState is called
	assert.False(t, ran)
}

func TestDeinitStopsMachine(t *testing.T) {
	f := New(1)
	f.AddState(0, &State{Run: func(any) {}, Change: func(any) int { return 0 }})
	f.SetState(0)
	f.Deinit()
	assert.False(t, f.Running())
	assert.True(t, f.AddState(0, &State{Run: func(any) {}, Change: func(any) int { return 0 }}), "slot freed after Deinit")
}
