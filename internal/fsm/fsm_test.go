package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counterCtx struct{}

type stateA struct{ ticks int }

func (s stateA) Name() string { return "a" }
func (s stateA) Tick(_ counterCtx, _ float64) (State[counterCtx], []Action) {
	if s.ticks >= 2 {
		return stateB{}, []Action{{Kind: "switched", Data: "a-to-b"}}
	}
	return stateA{ticks: s.ticks + 1}, nil
}

type stateB struct{}

func (stateB) Name() string { return "b" }
func (s stateB) Tick(_ counterCtx, _ float64) (State[counterCtx], []Action) {
	return s, nil
}

func TestMachineAdvancesStateOverTicks(t *testing.T) {
	m := New[counterCtx](stateA{})
	assert.Equal(t, "a", m.Current().Name())

	m.Step(counterCtx{}, 0.1)
	assert.Equal(t, "a", m.Current().Name())
	m.Step(counterCtx{}, 0.1)
	assert.Equal(t, "a", m.Current().Name())

	actions := m.Step(counterCtx{}, 0.1)
	assert.Equal(t, "b", m.Current().Name())
	assert.Len(t, actions, 1)
	assert.Equal(t, "switched", actions[0].Kind)
}

func TestMachineElapsedAccumulates(t *testing.T) {
	m := New[counterCtx](stateA{})
	m.Step(counterCtx{}, 0.5)
	m.Step(counterCtx{}, 0.25)
	assert.InDelta(t, 0.75, m.Elapsed(), 1e-9)
}

func TestMachineForceBypassesTick(t *testing.T) {
	m := New[counterCtx](stateA{})
	m.Step(counterCtx{}, 1.0)
	m.Force(stateB{})
	assert.Equal(t, "b", m.Current().Name())
	assert.Equal(t, 0.0, m.Elapsed())
}

func TestMachineStaysPutWhenTickReturnsSameState(t *testing.T) {
	m := New[counterCtx](stateB{})
	m.Step(counterCtx{}, 10)
	m.Step(counterCtx{}, 10)
	assert.Equal(t, "b", m.Current().Name())
}
