package tilemap

import "github.com/klemola/liikennematto-sub004/internal/fsm"

// LifecycleContext is threaded through tile lifecycle ticks. Empty today,
// present so the lifecycle FSM matches the same State[C] shape as every
// other entity machine (spec §9) even though no per-tick external state is
// needed yet.
type LifecycleContext struct{}

// constructingDuration and removingDuration are the timed-transition
// durations (spec §4 "Tile FSM" row: "timed transitions and side-effect
// actions").
const (
	constructingDuration = 0.6 // seconds
	removingDuration      = 0.4
)

type stateConstructing struct{ elapsed float64 }

func (s stateConstructing) Name() string { return "constructing" }

func (s stateConstructing) Tick(_ LifecycleContext, dt float64) (fsm.State[LifecycleContext], []fsm.Action) {
	elapsed := s.elapsed + dt
	if elapsed >= constructingDuration {
		return stateBuilt{}, []fsm.Action{{Kind: "PlayAudio", Data: "build-end"}}
	}
	return stateConstructing{elapsed: elapsed}, nil
}

type stateBuilt struct{}

func (s stateBuilt) Name() string { return "built" }

func (s stateBuilt) Tick(_ LifecycleContext, _ float64) (fsm.State[LifecycleContext], []fsm.Action) {
	return s, nil
}

type stateRemoving struct{ elapsed float64 }

func (s stateRemoving) Name() string { return "removing" }

func (s stateRemoving) Tick(_ LifecycleContext, dt float64) (fsm.State[LifecycleContext], []fsm.Action) {
	elapsed := s.elapsed + dt
	if elapsed >= removingDuration {
		return stateRemoved{}, []fsm.Action{{Kind: "PlayAudio", Data: "destroy-road"}}
	}
	return stateRemoving{elapsed: elapsed}, nil
}

type stateRemoved struct{}

func (s stateRemoved) Name() string { return "removed" }

func (s stateRemoved) Tick(_ LifecycleContext, _ float64) (fsm.State[LifecycleContext], []fsm.Action) {
	return s, nil
}
