// Package trafficlight implements the per-signal green/yellow/red cycle FSM
// (spec §4.3 "Traffic-light FSM", §3 "Traffic light").
package trafficlight

import (
	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/geom"
)

// Color is the signal's current aspect.
type Color int

const (
	Green Color = iota
	Yellow
	Red
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// Fixed phase durations, in seconds (spec §3). Green + Yellow together equal
// Red, which is what lets two opposing arms of a 4-way intersection stay
// perfectly out of phase by simply starting one pair in Green and the other
// in Red (spec §4.2 step 4, scenario 2).
const (
	GreenDuration  = 12.0
	YellowDuration = 4.0
	RedDuration    = 16.0
)

// Context is threaded through every tick; empty today, kept for symmetry
// with the rest of the pervasive-FSM design (spec §9).
type Context struct{}

type stateGreen struct{ elapsed float64 }

func (s stateGreen) Name() string { return "green" }
func (s stateGreen) Tick(_ Context, dt float64) (fsm.State[Context], []fsm.Action) {
	e := s.elapsed + dt
	if e >= GreenDuration {
		return stateYellow{}, []fsm.Action{{Kind: "PlayAudio", Data: "traffic-light-change"}}
	}
	return stateGreen{elapsed: e}, nil
}

type stateYellow struct{ elapsed float64 }

func (s stateYellow) Name() string { return "yellow" }
func (s stateYellow) Tick(_ Context, dt float64) (fsm.State[Context], []fsm.Action) {
	e := s.elapsed + dt
	if e >= YellowDuration {
		return stateRed{}, []fsm.Action{{Kind: "PlayAudio", Data: "traffic-light-change"}}
	}
	return stateYellow{elapsed: e}, nil
}

type stateRed struct{ elapsed float64 }

func (s stateRed) Name() string { return "red" }
func (s stateRed) Tick(_ Context, dt float64) (fsm.State[Context], []fsm.Action) {
	e := s.elapsed + dt
	if e >= RedDuration {
		return stateGreen{}, []fsm.Action{{Kind: "PlayAudio", Data: "traffic-light-change"}}
	}
	return stateRed{elapsed: e}, nil
}

// Light is one signal FSM plus its geometry.
type Light struct {
	ID       int
	Position geom.Point
	Facing   geom.Direction
	fsmM     *fsm.Machine[Context]
}

// NewLight creates a light starting in startColor, with zero elapsed time in
// that phase (spec §3 "opposing pairs ... start in opposite phases").
func NewLight(id int, pos geom.Point, facing geom.Direction, start Color) *Light {
	var initial fsm.State[Context]
	switch start {
	case Green:
		initial = stateGreen{}
	case Yellow:
		initial = stateYellow{}
	default:
		initial = stateRed{}
	}
	return &Light{ID: id, Position: pos, Facing: facing, fsmM: fsm.New[Context](initial)}
}

// Step advances the light by dt and returns any raised actions.
func (l *Light) Step(dt float64) []fsm.Action {
	return l.fsmM.Step(Context{}, dt)
}

// Color returns the light's current aspect.
func (l *Light) Color() Color {
	switch l.fsmM.Current().Name() {
	case "green":
		return Green
	case "yellow":
		return Yellow
	default:
		return Red
	}
}
