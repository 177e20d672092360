package car

import (
	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/geom"
)

// unparkingArrivalTolerance is how close a car must get to its route's start
// node before Unparking hands off to Driving (spec §4.3).
const unparkingArrivalTolerance = 4.5

// Context is fed to the car FSM every tick (spec §4.3 step 5). Most fields
// are plain per-tick observations (position, velocity); the bool fields are
// direct triggers the rules/world layer raises when it decides this car
// should change lanes of behavior, since not every car transition is a
// pure function of position and velocity.
type Context struct {
	Position               geom.Point
	Velocity               float64
	RouteIsRouted          bool // route.Kind == route.Routed
	RouteStartNodePosition geom.Point
	RouteFinished          bool

	DespawnRequested bool
	BeginParking     bool // a parking spot was reserved; route set to ArrivingToDestination
	NoParkingSpot    bool // tried to park, found no free spot
	ReuseAsParked    bool // pool reuse: put this Queued car back as Parked
	ReuseAsDriving   bool // pool reuse: put this Queued car back as Driving
}

type stateParked struct{}

func (stateParked) Name() string { return "parked" }
func (s stateParked) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	if ctx.RouteIsRouted {
		return stateUnparking{}, []fsm.Action{{Kind: "CarStateChange", Data: "UnparkingStarted"}}
	}
	return s, nil
}

type stateUnparking struct{}

func (stateUnparking) Name() string { return "unparking" }
func (s stateUnparking) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	if ctx.DespawnRequested {
		return stateDespawning{}, nil
	}
	if ctx.Position.DistanceTo(ctx.RouteStartNodePosition) <= unparkingArrivalTolerance {
		return stateDriving{}, []fsm.Action{{Kind: "CarStateChange", Data: "UnparkingComplete"}}
	}
	return s, nil
}

type stateDriving struct{}

func (stateDriving) Name() string { return "driving" }
func (s stateDriving) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	switch {
	case ctx.DespawnRequested:
		return stateDespawning{}, nil
	case ctx.BeginParking:
		return stateParking{}, []fsm.Action{{Kind: "CarStateChange", Data: "ParkingStarted"}}
	case ctx.NoParkingSpot:
		return stateWaitingForParkingSpot{}, nil
	}
	return s, nil
}

type stateWaitingForParkingSpot struct{}

func (stateWaitingForParkingSpot) Name() string { return "waiting-for-parking-spot" }
func (s stateWaitingForParkingSpot) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	switch {
	case ctx.DespawnRequested:
		return stateDespawning{}, nil
	case ctx.BeginParking:
		return stateParking{}, []fsm.Action{{Kind: "CarStateChange", Data: "ParkingStarted"}}
	}
	return s, nil
}

type stateParking struct{}

func (stateParking) Name() string { return "parking" }
func (s stateParking) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	switch {
	case ctx.DespawnRequested:
		return stateDespawning{}, nil
	case ctx.RouteFinished:
		return stateParked{}, []fsm.Action{{Kind: "CarStateChange", Data: "ParkingComplete"}}
	}
	return s, nil
}

type stateDespawning struct{}

func (stateDespawning) Name() string { return "despawning" }
func (s stateDespawning) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	if ctx.Velocity < 0.05 {
		return stateQueued{}, []fsm.Action{{Kind: "CarStateChange", Data: "DespawnComplete"}}
	}
	return s, nil
}

type stateQueued struct{}

func (stateQueued) Name() string { return "queued" }
func (s stateQueued) Tick(ctx Context, _ float64) (fsm.State[Context], []fsm.Action) {
	switch {
	case ctx.ReuseAsParked:
		return stateParked{}, []fsm.Action{{Kind: "CarStateChange", Data: "EnterQueue"}}
	case ctx.ReuseAsDriving:
		return stateDriving{}, []fsm.Action{{Kind: "CarStateChange", Data: "EnterQueue"}}
	}
	return s, nil
}

// NewParkedMachine and NewDrivingMachine seed a fresh car FSM in the two
// states spec §4.3 allows at spawn time.
func NewParkedMachine() *fsm.Machine[Context]  { return fsm.New[Context](stateParked{}) }
func NewDrivingMachine() *fsm.Machine[Context] { return fsm.New[Context](stateDriving{}) }

// StateName exposes the current state's name without leaking the
// unexported state types outside the package.
func StateName(m *fsm.Machine[Context]) string { return m.Current().Name() }
