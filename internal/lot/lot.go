// Package lot models a large-tile lot instance: its parking spots, their
// entry/exit splines, and the reservation protocol cars use to claim a spot
// (spec §3 "Lot", §4.3 "Parking reservation protocol").
package lot

import (
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// Kind identifies the lot's footprint/use, keyed off the large tile id that
// spawned it.
type Kind int

const (
	KindResidential Kind = iota
)

// ParkingSpot is one reservable slot within a lot.
type ParkingSpot struct {
	ID               int
	Position         geom.Point
	Orientation      float64 // radians
	PathFromLotEntry []geom.CubicSpline
	PathToLotExit    []geom.CubicSpline
	reservedBy       *int
}

// ReservedBy reports the id of the car holding this spot, if any.
func (p *ParkingSpot) ReservedBy() (int, bool) {
	if p.reservedBy == nil {
		return 0, false
	}
	return *p.reservedBy, true
}

// TryReserve atomically claims the spot for carID. The single-threaded
// cooperative scheduler (spec §5) means this is really just a guarded
// assignment, but it's shaped as a compare-and-set so the caller's logic
// matches the spec's "atomic swap" language and so a future concurrent
// scheduler wouldn't have to change this method's contract.
func (p *ParkingSpot) TryReserve(carID int) bool {
	if p.reservedBy != nil {
		return false
	}
	id := carID
	p.reservedBy = &id
	return true
}

// Release frees the spot, but only if carID currently holds it; releasing
// a spot you don't own is a no-op rather than an error, since despawn
// cascades can race a lot bulldoze (spec §4.3).
func (p *ParkingSpot) Release(carID int) {
	if p.reservedBy != nil && *p.reservedBy == carID {
		p.reservedBy = nil
	}
}

// ForceRelease frees the spot unconditionally, used when the owning lot is
// bulldozed out from under a parked car.
func (p *ParkingSpot) ForceRelease() {
	p.reservedBy = nil
}

// Lot is one large-tile instance: a parking lot with a driveway.
type Lot struct {
	ID                     int
	Kind                   Kind
	TileID                 tileset.TileID
	DrivewayExitDirection  geom.Direction
	ParkingSpotOrientation float64
	Width, Height          int // in cells
	Position               geom.Point
	Box                    geom.Box
	ParkingSpots           []*ParkingSpot

	// unparkLock serializes concurrent unparks from this lot (spec §4.3):
	// only one car may be mid-Unparking from this lot's spots at a time.
	unparkLock bool
}

// BoundingBox satisfies geom.Item for the world's lot quadtree.
func (l *Lot) BoundingBox() geom.Box { return l.Box }

// TryLockUnpark acquires the lot's unpark serialization lock.
func (l *Lot) TryLockUnpark() bool {
	if l.unparkLock {
		return false
	}
	l.unparkLock = true
	return true
}

// UnlockUnpark releases the lot's unpark serialization lock.
func (l *Lot) UnlockUnpark() { l.unparkLock = false }

// FreeSpot returns the first unreserved parking spot, or nil.
func (l *Lot) FreeSpot() *ParkingSpot {
	for _, s := range l.ParkingSpots {
		if _, reserved := s.ReservedBy(); !reserved {
			return s
		}
	}
	return nil
}

// SpotByID looks up one of the lot's spots.
func (l *Lot) SpotByID(id int) (*ParkingSpot, bool) {
	for _, s := range l.ParkingSpots {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
