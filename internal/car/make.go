package car

import "github.com/klemola/liikennematto-sub004/internal/geom"

// Make is a car model's physical and performance envelope, the sim's
// analogue of the teacher's models/car.Car, trimmed to the fields the
// physics integration and steering actually consume (spec §3 "Car", §4.3
// "Physics integration").
type Make struct {
	ID              string
	Length, Width   float64
	MaxVelocity     float64 // m/s
	MaxAcceleration float64 // m/s^2
	MaxBraking      float64 // m/s^2, positive magnitude
}

// BodyPolygon returns the make's rectangular body outline centered on the
// origin and facing +X, for placement at a car's current position/orientation.
func (m Make) BodyPolygon() []geom.Point {
	hl, hw := m.Length/2, m.Width/2
	return []geom.Point{
		{X: hl, Y: -hw},
		{X: hl, Y: hw},
		{X: -hl, Y: hw},
		{X: -hl, Y: -hw},
	}
}

var (
	MakeSedan = Make{ID: "sedan", Length: 4.6, Width: 1.8, MaxVelocity: 11.0, MaxAcceleration: 2.5, MaxBraking: 6.0}
	MakeVan   = Make{ID: "van", Length: 5.4, Width: 2.0, MaxVelocity: 9.0, MaxAcceleration: 1.8, MaxBraking: 5.0}
)

// Makes lists the makes available to SpawnResident/SpawnTestCar.
var Makes = []Make{MakeSedan, MakeVan}
