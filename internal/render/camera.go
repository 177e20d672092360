// Package render is the debug-overlay half of the out-of-scope render
// pipeline (spec §1 "render pipeline ... produces a raster/vector scene"):
// a thin top-down view of the tilemap, road network and cars, plus a HUD,
// enough to exercise the host loop without reimplementing sprite rendering.
package render

import "github.com/klemola/liikennematto-sub004/internal/geom"

// Camera maps world meters to screen pixels: a uniform Scale (pixels per
// meter) plus a pixel-space Offset, mirroring the teacher's cameraX/cameraY
// follow fields in game.RoadView but without the highway-specific lane
// tracking (camera/viewport control is the editor's job, out of scope per
// spec §1).
type Camera struct {
	OffsetX, OffsetY float64
	Scale            float64
}

// ToScreen projects a world point to screen pixel coordinates.
func (c Camera) ToScreen(p geom.Point) (float64, float64) {
	return p.X*c.Scale + c.OffsetX, p.Y*c.Scale + c.OffsetY
}
