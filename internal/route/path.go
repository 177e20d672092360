// Package route implements a car's path as a sequence of arc-length
// parameterized cubic splines (spec §3 "Route"/"Path"), plus A* search over
// the road-network graph to build one.
package route

import "github.com/klemola/liikennematto-sub004/internal/geom"

// SplineMeta pairs a spline with its precomputed total arc length (spec §3
// "SplineMeta"). Sampling a point at a distance along it (Path.Sample) still
// integrates partial arc lengths on every call.
type SplineMeta struct {
	Spline geom.CubicSpline
	Length float64
	End    geom.Point
}

// NewSplineMeta wraps s, computing its arc length once up front.
func NewSplineMeta(s geom.CubicSpline) SplineMeta {
	return SplineMeta{Spline: s, Length: s.ArcLength(), End: s.P3}
}

// Path is an ordered run of splines with a running arc-length parameter
// over the current one (spec §3 "Path" invariant: parameter <=
// splines[index].length; overflow advances the index; finishing the last
// spline sets Finished).
type Path struct {
	Splines    []SplineMeta
	// NodeIDs, when set by a graph-backed builder (e.g. FindPath), holds the
	// road-network node id each spline in Splines drives toward; NodeIDs[i]
	// is the "to" node of Splines[i]. Empty for ad-hoc paths (e.g. a lot's
	// PathFromLotEntry) that don't track graph nodes.
	NodeIDs    []int
	Index      int
	Parameter  float64
	Start, End geom.Point
	Finished   bool
}

// NewPath builds a Path from an ordered list of splines. An empty list
// yields an already-Finished path.
func NewPath(splines []SplineMeta) *Path {
	if len(splines) == 0 {
		return &Path{Finished: true}
	}
	return &Path{
		Splines: splines,
		Start:   splines[0].Spline.P0,
		End:     splines[len(splines)-1].End,
	}
}

// NextNodeID returns the road-network node the path is currently driving
// toward, if NodeIDs is populated.
func (p *Path) NextNodeID() (int, bool) {
	if p == nil || p.Index >= len(p.NodeIDs) {
		return 0, false
	}
	return p.NodeIDs[p.Index], true
}

// Advance consumes dist meters of arc length, rolling over to subsequent
// splines and setting Finished once the last one is exhausted.
func (p *Path) Advance(dist float64) {
	if p.Finished || len(p.Splines) == 0 || dist <= 0 {
		return
	}
	p.Parameter += dist
	for p.Parameter > p.Splines[p.Index].Length {
		if p.Index == len(p.Splines)-1 {
			p.Parameter = p.Splines[p.Index].Length
			p.Finished = true
			return
		}
		p.Parameter -= p.Splines[p.Index].Length
		p.Index++
	}
}

// Sample returns the current point and (non-unit) tangent direction at the
// path's running parameter.
func (p *Path) Sample() (geom.Point, geom.Vec) {
	if len(p.Splines) == 0 {
		return p.End, geom.Vec{}
	}
	sm := p.Splines[p.Index]
	t := sm.Spline.SampleAtArcLength(p.Parameter, sm.Length)
	return sm.Spline.PointAt(t), sm.Spline.TangentAt(t)
}

// Ahead returns the point/tangent dist meters further along the path than
// the current parameter, without mutating p, used for look-ahead steering
// (spec §4.3 step 2). The shallow copy is safe because Advance only ever
// touches Index/Parameter/Finished, never the underlying Splines slice.
func (p *Path) Ahead(dist float64) (geom.Point, geom.Vec) {
	shadow := *p
	shadow.Advance(dist)
	return shadow.Sample()
}
