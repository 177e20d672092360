package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// twoCellStraightRoad builds the scenario-1 fixture: a 2x1 grid with a
// horizontal through road spanning both cells (spec §4.2/§8 scenario 1).
func twoCellStraightRoad(t *testing.T) (*tilemap.Tilemap, tileset.Tileset) {
	t.Helper()
	ts := tileset.DefaultTileset()
	tm := tilemap.New(2, 1)

	left, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	right, _ := tm.At(tilemap.Cell{X: 2, Y: 1})
	left.Fix(tileset.TileID(tileset.BitLeft|tileset.BitRight), nil)
	right.Fix(tileset.TileID(tileset.BitLeft|tileset.BitRight), nil)
	return tm, ts
}

func TestBuildTwoCellStraightRoadProducesThroughLanes(t *testing.T) {
	tm, ts := twoCellStraightRoad(t)
	g, lights := Build(tm, ts, nil)

	assert.Empty(t, lights)
	// each cell is a through-cell (2 connections): 2 lane connectors per cell.
	assert.Len(t, g.Nodes, 4)

	throughCount := len(g.NodesByKind(LaneConnector))
	assert.Equal(t, 4, throughCount)
}

func TestBuildIsDeterministicAcrossRebuilds(t *testing.T) {
	tm, ts := twoCellStraightRoad(t)
	g1, _ := Build(tm, ts, nil)
	g2, _ := Build(tm, ts, nil)

	assert.Equal(t, g1.SortedNodeIDs(), g2.SortedNodeIDs())

	m1 := g1.AdjacencyMatrix()
	m2 := g2.AdjacencyMatrix()
	require.Equal(t, m1.Rows(), m2.Rows())
	require.Equal(t, m1.Cols(), m2.Cols())
	for i := 0; i < m1.Rows(); i++ {
		for j := 0; j < m1.Cols(); j++ {
			v1, err := m1.At(i, j)
			require.NoError(t, err)
			v2, err := m2.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, v1, v2)
		}
	}
}

func TestFourWayIntersectionGetsOpposingSignalPhases(t *testing.T) {
	ts := tileset.DefaultTileset()
	tm := tilemap.New(1, 1)
	tile, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	tile.Fix(tileset.TileID(tileset.BitUp|tileset.BitDown|tileset.BitLeft|tileset.BitRight), nil)

	g, lights := Build(tm, ts, nil)
	require.Len(t, lights, 2)

	var verticalColor, horizontalColor string
	for _, n := range g.NodesByKind(LaneConnector) {
		require.Equal(t, ControlSignal, n.Control.Kind)
		light := lights[n.Control.SignalID]
		require.NotNil(t, light)
		if n.Facing == geom.Up || n.Facing == geom.Down {
			verticalColor = light.Color().String()
		} else {
			horizontalColor = light.Color().String()
		}
	}
	assert.NotEqual(t, verticalColor, horizontalColor)
}

func TestRebuildCarriesOverLiveLightPhase(t *testing.T) {
	ts := tileset.DefaultTileset()
	tm := tilemap.New(1, 1)
	tile, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	tile.Fix(tileset.TileID(tileset.BitUp|tileset.BitDown|tileset.BitLeft|tileset.BitRight), nil)

	_, lights := Build(tm, ts, nil)
	for _, light := range lights {
		light.Step(6.0) // partway through the current phase, not a fresh reset
	}

	_, rebuilt := Build(tm, ts, lights)
	for key, light := range rebuilt {
		original := lights[key]
		assert.Equal(t, original.Color(), light.Color())
	}
}

func TestTIntersectionYieldsOnTheStemArm(t *testing.T) {
	ts := tileset.DefaultTileset()
	tm := tilemap.New(1, 1)
	tile, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	tile.Fix(tileset.TileID(tileset.BitUp|tileset.BitDown|tileset.BitLeft), nil)

	g, _ := Build(tm, ts, nil)
	yieldCount := 0
	for _, n := range g.NodesByKind(LaneConnector) {
		if n.Control.Kind == ControlYield {
			yieldCount++
			assert.Equal(t, geom.Left, n.Facing)
		}
	}
	assert.Equal(t, 1, yieldCount)
}

func TestDeadendHasPairedEntryExit(t *testing.T) {
	ts := tileset.DefaultTileset()
	tm := tilemap.New(1, 1)
	tile, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	tile.Fix(tileset.TileID(tileset.BitUp), nil)

	g, _ := Build(tm, ts, nil)
	entries := g.NodesByKind(DeadendEntry)
	exits := g.NodesByKind(DeadendExit)
	require.Len(t, entries, 1)
	require.Len(t, exits, 1)
	assert.Contains(t, g.Neighbors(entries[0].ID), exits[0].ID)
}

func TestEdgeSplinePicksWideTangentForStraightThrough(t *testing.T) {
	tm, ts := twoCellStraightRoad(t)
	g, _ := Build(tm, ts, nil)

	// the through lane inside cell (1,1), from its left arm to its right arm.
	leftArm := NodeID(tm.Width, tilemap.Cell{X: 1, Y: 1}, LaneConnector, geom.Left, 0)
	rightArm := NodeID(tm.Width, tilemap.Cell{X: 1, Y: 1}, LaneConnector, geom.Right, 0)

	spline, ok := EdgeSpline(g, leftArm, rightArm)
	require.True(t, ok)
	assert.InDelta(t, wideTangent, spline.P1.Sub(spline.P0).Length(), 1e-9)
	assert.Greater(t, spline.ArcLength(), 0.0)
}
