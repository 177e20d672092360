package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

func threeCellStraightRoadGraph(t *testing.T) *network.Graph {
	t.Helper()
	ts := tileset.DefaultTileset()
	tm := tilemap.New(3, 1)
	for x := 1; x <= 3; x++ {
		tile, _ := tm.At(tilemap.Cell{X: x, Y: 1})
		bits := tileset.BitLeft | tileset.BitRight
		tile.Fix(tileset.TileID(bits), nil)
	}
	g, _ := network.Build(tm, ts, nil)
	return g
}

func TestFindPathAcrossStraightRoad(t *testing.T) {
	g := threeCellStraightRoadGraph(t)
	lanes := g.NodesByKind(network.LaneConnector)
	require.NotEmpty(t, lanes)

	start := lanes[0]
	var end *network.Node
	for _, n := range lanes {
		if n.ID != start.ID {
			end = n
			break
		}
	}
	require.NotNil(t, end)

	path, ok := FindPath(g, start.ID, end.ID)
	require.True(t, ok)
	assert.NotEmpty(t, path.Splines)
	assert.False(t, path.Finished)
}

func TestFindPathSameStartAndEndIsTriviallyFinished(t *testing.T) {
	g := threeCellStraightRoadGraph(t)
	lanes := g.NodesByKind(network.LaneConnector)
	require.NotEmpty(t, lanes)

	path, ok := FindPath(g, lanes[0].ID, lanes[0].ID)
	require.True(t, ok)
	assert.True(t, path.Finished)
}

func TestFindPathUnknownNodeFails(t *testing.T) {
	g := threeCellStraightRoadGraph(t)
	_, ok := FindPath(g, 999999, 999998)
	assert.False(t, ok)
}
