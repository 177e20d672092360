package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointItem struct {
	p Point
}

func (pi pointItem) BoundingBox() Box { return BoxFromCenter(pi.p, 0.1, 0.1) }

func TestQuadTreeNeighborsWithin(t *testing.T) {
	bounds := Box{Min: Point{0, 0}, Max: Point{100, 100}}
	qt := NewQuadTree[pointItem](bounds)

	items := []pointItem{
		{Point{10, 10}},
		{Point{10, 12}},
		{Point{90, 90}},
	}
	qt.Build(items)

	near := qt.NeighborsWithin(BoxFromCenter(Point{10, 10}, 0.1, 0.1), 5)
	assert.Len(t, near, 2)

	far := qt.NeighborsWithin(BoxFromCenter(Point{10, 10}, 0.1, 0.1), 1)
	assert.Len(t, far, 1)
}

func TestQuadTreeSplitsBeyondLeafCapacity(t *testing.T) {
	bounds := Box{Min: Point{0, 0}, Max: Point{100, 100}}
	qt := NewQuadTree[pointItem](bounds)

	var items []pointItem
	for i := 0; i < 20; i++ {
		items = append(items, pointItem{Point{X: float64(i) * 5, Y: float64(i) * 5}})
	}
	qt.Build(items)

	all := qt.All()
	require.Len(t, all, 20)
}

func TestQuadTreeNeighborsWithinDedupesItemsStraddlingASplit(t *testing.T) {
	bounds := Box{Min: Point{0, 0}, Max: Point{100, 100}}
	qt := NewQuadTree[pointItem](bounds)

	var items []pointItem
	for i := 0; i < 20; i++ {
		items = append(items, pointItem{Point{X: float64(i) * 5, Y: float64(i) * 5}})
	}
	// Centered on the quadrant split point, this item's bounding box
	// intersects more than one child and gets inserted into each.
	straddler := pointItem{Point{50, 50}}
	items = append(items, straddler)
	qt.Build(items)

	near := qt.NeighborsWithin(BoxFromCenter(straddler.p, 0.1, 0.1), 0.5)
	assert.Len(t, near, 1)
}

func TestQuadTreeAllAfterRebuildReflectsLatestSet(t *testing.T) {
	bounds := Box{Min: Point{0, 0}, Max: Point{10, 10}}
	qt := NewQuadTree[pointItem](bounds)

	qt.Build([]pointItem{{Point{1, 1}}, {Point{2, 2}}})
	assert.Len(t, qt.All(), 2)

	qt.Build([]pointItem{{Point{1, 1}}})
	assert.Len(t, qt.All(), 1)
}
