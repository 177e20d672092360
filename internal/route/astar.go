package route

import (
	"container/heap"

	"github.com/klemola/liikennematto-sub004/internal/network"
)

// FindPath runs A* over g from startID to endID, with edge weights equal to
// each connecting spline's arc length (spec §4.3 "SpawnTestCar ... via A*
// on the road network with edge weights = spline arc length"). The
// priority-queue mechanics are container/heap rather than a pack library:
// this is the textbook algorithm itself, not a wrapped concern like
// parsing or storage, and none of the pack's graph libraries (lvlath's
// observed surface is a dense matrix type and a TSP solver) expose a
// weighted shortest-path routine to call instead.
func FindPath(g *network.Graph, startID, endID int) (*Path, bool) {
	if startID == endID {
		return NewPath(nil), true
	}
	if _, ok := g.Node(startID); !ok {
		return nil, false
	}
	end, ok := g.Node(endID)
	if !ok {
		return nil, false
	}
	heuristic := func(id int) float64 {
		n, ok := g.Node(id)
		if !ok {
			return 0
		}
		return n.Position.DistanceTo(end.Position)
	}

	gScore := map[int]float64{startID: 0}
	cameFrom := map[int]int{}
	open := &nodeHeap{{id: startID, f: heuristic(startID)}}
	heap.Init(open)
	visited := map[int]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(nodeEntry)
		if visited[current.id] {
			continue
		}
		visited[current.id] = true
		if current.id == endID {
			return reconstructPath(g, cameFrom, startID, endID)
		}
		for _, neighborID := range g.Neighbors(current.id) {
			spline, ok := network.EdgeSpline(g, current.id, neighborID)
			if !ok {
				continue
			}
			weight := spline.ArcLength()
			tentative := gScore[current.id] + weight
			if existing, seen := gScore[neighborID]; seen && tentative >= existing {
				continue
			}
			gScore[neighborID] = tentative
			cameFrom[neighborID] = current.id
			heap.Push(open, nodeEntry{id: neighborID, f: tentative + heuristic(neighborID)})
		}
	}
	return nil, false
}

func reconstructPath(g *network.Graph, cameFrom map[int]int, startID, endID int) (*Path, bool) {
	ids := []int{endID}
	for ids[len(ids)-1] != startID {
		prev, ok := cameFrom[ids[len(ids)-1]]
		if !ok {
			return nil, false
		}
		ids = append(ids, prev)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	splines := make([]SplineMeta, 0, len(ids)-1)
	nodeIDs := make([]int, 0, len(ids)-1)
	for i := 0; i < len(ids)-1; i++ {
		spline, ok := network.EdgeSpline(g, ids[i], ids[i+1])
		if !ok {
			return nil, false
		}
		splines = append(splines, NewSplineMeta(spline))
		nodeIDs = append(nodeIDs, ids[i+1])
	}
	path := NewPath(splines)
	path.NodeIDs = nodeIDs
	return path, true
}

type nodeEntry struct {
	id int
	f  float64
}

type nodeHeap []nodeEntry

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(nodeEntry)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
