package network

import (
	"sort"

	lvmat "github.com/katalvlaran/lvlath/matrix"

	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
)

// Graph is the directed road-network graph. Node ids are a deterministic
// function of (cell, kind, direction, lot id) rather than an incrementing
// counter, so rebuilding the graph from an unchanged tilemap reproduces
// identical ids (spec §8 round-trip law) without any extra bookkeeping.
type Graph struct {
	width int // tilemap width, needed to decode cell index back into (x,y)
	Nodes map[int]*Node
	edges map[int][]int
}

func newGraph(width int) *Graph {
	return &Graph{width: width, Nodes: map[int]*Node{}, edges: map[int][]int{}}
}

// NodeID computes the deterministic id for a node at cell, of kind, facing
// dir, and (for lot nodes) belonging to lotID.
func NodeID(width int, cell tilemap.Cell, kind NodeKind, dir geom.Direction, lotID int) int {
	if kind == LotEntry || kind == LotExit {
		return 1_000_000 + lotID*10 + nodeKindCode(kind)
	}
	return cell.Index(width)*40 + nodeKindCode(kind)*4 + int(dir)
}

func (g *Graph) addNode(n Node) *Node {
	if existing, ok := g.Nodes[n.ID]; ok {
		existing.Control = n.Control // allow control updates without losing edges
		return existing
	}
	cp := n
	g.Nodes[n.ID] = &cp
	return &cp
}

func (g *Graph) addEdge(from, to int) {
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Neighbors returns the ids of nodes reachable by one directed edge from id.
func (g *Graph) Neighbors(id int) []int {
	return g.edges[id]
}

// Node looks up a node by id.
func (g *Graph) Node(id int) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// SortedNodeIDs returns every node id in ascending order, the canonical
// iteration order used for the adjacency matrix and the round-trip
// isomorphism test (spec §8).
func (g *Graph) SortedNodeIDs() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AdjacencyMatrix renders the graph as a dense 0/1 matrix over
// SortedNodeIDs(), built with lvlath's matrix package. Used for debug
// dumps and the "rebuilding twice yields isomorphic graphs" test, where
// comparing two dense matrices is simpler than comparing adjacency maps.
// lvlath's matrix package allocates via NewDense(rows, cols) (*Dense, error)
// and writes through Set(i, j, v) error, not a gonum-style literal-backed
// constructor.
func (g *Graph) AdjacencyMatrix() *lvmat.Dense {
	ids := g.SortedNodeIDs()
	n := len(ids)
	index := make(map[int]int, n)
	for i, id := range ids {
		index[id] = i
	}
	m, err := lvmat.NewDense(n, n)
	if err != nil {
		return m
	}
	for i, id := range ids {
		for _, to := range g.edges[id] {
			j, ok := index[to]
			if !ok {
				continue
			}
			_ = m.Set(i, j, 1) // bounds-safe write, i/j are derived from n itself
		}
	}
	return m
}

// NodesByKind returns every node of the given kind, in id order.
func (g *Graph) NodesByKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range g.SortedNodeIDs() {
		n := g.Nodes[id]
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
