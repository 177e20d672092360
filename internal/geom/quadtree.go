package geom

// Item is anything a QuadTree can index: cars, lots, road-network nodes.
type Item interface {
	BoundingBox() Box
}

// leafCapacity bounds how many items a leaf holds before it splits. The spec
// treats this as a tuning constant, not a mandated value; 4 keeps neighbor
// queries near O(log n) up to the 32x32 grids the tilemap supports (spec §9).
const leafCapacity = 4

// maxDepth stops pathological splitting when many items share a location.
const maxDepth = 12

// QuadTree is a region quadtree over a fixed world bounding box. It is
// rebuilt wholesale each tick from World's live collections rather than
// mutated incrementally. Cars and lots move or appear/disappear every
// frame, so an insert/delete API would buy little.
type QuadTree[T interface {
	Item
	comparable
}] struct {
	bounds   Box
	items    []T
	children *[4]QuadTree[T]
	depth    int
}

// NewQuadTree creates an empty tree over bounds.
func NewQuadTree[T interface {
	Item
	comparable
}](bounds Box) *QuadTree[T] {
	return &QuadTree[T]{bounds: bounds}
}

// Build discards the current contents and reinserts items, splitting nodes
// that exceed leafCapacity.
func (q *QuadTree[T]) Build(items []T) {
	q.items = nil
	q.children = nil
	for _, it := range items {
		q.insert(it, 0)
	}
}

func (q *QuadTree[T]) insert(it T, depth int) {
	if q.children != nil {
		for i := range q.children {
			if q.children[i].bounds.Intersects(it.BoundingBox()) {
				q.children[i].insert(it, depth+1)
			}
		}
		return
	}
	q.items = append(q.items, it)
	if len(q.items) > leafCapacity && depth < maxDepth {
		q.split(depth)
	}
}

func (q *QuadTree[T]) split(depth int) {
	cx := (q.bounds.Min.X + q.bounds.Max.X) / 2
	cy := (q.bounds.Min.Y + q.bounds.Max.Y) / 2
	children := [4]QuadTree[T]{
		{bounds: Box{q.bounds.Min, Point{cx, cy}}, depth: depth + 1},
		{bounds: Box{Point{cx, q.bounds.Min.Y}, Point{q.bounds.Max.X, cy}}, depth: depth + 1},
		{bounds: Box{Point{q.bounds.Min.X, cy}, Point{cx, q.bounds.Max.Y}}, depth: depth + 1},
		{bounds: Box{Point{cx, cy}, q.bounds.Max}, depth: depth + 1},
	}
	q.children = &children
	pending := q.items
	q.items = nil
	for _, it := range pending {
		q.insert(it, depth)
	}
}

// NeighborsWithin returns every indexed item whose bounding box lies within
// radius of query, deduplicated. Used for collision checks, node-by-position
// lookups and lot-by-point hits (spec §4.5).
func (q *QuadTree[T]) NeighborsWithin(query Box, radius float64) []T {
	region := query.ExpandedBy(radius)
	seen := map[T]bool{}
	var out []T
	q.collect(region, query, radius, seen, &out)
	return out
}

// collect walks matching leaves, deduplicating via seen: an item whose
// bounding box straddles a split boundary is inserted into every
// intersecting child (see insert) and must only be reported once.
func (q *QuadTree[T]) collect(region, query Box, radius float64, seen map[T]bool, out *[]T) {
	if !q.bounds.Intersects(region) {
		return
	}
	if q.children != nil {
		for i := range q.children {
			q.children[i].collect(region, query, radius, seen, out)
		}
		return
	}
	for _, it := range q.items {
		if seen[it] {
			continue
		}
		if it.BoundingBox().NearestDistance(query) <= radius {
			seen[it] = true
			*out = append(*out, it)
		}
	}
}

// All returns every item currently indexed, each once, in tree order. An
// item stored in several leaves (it straddles a split line) is returned at
// its first occurrence only.
func (q *QuadTree[T]) All() []T {
	if q.children == nil {
		return append([]T(nil), q.items...)
	}
	seen := map[T]bool{}
	var out []T
	for i := range q.children {
		for _, it := range q.children[i].All() {
			if !seen[it] {
				seen[it] = true
				out = append(out, it)
			}
		}
	}
	return out
}
