// Package unionfind provides a disjoint-set forest over integer indices.
//
// It is independent of any geometry type: callers map their items to
// indices 0..n-1, union pairs that belong together, and read back the
// groups.
package unionfind

// DisjointSet is a union-find structure with path compression and union by rank.
type DisjointSet struct {
	parent []int
	rank   []int
}

// New creates a set of n singleton groups.
func New(n int) *DisjointSet {
	ds := &DisjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

// Len returns the number of elements.
func (ds *DisjointSet) Len() int {
	return len(ds.parent)
}

// Find returns the representative of the group containing x.
func (ds *DisjointSet) Find(x int) int {
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[x] != root {
		next := ds.parent[x]
		ds.parent[x] = root
		x = next
	}
	return root
}

// Union merges the groups containing a and b. It reports whether they were
// previously separate.
func (ds *DisjointSet) Union(a, b int) bool {
	ra, rb := ds.Find(a), ds.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
	return true
}

// Same reports whether a and b are in the same group.
func (ds *DisjointSet) Same(a, b int) bool {
	return ds.Find(a) == ds.Find(b)
}

// Groups returns the members of every group. Groups are ordered by their
// smallest member and members are in ascending order.
func (ds *DisjointSet) Groups() [][]int {
	index := make(map[int]int)
	var groups [][]int
	for i := range ds.parent {
		r := ds.Find(i)
		g, ok := index[r]
		if !ok {
			g = len(groups)
			index[r] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
