package graph

import "github.com/paulmach/osm"

// UnionFind implements a disjoint-set data structure with path halving
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // rank stays below ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x uint32) uint32 {
	return uf.size[uf.Find(x)]
}

// Components groups the graph's nodes into weakly connected components
// (edges treated as undirected).
type Components struct {
	index map[osm.NodeID]uint32
	uf    *UnionFind
}

// FindComponents runs union-find over every edge of g.
func FindComponents(g *Graph) *Components {
	index := make(map[osm.NodeID]uint32, len(g.Nodes))
	for id := range g.Nodes {
		index[id] = uint32(len(index))
	}

	uf := NewUnionFind(uint32(len(index)))
	for from, edges := range g.Adj {
		u, ok := index[from]
		if !ok {
			continue
		}
		for _, e := range edges {
			if v, ok := index[e.To]; ok {
				uf.Union(u, v)
			}
		}
	}
	return &Components{index: index, uf: uf}
}

// Connected reports whether a and b share a weak component. Unknown nodes
// are never connected. Weak disconnection implies b is unreachable from a.
func (c *Components) Connected(a, b osm.NodeID) bool {
	ia, okA := c.index[a]
	ib, okB := c.index[b]
	if !okA || !okB {
		return false
	}
	return c.uf.Find(ia) == c.uf.Find(ib)
}

// SizeOf returns the number of nodes in id's component, or 0 if id is unknown.
func (c *Components) SizeOf(id osm.NodeID) int {
	i, ok := c.index[id]
	if !ok {
		return 0
	}
	return int(c.uf.Size(i))
}

// Count returns the number of components and the size of the largest one.
func (c *Components) Count() (count, largest int) {
	for i := uint32(0); i < uint32(len(c.index)); i++ {
		if c.uf.Find(i) != i {
			continue
		}
		count++
		if s := int(c.uf.size[i]); s > largest {
			largest = s
		}
	}
	return count, largest
}
