package graph

import (
	"testing"

	"cycle_router/pkg/geo"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := uint32(0); i < 5; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	if !uf.Union(1, 3) {
		t.Error("Union(1, 3) should merge two sets")
	}
	if uf.Union(0, 2) {
		t.Error("Union(0, 2) should report already merged")
	}
	if uf.Size(3) != 4 {
		t.Errorf("Size(3) = %d, want 4", uf.Size(3))
	}
}

// twoIslands returns 1 -> 2 -> 3 and a separate 4 <-> 5.
func twoIslands() *Graph {
	g := New()
	for id := 1; id <= 5; id++ {
		g.Nodes[osmID(id)] = geo.Point(float64(id)/1000, 0)
	}
	g.AddEdge(1, 2, 100)
	g.AddEdge(2, 3, 100)
	g.AddEdge(4, 5, 100)
	g.AddEdge(5, 4, 100)
	return g
}

func TestComponents(t *testing.T) {
	c := FindComponents(twoIslands())

	if !c.Connected(1, 3) {
		t.Error("1 and 3 should be connected")
	}
	if !c.Connected(3, 1) {
		t.Error("connectivity is undirected: 3 and 1 should be connected")
	}
	if c.Connected(1, 4) {
		t.Error("1 and 4 are in different components")
	}
	if c.Connected(1, 99) {
		t.Error("unknown node should never be connected")
	}

	count, largest := c.Count()
	if count != 2 || largest != 3 {
		t.Errorf("Count() = (%d, %d), want (2, 3)", count, largest)
	}
	if c.SizeOf(5) != 2 {
		t.Errorf("SizeOf(5) = %d, want 2", c.SizeOf(5))
	}
	if c.SizeOf(99) != 0 {
		t.Errorf("SizeOf(99) = %d, want 0", c.SizeOf(99))
	}
}

func TestComponentsEmptyGraph(t *testing.T) {
	count, largest := FindComponents(New()).Count()
	if count != 0 || largest != 0 {
		t.Errorf("Count() = (%d, %d), want (0, 0)", count, largest)
	}
}
