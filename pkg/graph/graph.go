package graph

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Edge is a directed edge stored in its source node's adjacency list.
type Edge struct {
	To     osm.NodeID
	Meters float64
}

// Graph is the routable network: node coordinates and outgoing edges.
// Every adjacency key and every edge target has an entry in Nodes.
type Graph struct {
	Nodes map[osm.NodeID]orb.Point
	Adj   map[osm.NodeID][]Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Nodes: make(map[osm.NodeID]orb.Point),
		Adj:   make(map[osm.NodeID][]Edge),
	}
}

// AddEdge appends a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(from, to osm.NodeID, meters float64) {
	g.Adj[from] = append(g.Adj[from], Edge{To: to, Meters: meters})
}

// EdgesFrom returns the outgoing edges of u; nil for dead ends.
func (g *Graph) EdgesFrom(u osm.NodeID) []Edge {
	return g.Adj[u]
}

// NumNodes returns the size of the node table.
func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

// NumEdges returns the number of directed edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, edges := range g.Adj {
		n += len(edges)
	}
	return n
}

// Validate checks the node-table invariant and edge weights.
func (g *Graph) Validate() error {
	var errs []error
	for from, edges := range g.Adj {
		if _, ok := g.Nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("edge source %d has no coordinates", from))
		}
		for _, e := range edges {
			if _, ok := g.Nodes[e.To]; !ok {
				errs = append(errs, fmt.Errorf("edge %d->%d: target has no coordinates", from, e.To))
			}
			if !(e.Meters >= 0) {
				errs = append(errs, fmt.Errorf("edge %d->%d: invalid weight %v", from, e.To, e.Meters))
			}
		}
		if len(errs) >= 10 {
			break
		}
	}
	return errors.Join(errs...)
}
