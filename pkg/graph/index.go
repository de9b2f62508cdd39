package graph

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/tidwall/rtree"

	"cycle_router/pkg/geo"
)

var (
	// ErrPointTooFar is returned when no routable node lies within the snap radius.
	ErrPointTooFar = errors.New("point too far from road")
	// ErrUnknownNode is returned when an endpoint id is not part of the graph.
	ErrUnknownNode = errors.New("node not in routable graph")
)

// NodeIndex finds the routable node closest to a coordinate.
type NodeIndex struct {
	tree rtree.RTreeG[osm.NodeID]
}

// NewNodeIndex indexes every node that has outgoing or incoming edges.
func NewNodeIndex(g *Graph) *NodeIndex {
	idx := &NodeIndex{}
	for id, p := range g.Nodes {
		pt := [2]float64{p.Lon(), p.Lat()}
		idx.tree.Insert(pt, pt, id)
	}
	return idx
}

// Len returns the number of indexed nodes.
func (idx *NodeIndex) Len() int {
	return idx.tree.Len()
}

// Nearest returns the closest node within maxMeters of p and its distance.
// Ties are broken by the lower node id.
func (idx *NodeIndex) Nearest(p orb.Point, maxMeters float64) (osm.NodeID, float64, error) {
	var best osm.NodeID
	bestDist := math.Inf(1)
	for _, b := range geo.SearchBounds(p, maxMeters) {
		idx.tree.Search(
			[2]float64{b.Min.Lon(), b.Min.Lat()},
			[2]float64{b.Max.Lon(), b.Max.Lat()},
			func(min, _ [2]float64, id osm.NodeID) bool {
				d := geo.Distance(p, orb.Point{min[0], min[1]})
				if d < bestDist || (d == bestDist && id < best) {
					best, bestDist = id, d
				}
				return true
			},
		)
	}

	if bestDist > maxMeters {
		return 0, bestDist, ErrPointTooFar
	}
	return best, bestDist, nil
}
