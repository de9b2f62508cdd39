package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/osm"

	"cycle_router/pkg/graph"
)

// ErrNoRoute is returned when the goal cannot be reached from the source.
var ErrNoRoute = errors.New("no route found")

// ctxCheckInterval is how many pops happen between context checks.
const ctxCheckInterval = 4096

// Parent is the predecessor of a settled node. The source has Root set and
// no meaningful Node.
type Parent struct {
	Node osm.NodeID
	Root bool
}

// SearchResult is the outcome of a successful search.
type SearchResult struct {
	Parents    map[osm.NodeID]Parent // every settled node
	DistanceMM uint64                // source to goal
	Settled    int
	Pushed     int
}

// Meters returns the route length in meters.
func (r *SearchResult) Meters() float64 {
	return float64(r.DistanceMM) / 1000
}

// MillimeterWeight converts an edge length to the integer weight used by the search.
func MillimeterWeight(meters float64) uint64 {
	return uint64(math.Round(meters * 1000))
}

// Search runs Dijkstra from source and stops as soon as goal is settled.
// Frontier entries are never updated in place: a node may be pushed several
// times and only its first pop counts.
func Search(ctx context.Context, g *graph.Graph, source, goal osm.NodeID) (*SearchResult, error) {
	if _, ok := g.Nodes[source]; !ok {
		return nil, fmt.Errorf("source %d: %w", source, graph.ErrUnknownNode)
	}
	if _, ok := g.Nodes[goal]; !ok {
		return nil, fmt.Errorf("goal %d: %w", goal, graph.ErrUnknownNode)
	}

	res := &SearchResult{Parents: make(map[osm.NodeID]Parent)}
	var pq MinHeap
	pq.Push(PQItem{Dist: 0, Node: source, Parent: Parent{Root: true}})
	res.Pushed++

	for pq.Len() > 0 {
		if res.Settled%ctxCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		item := pq.Pop()
		if _, settled := res.Parents[item.Node]; settled {
			continue // stale entry
		}
		res.Parents[item.Node] = item.Parent
		res.Settled++

		if item.Node == goal {
			res.DistanceMM = item.Dist
			return res, nil
		}

		for _, e := range g.EdgesFrom(item.Node) {
			if _, settled := res.Parents[e.To]; settled {
				continue
			}
			pq.Push(PQItem{
				Dist:   item.Dist + MillimeterWeight(e.Meters),
				Node:   e.To,
				Parent: Parent{Node: item.Node},
			})
			res.Pushed++
		}
	}

	return nil, fmt.Errorf("%w: %d nodes settled from %d, goal %d never reached", ErrNoRoute, res.Settled, source, goal)
}
