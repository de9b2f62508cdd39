package graph

import (
	"github.com/paulmach/osm"
	"go.uber.org/zap"

	"cycle_router/pkg/geo"
	"cycle_router/pkg/logger"
	osmparser "cycle_router/pkg/osm"
)

// Build creates the routable graph from parsed OSM data.
// Each consecutive node pair of a way becomes one or two directed edges,
// weighted by great-circle distance. Nodes not touched by any edge are dropped.
func Build(result *osmparser.ParseResult) *Graph {
	log := logger.Get()
	g := New()
	referenced := make(map[osm.NodeID]struct{})

	var skippedEdges int
	for _, w := range result.Ways {
		fwd, bwd := osmparser.Direction(w.Tags)
		if !fwd && !bwd {
			continue
		}

		for i := 0; i < len(w.Nodes)-1; i++ {
			u, v := w.Nodes[i], w.Nodes[i+1]
			up, uOk := result.Nodes[u]
			vp, vOk := result.Nodes[v]
			if !uOk || !vOk {
				skippedEdges++
				continue
			}

			dist := geo.Distance(up, vp)
			if fwd {
				g.AddEdge(u, v, dist)
			}
			if bwd {
				g.AddEdge(v, u, dist)
			}
			referenced[u] = struct{}{}
			referenced[v] = struct{}{}
		}
	}

	// Keep only the routable subgraph's coordinates.
	for id := range referenced {
		g.Nodes[id] = result.Nodes[id]
	}

	if skippedEdges > 0 {
		log.Warn("Skipped way segments with missing node coordinates", zap.Int("segments", skippedEdges))
	}
	log.Debug("Graph built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()),
		zap.Int("dropped_nodes", len(result.Nodes)-g.NumNodes()))

	return g
}
