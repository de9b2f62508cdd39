// Package pipeline runs the batch route computation end to end.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"

	"cycle_router/pkg/config"
	"cycle_router/pkg/fetch"
	"cycle_router/pkg/geo"
	"cycle_router/pkg/graph"
	"cycle_router/pkg/logger"
	"cycle_router/pkg/metrics"
	osmparser "cycle_router/pkg/osm"
	"cycle_router/pkg/routing"
)

// Summary describes a completed run.
type Summary struct {
	Source, Goal osm.NodeID
	Nodes        int
	Edges        int
	RouteNodes   int
	DistanceMM   uint64
	Settled      int
	Polyline     string
	Elapsed      time.Duration
}

// httpClient is used for the extract download. The extract is large, so
// only the connection phase is bounded.
var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	},
}

// LoadGraph returns the routing graph, from the cache when both artifacts
// exist and otherwise by ingesting the PBF extract (downloading it first if
// missing). A freshly built graph is written to the cache.
func LoadGraph(ctx context.Context, cfg *config.Config) (*graph.Graph, error) {
	log := logger.Get()
	paths := graph.CachePaths{Nodes: cfg.NodesCachePath, Adjacency: cfg.AdjacencyCachePath}

	if graph.CacheExists(paths) {
		start := time.Now()
		g, err := graph.ReadCache(paths)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded graph cache",
			append([]zap.Field{
				zap.Int("nodes", g.NumNodes()),
				zap.Int("edges", g.NumEdges()),
				zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
			}, metrics.Memory().Fields()...)...)
		return g, nil
	}

	if _, err := os.Stat(cfg.PBFPath); os.IsNotExist(err) {
		if err := fetch.Download(ctx, httpClient, cfg.SourceURL, cfg.PBFPath); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cfg.PBFPath, err)
	}

	f, err := os.Open(cfg.PBFPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.PBFPath, err)
	}
	defer f.Close()

	start := time.Now()
	parsed, err := osmparser.Parse(ctx, f, osmparser.NewWayFilter(cfg.Filter), osmparser.ParseOptions{
		Procs:         cfg.DecodeWorkers,
		ProgressEvery: cfg.ProgressEvery,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Parsed extract",
		append([]zap.Field{
			zap.Int("nodes", len(parsed.Nodes)),
			zap.Int("cyclable_ways", len(parsed.Ways)),
			zap.Int("rejected_ways", parsed.RejectedWays),
			zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		}, metrics.Memory().Fields()...)...)

	start = time.Now()
	g := graph.Build(parsed)
	log.Info("Built graph",
		append([]zap.Field{
			zap.Int("nodes", g.NumNodes()),
			zap.Int("edges", g.NumEdges()),
			zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		}, metrics.Memory().Fields()...)...)

	start = time.Now()
	if err := graph.WriteCache(paths, g); err != nil {
		return nil, err
	}
	log.Info("Wrote graph cache",
		zap.String("nodes", paths.Nodes),
		zap.String("adjacency", paths.Adjacency),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)))

	return g, nil
}

// Run loads the graph, finds the shortest cyclable route between the
// configured endpoints and writes it to cfg.ResultPath as an encoded polyline.
func Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	log := logger.Get()
	runStart := time.Now()

	g, err := LoadGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var idx *graph.NodeIndex
	source, err := resolve(g, &idx, cfg.Source, cfg.MaxSnapMeters)
	if err != nil {
		return nil, fmt.Errorf("resolve source %s: %w", cfg.Source, err)
	}
	goal, err := resolve(g, &idx, cfg.Goal, cfg.MaxSnapMeters)
	if err != nil {
		return nil, fmt.Errorf("resolve goal %s: %w", cfg.Goal, err)
	}

	comps := graph.FindComponents(g)
	count, largest := comps.Count()
	log.Info("Graph components",
		zap.Int("components", count),
		zap.Int("largest", largest),
		zap.Int("source_component", comps.SizeOf(source)),
		zap.Int("goal_component", comps.SizeOf(goal)))
	if !comps.Connected(source, goal) {
		return nil, fmt.Errorf("%w: %d and %d are in different components (sizes %d and %d)",
			routing.ErrNoRoute, source, goal, comps.SizeOf(source), comps.SizeOf(goal))
	}

	start := time.Now()
	res, err := routing.Search(ctx, g, source, goal)
	if err != nil {
		return nil, err
	}
	log.Info("Search complete",
		append([]zap.Field{
			zap.Int64("source", int64(source)),
			zap.Int64("goal", int64(goal)),
			zap.Float64("meters", res.Meters()),
			zap.Int("settled", res.Settled),
			zap.Int("pushed", res.Pushed),
			zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		}, metrics.Memory().Fields()...)...)

	line, err := routing.Reconstruct(res, g.Nodes, source, goal)
	if err != nil {
		return nil, err
	}
	encoded, err := routing.Encode(line)
	if err != nil {
		return nil, err
	}
	if err := writeResult(cfg.ResultPath, encoded); err != nil {
		return nil, err
	}

	summary := &Summary{
		Source:     source,
		Goal:       goal,
		Nodes:      g.NumNodes(),
		Edges:      g.NumEdges(),
		RouteNodes: len(line),
		DistanceMM: res.DistanceMM,
		Settled:    res.Settled,
		Polyline:   encoded,
		Elapsed:    time.Since(runStart),
	}
	log.Info("Route written",
		zap.String("path", cfg.ResultPath),
		zap.Int("route_nodes", summary.RouteNodes),
		zap.Duration("total", summary.Elapsed.Round(time.Millisecond)))
	return summary, nil
}

// resolve maps an endpoint to a node of g. The spatial index is built lazily
// and shared between endpoints.
func resolve(g *graph.Graph, idx **graph.NodeIndex, ep config.Endpoint, maxMeters float64) (osm.NodeID, error) {
	if ep.Node != 0 {
		id := osm.NodeID(ep.Node)
		if _, ok := g.Nodes[id]; !ok {
			return 0, graph.ErrUnknownNode
		}
		return id, nil
	}
	if ep.Coord == nil {
		return 0, fmt.Errorf("endpoint has neither node nor coordinate")
	}

	if *idx == nil {
		*idx = graph.NewNodeIndex(g)
		logger.Get().Debug("Built node index", zap.Int("nodes", (*idx).Len()))
	}
	id, d, err := (*idx).Nearest(geo.Point(ep.Coord.Lat, ep.Coord.Lon), maxMeters)
	if err != nil {
		return 0, fmt.Errorf("no node within %.0fm: %w", maxMeters, err)
	}
	logger.Get().Info("Snapped endpoint",
		zap.Stringer("endpoint", ep),
		zap.Int64("node", int64(id)),
		zap.Float64("meters", d))
	return id, nil
}

func writeResult(path, polyline string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create result directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(polyline), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
